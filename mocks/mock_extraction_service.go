package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docextract/internal/domain"
	"docextract/internal/service"
)

// MockExtractionService is a mock implementation of service.ExtractionService.
type MockExtractionService struct {
	mock.Mock
}

func (m *MockExtractionService) Run(ctx context.Context, input service.ExtractInput) (*service.ExtractResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExtractResult), args.Error(1)
}

func (m *MockExtractionService) Score(ctx context.Context, req service.ScoreRequest) (*domain.DocumentConfidenceReport, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DocumentConfidenceReport), args.Error(1)
}
