package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docextract/internal/domain"
	"docextract/internal/port"
)

// MockDocumentParser is a mock implementation of port.DocumentParser.
type MockDocumentParser struct {
	mock.Mock
}

func (m *MockDocumentParser) Classify(ctx context.Context, text string) (domain.DocumentType, error) {
	args := m.Called(ctx, text)
	return args.Get(0).(domain.DocumentType), args.Error(1)
}

func (m *MockDocumentParser) Extract(ctx context.Context, input port.ExtractInput) (*port.ExtractOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.ExtractOutput), args.Error(1)
}
