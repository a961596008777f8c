package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"docextract/internal/domain"
)

// MockReportArchive is a mock implementation of port.ReportArchive.
type MockReportArchive struct {
	mock.Mock
}

func (m *MockReportArchive) Archive(ctx context.Context, report *domain.DocumentConfidenceReport) (string, error) {
	args := m.Called(ctx, report)
	return args.String(0), args.Error(1)
}
