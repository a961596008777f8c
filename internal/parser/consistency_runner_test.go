package parser_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"docextract/internal/config"
	"docextract/internal/parser"
	"docextract/internal/port"
	"docextract/mocks"
)

func TestConsistencyRunner_CollectsRuns(t *testing.T) {
	p := new(mocks.MockDocumentParser)
	p.On("Extract", mock.Anything, extractInput).Return(extractOutput("m"), nil)

	r := parser.NewConsistencyRunner(p, config.ScoringConfig{ConsistencyRuns: 3, MaxConcurrency: 2}, nil)
	runs := r.Run(context.Background(), extractInput)

	assert.Equal(t, 3, r.Runs())
	assert.Len(t, runs, 3)
	for _, run := range runs {
		assert.Equal(t, "Acme", run["vendor_name"])
	}
	p.AssertNumberOfCalls(t, "Extract", 3)
}

func TestConsistencyRunner_DropsFailedRuns(t *testing.T) {
	p := new(mocks.MockDocumentParser)
	p.On("Extract", mock.Anything, extractInput).Return(nil, errors.New("boom")).Once()
	p.On("Extract", mock.Anything, extractInput).Return(&port.ExtractOutput{Data: map[string]interface{}{}}, nil).Once()
	p.On("Extract", mock.Anything, extractInput).Return(extractOutput("m"), nil)

	r := parser.NewConsistencyRunner(p, config.ScoringConfig{ConsistencyRuns: 4, MaxConcurrency: 1}, nil)
	runs := r.Run(context.Background(), extractInput)

	assert.Len(t, runs, 2)
}

func TestConsistencyRunner_Disabled(t *testing.T) {
	p := new(mocks.MockDocumentParser)

	r := parser.NewConsistencyRunner(p, config.ScoringConfig{}, nil)

	assert.Empty(t, r.Run(context.Background(), extractInput))
	p.AssertNotCalled(t, "Extract", mock.Anything, mock.Anything)
}

func TestConsistencyRunner_CancelledContext(t *testing.T) {
	p := new(mocks.MockDocumentParser)
	p.On("Extract", mock.Anything, extractInput).Return(extractOutput("m"), nil).Maybe()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := parser.NewConsistencyRunner(p, config.ScoringConfig{ConsistencyRuns: 2, MaxConcurrency: 2, RequestsPerMinute: 1}, nil)
	runs := r.Run(ctx, extractInput)

	assert.Empty(t, runs)
}
