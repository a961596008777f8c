package confidence_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"docextract/internal/confidence"
	"docextract/internal/domain"
)

func TestWeightFor(t *testing.T) {
	assert.Equal(t, 2.0, confidence.WeightFor("total_amount"))
	assert.Equal(t, 2.0, confidence.WeightFor("medications.0.drug_name"))
	assert.Equal(t, 1.5, confidence.WeightFor("vendor_name"))
	assert.Equal(t, 1.0, confidence.WeightFor("currency"))
	assert.Equal(t, 1.0, confidence.WeightFor("line_items.0.line_total"))
}

func TestOverall_NoFields(t *testing.T) {
	assert.Equal(t, 0.0, confidence.Overall(nil, domain.QAResult{FailedRules: []string{"x"}}))
}

func TestOverall_WeightedMean(t *testing.T) {
	fields := []domain.ExtractedField{
		{Name: "total_amount", Confidence: 0.9},
		{Name: "currency", Confidence: 0.6},
	}
	// (0.9*2 + 0.6*1) / 3 = 0.8
	assert.Equal(t, 0.8, confidence.Overall(fields, domain.QAResult{}))
}

func TestOverall_NoPenaltyEqualsWeightedMean(t *testing.T) {
	fields := []domain.ExtractedField{
		{Name: "vendor_name", Confidence: 0.77},
		{Name: "invoice_number", Confidence: 0.41},
		{Name: "line_items.0.description", Confidence: 0.93},
	}
	mean := (0.77*1.5 + 0.41*1.5 + 0.93*1.0) / 4.0
	assert.InDelta(t, mean, confidence.Overall(fields, domain.QAResult{}), 0.005)
}

func TestOverall_Penalty(t *testing.T) {
	fields := []domain.ExtractedField{{Name: "currency", Confidence: 1.0}}

	tests := []struct {
		failed int
		want   float64
	}{
		{0, 1.0},
		{1, 0.9},
		{3, 0.7},
		{5, 0.5},
		{9, 0.5},
	}
	for _, tt := range tests {
		qa := domain.QAResult{FailedRules: make([]string, tt.failed)}
		assert.InDelta(t, tt.want, confidence.Overall(fields, qa), 1e-9, "failed=%d", tt.failed)
	}
}

func TestOverall_Bounds(t *testing.T) {
	for _, c := range []float64{0, 0.333, 0.999, 1} {
		fields := []domain.ExtractedField{{Name: "total_amount", Confidence: c}, {Name: "x", Confidence: 1 - c}}
		for n := 0; n < 8; n++ {
			got := confidence.Overall(fields, domain.QAResult{FailedRules: make([]string, n)})
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		}
	}
}
