package confidence_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"docextract/internal/confidence"
	"docextract/internal/domain"
)

func conf(v float64) *float64 { return &v }

func TestFieldConfidence_ExactOCRMatch(t *testing.T) {
	tokens := []domain.Token{{Text: "100.00", Page: 1, Confidence: conf(0.9)}}

	got := confidence.FieldConfidence("total_amount", "100.00", 1.0, domain.QAResult{}, tokens)
	assert.InDelta(t, 0.99, got, 1e-9)
}

func TestFieldConfidence_NoRunsUsesZeroConsistency(t *testing.T) {
	scores := confidence.Consistency(map[string]interface{}{"vendor_name": "Acme"}, nil)
	got := confidence.FieldConfidence("vendor_name", "Acme", scores["vendor_name"], domain.QAResult{}, nil)

	assert.InDelta(t, 0.20, got, 1e-9)
}

func TestFieldConfidence_Bounds(t *testing.T) {
	failed := domain.QAResult{FailedRules: []string{"invoice_date_format_invalid", "total_amount_numeric_invalid"}}
	tokens := []domain.Token{{Text: "x", Confidence: conf(1.7)}, {Text: "y", Confidence: conf(-2)}}

	for _, c := range []float64{0, 0.25, 0.5, 1} {
		for _, qa := range []domain.QAResult{{}, failed} {
			for _, name := range []string{"invoice_date", "total_amount", "vendor_name"} {
				got := confidence.FieldConfidence(name, "x y", c, qa, tokens)
				assert.GreaterOrEqual(t, got, 0.0)
				assert.LessOrEqual(t, got, 1.0)
			}
		}
	}
}

func TestValidationScore(t *testing.T) {
	dateFail := domain.QAResult{FailedRules: []string{"due_date_format_invalid"}}
	numFail := domain.QAResult{FailedRules: []string{"subtotal_numeric_invalid"}}
	both := domain.QAResult{FailedRules: []string{"invoice_date_format_invalid", "total_amount_numeric_invalid"}}

	tests := []struct {
		name  string
		field string
		qa    domain.QAResult
		want  float64
	}{
		{"no failures", "invoice_date", domain.QAResult{}, 1.0},
		{"date field, date failure", "invoice_date", dateFail, 0.5},
		{"document-wide date signal", "line_items.0.service_date", dateFail, 0.5},
		{"date failure spares amounts", "total_amount", dateFail, 1.0},
		{"amount field, numeric failure", "total_amount", numFail, 0.5},
		{"charge field, numeric failure", "total_charges", numFail, 0.5},
		{"numeric failure spares text", "vendor_name", numFail, 1.0},
		{"no compounding", "amount_due_date", both, 0.5},
		{"unrelated failure", "vendor_name", domain.QAResult{FailedRules: []string{"no_medication_listed"}}, 1.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, confidence.ValidationScore(tt.field, tt.qa))
		})
	}
}

func TestOCRQuality(t *testing.T) {
	tokens := []domain.Token{
		{Text: "Acme", Confidence: conf(0.8)},
		{Text: "Corp", Confidence: conf(0.6)},
		{Text: "Invoice"},
		{Text: "   "},
	}

	assert.InDelta(t, 0.7, confidence.OCRQuality("Acme Corp", tokens), 1e-9)
	assert.InDelta(t, 1.0, confidence.OCRQuality("invoice", tokens), 1e-9)
	assert.Equal(t, 0.0, confidence.OCRQuality("Globex", tokens))
	assert.Equal(t, 0.0, confidence.OCRQuality("", tokens))
	assert.Equal(t, 0.0, confidence.OCRQuality("Acme", nil))
}
