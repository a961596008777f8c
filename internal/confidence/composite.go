package confidence

import (
	"strings"

	"docextract/internal/domain"
)

const (
	consistencyWeight = 0.70
	validationWeight  = 0.20
	ocrWeight         = 0.10

	// validationPenalized is the validation component for a field whose
	// kind of rule failed somewhere in the document.
	validationPenalized = 0.5
)

// numericFieldHints mark field names treated as monetary amounts.
var numericFieldHints = []string{"amount", "total", "subtotal", "charge"}

// FieldConfidence blends run agreement, validation outcome and OCR quality
// into a score in [0,1].
func FieldConfidence(name, value string, consistency float64, qa domain.QAResult, tokens []domain.Token) float64 {
	return consistencyWeight*consistency +
		validationWeight*ValidationScore(name, qa) +
		ocrWeight*OCRQuality(value, tokens)
}

// ValidationScore is 1.0 unless a failed rule of the field's kind exists:
// date-named fields are demoted by any date format failure and amount-named
// fields by any numeric failure. The signal is document-wide, not tied to
// the specific field, and demotions do not compound.
func ValidationScore(name string, qa domain.QAResult) float64 {
	if strings.Contains(name, "date") && anyRuleContains(qa.FailedRules, "format_invalid") {
		return validationPenalized
	}
	if isNumericField(name) && anyRuleContains(qa.FailedRules, "numeric_invalid") {
		return validationPenalized
	}
	return 1.0
}

func isNumericField(name string) bool {
	for _, hint := range numericFieldHints {
		if strings.Contains(name, hint) {
			return true
		}
	}
	return false
}

func anyRuleContains(rules []string, substr string) bool {
	for _, r := range rules {
		if strings.Contains(r, substr) {
			return true
		}
	}
	return false
}

// OCRQuality averages the confidence of tokens whose trimmed, lower-cased
// text contains or is contained in the value. Tokens without a confidence
// count as 1.0. Returns 0 when the value is empty or nothing matches.
func OCRQuality(value string, tokens []domain.Token) float64 {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" || len(tokens) == 0 {
		return 0
	}

	var sum float64
	var n int
	for i := range tokens {
		word := strings.ToLower(strings.TrimSpace(tokens[i].Text))
		if word == "" {
			continue
		}
		if !strings.Contains(v, word) && !strings.Contains(word, v) {
			continue
		}
		sum += tokenConfidence(&tokens[i])
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

func tokenConfidence(t *domain.Token) float64 {
	if t.Confidence == nil {
		return 1.0
	}
	c := *t.Confidence
	switch {
	case c < 0:
		return 0
	case c > 1:
		return 1
	default:
		return c
	}
}
