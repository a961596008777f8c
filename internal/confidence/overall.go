package confidence

import (
	"math"
	"strings"

	"docextract/internal/domain"
)

// fieldWeights raises the importance of key fields, looked up by the
// top-level segment of the field name.
var fieldWeights = map[string]float64{
	"invoice_number":    1.5,
	"total_amount":      2.0,
	"vendor_name":       1.5,
	"patient_name":      1.5,
	"total_charges":     2.0,
	"amount_due":        1.5,
	"prescription_date": 1.5,
	"doctor_name":       1.5,
	"medications":       2.0,
}

const (
	defaultFieldWeight = 1.0
	penaltyPerFailure  = 0.1
	maxPenalty         = 0.5
)

// WeightFor returns the aggregation weight of a field.
func WeightFor(name string) float64 {
	top, _, _ := strings.Cut(name, ".")
	if w, ok := fieldWeights[top]; ok {
		return w
	}
	return defaultFieldWeight
}

// Overall is the weighted mean field confidence, reduced by 10% per failed
// validation rule up to 50%, rounded to two decimals. No fields scores 0.
func Overall(fields []domain.ExtractedField, qa domain.QAResult) float64 {
	if len(fields) == 0 {
		return 0
	}

	var weighted, total float64
	for _, f := range fields {
		w := WeightFor(f.Name)
		weighted += f.Confidence * w
		total += w
	}
	score := weighted / total

	if n := len(qa.FailedRules); n > 0 {
		score *= 1 - math.Min(penaltyPerFailure*float64(n), maxPenalty)
	}
	return round2(score)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
