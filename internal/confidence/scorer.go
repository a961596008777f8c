package confidence

import (
	"strings"

	"docextract/internal/domain"
	"docextract/internal/grounding"
)

// Input is everything needed to score one extraction.
type Input struct {
	DocType domain.DocumentType
	// Data is the primary extraction.
	Data map[string]interface{}
	// Runs are the repeated extractions used for agreement.
	Runs   []map[string]interface{}
	Tokens []domain.Token
	QA     domain.QAResult
	// KeyRank orders fields; nil sorts alphabetically.
	KeyRank map[string]int
	// Only restricts the report to these top-level fields when non-empty.
	Only []string
}

// Score builds one ExtractedField per leaf of the primary extraction with a
// composite confidence rounded to two decimals and its grounded source.
func Score(in Input) []domain.ExtractedField {
	consistency := Consistency(in.Data, in.Runs)
	only := fieldFilter(in.Only)

	leaves := Flatten(in.Data, in.KeyRank)
	fields := make([]domain.ExtractedField, 0, len(leaves))
	for _, leaf := range leaves {
		if only != nil {
			top, _, _ := strings.Cut(leaf.Path, ".")
			if _, ok := only[top]; !ok {
				continue
			}
		}
		conf := FieldConfidence(leaf.Path, leaf.Value, consistency[leaf.Path], in.QA, in.Tokens)
		fields = append(fields, domain.ExtractedField{
			Name:       leaf.Path,
			Value:      leaf.Value,
			Confidence: round2(conf),
			Source:     grounding.FindSource(leaf.Value, in.Tokens),
		})
	}
	return fields
}

// BuildReport scores the extraction and assembles the document report.
func BuildReport(in Input) *domain.DocumentConfidenceReport {
	fields := Score(in)
	qa := in.QA
	if qa.PassedRules == nil {
		qa.PassedRules = []string{}
	}
	if qa.FailedRules == nil {
		qa.FailedRules = []string{}
	}
	return &domain.DocumentConfidenceReport{
		DocType:           string(in.DocType),
		Fields:            fields,
		OverallConfidence: Overall(fields, qa),
		QA:                qa,
	}
}

func fieldFilter(names []string) map[string]struct{} {
	var set map[string]struct{}
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if set == nil {
			set = make(map[string]struct{})
		}
		set[n] = struct{}{}
	}
	return set
}
