package domain

// BBox is an axis-aligned box in page coordinates: x0, y0, x1, y1.
type BBox [4]float64

// Normalized returns the box with x0<=x1 and y0<=y1.
func (b BBox) Normalized() BBox {
	if b[0] > b[2] {
		b[0], b[2] = b[2], b[0]
	}
	if b[1] > b[3] {
		b[1], b[3] = b[3], b[1]
	}
	return b
}

// Token is one OCR or PDF text-layer word with its location.
type Token struct {
	Text string `json:"text" yaml:"text"`
	BBox BBox   `json:"bbox" yaml:"bbox"`
	// Page is 1-indexed.
	Page int `json:"page" yaml:"page"`
	// Confidence is the OCR word confidence in [0,1]; nil when the source
	// does not report one.
	Confidence *float64 `json:"confidence,omitempty" yaml:"confidence,omitempty"`
}

// Source locates an extracted value on the page.
type Source struct {
	Page int  `json:"page" yaml:"page"`
	BBox BBox `json:"bbox" yaml:"bbox"`
}

// ExtractedField is one scored leaf value of the extraction.
type ExtractedField struct {
	Name       string  `json:"name" yaml:"name"`
	Value      string  `json:"value" yaml:"value"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
	Source     *Source `json:"source" yaml:"source"`
}

// QAResult is the outcome of the validation rule engine.
type QAResult struct {
	PassedRules []string `json:"passed_rules" yaml:"passed_rules"`
	FailedRules []string `json:"failed_rules" yaml:"failed_rules"`
	Notes       string   `json:"notes" yaml:"notes"`
}

// DocumentConfidenceReport is the final output for one document.
type DocumentConfidenceReport struct {
	DocType           string           `json:"doc_type" yaml:"doc_type"`
	Fields            []ExtractedField `json:"fields" yaml:"fields"`
	OverallConfidence float64          `json:"overall_confidence" yaml:"overall_confidence"`
	QA                QAResult         `json:"qa" yaml:"qa"`
}

// IsError reports whether the report describes a pipeline failure.
func (r *DocumentConfidenceReport) IsError() bool {
	return r.DocType == ErrorDocType
}

// NewErrorReport builds the report returned when the pipeline fails before
// scoring: no fields, zero confidence and the failure code as the only
// failed rule.
func NewErrorReport(code, message string) *DocumentConfidenceReport {
	return &DocumentConfidenceReport{
		DocType:           ErrorDocType,
		Fields:            []ExtractedField{},
		OverallConfidence: 0,
		QA: QAResult{
			PassedRules: []string{},
			FailedRules: []string{code},
			Notes:       message,
		},
	}
}
