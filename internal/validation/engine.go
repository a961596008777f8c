package validation

import (
	"fmt"

	"go.uber.org/zap"

	"docextract/internal/domain"
)

// Engine dispatches an extraction to its document type's rule set.
type Engine struct {
	invoice      *Registry
	medicalBill  *Registry
	prescription *Registry
	logger       *zap.Logger
}

// NewEngine creates an engine with every built-in rule registered.
func NewEngine(logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		invoice:      registryOf(InvoiceValidators()),
		medicalBill:  registryOf(MedicalBillValidators()),
		prescription: registryOf(PrescriptionValidators()),
		logger:       logger,
	}
}

func registryOf(vals []*BuiltinValidator) *Registry {
	r := NewRegistry()
	for _, v := range vals {
		r.Register(v)
	}
	return r
}

// Registry returns the rule set for a document type, or nil when none exists.
func (e *Engine) Registry(docType domain.DocumentType) *Registry {
	switch docType {
	case domain.DocumentTypeInvoice:
		return e.invoice
	case domain.DocumentTypeMedicalBill:
		return e.medicalBill
	case domain.DocumentTypePrescription:
		return e.prescription
	default:
		return nil
	}
}

// Evaluate runs every rule for the document type and returns the detailed
// outcomes in rule order. An unknown type yields a single failed outcome.
func (e *Engine) Evaluate(docType domain.DocumentType, data map[string]interface{}) []Outcome {
	reg := e.Registry(docType)
	if reg == nil {
		e.logger.Warn("validation.Engine: no rules for document type", zap.String("doc_type", string(docType)))
		id := fmt.Sprintf("no_validation_rules_for_type_%s", docType)
		return []Outcome{fail(id, "doc_type", "invoice, medical_bill or prescription", string(docType),
			fmt.Sprintf("no validation rules registered for document type %q", docType))}
	}

	rec := Record(data)
	var outcomes []Outcome
	for _, v := range reg.All() {
		outcomes = append(outcomes, v.Validate(rec)...)
	}
	return outcomes
}

// Run validates an extraction and summarizes the outcomes as a QAResult.
func (e *Engine) Run(docType domain.DocumentType, data map[string]interface{}) domain.QAResult {
	qa := Summarize(e.Evaluate(docType, data))
	e.logger.Debug("validation.Engine: document validated",
		zap.String("doc_type", string(docType)),
		zap.Int("passed", len(qa.PassedRules)),
		zap.Int("failed", len(qa.FailedRules)),
	)
	return qa
}

// Summarize splits outcomes into passed and failed rule ids.
func Summarize(outcomes []Outcome) domain.QAResult {
	qa := domain.QAResult{
		PassedRules: []string{},
		FailedRules: []string{},
	}
	for _, o := range outcomes {
		if o.Passed {
			qa.PassedRules = append(qa.PassedRules, o.RuleID)
		} else {
			qa.FailedRules = append(qa.FailedRules, o.RuleID)
		}
	}
	if n := len(qa.FailedRules); n > 0 {
		qa.Notes = fmt.Sprintf("%d validation rule(s) failed.", n)
	} else {
		qa.Notes = "All primary validation rules passed."
	}
	return qa
}
