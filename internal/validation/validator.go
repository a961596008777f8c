// Package validation runs the deterministic per-document-type rule sets that
// feed the confidence model.
package validation

// RuleType groups rules by the kind of check they perform.
type RuleType string

const (
	RuleTypeDate       RuleType = "date"
	RuleTypeNumeric    RuleType = "numeric"
	RuleTypeSumCheck   RuleType = "sum_check"
	RuleTypeCollection RuleType = "collection"
)

// Outcome is the result of one rule check. RuleID is the identifier that
// ends up in the passed or failed rule list.
type Outcome struct {
	RuleID        string `json:"rule_id"`
	Passed        bool   `json:"passed"`
	FieldPath     string `json:"field_path"`
	ExpectedValue string `json:"expected_value"`
	ActualValue   string `json:"actual_value"`
	Message       string `json:"message"`
}

// Validator is a single built-in validation rule. A rule may emit zero or
// more outcomes and never fails: malformed input becomes a failed outcome.
type Validator interface {
	Validate(rec Record) []Outcome
	RuleKey() string
	RuleName() string
	RuleType() RuleType
}

// BuiltinValidator wraps a validate function and its metadata for the registry.
type BuiltinValidator struct {
	key      string
	name     string
	ruleType RuleType
	fn       func(Record) []Outcome
}

func (b *BuiltinValidator) Validate(rec Record) []Outcome { return b.fn(rec) }
func (b *BuiltinValidator) RuleKey() string               { return b.key }
func (b *BuiltinValidator) RuleName() string              { return b.name }
func (b *BuiltinValidator) RuleType() RuleType            { return b.ruleType }
