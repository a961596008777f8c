package validation

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// sumTolerance is the absolute difference under which two amounts agree.
var sumTolerance = decimal.New(1, -2)

func pass(id, field, expected, actual, msg string) Outcome {
	return Outcome{RuleID: id, Passed: true, FieldPath: field, ExpectedValue: expected, ActualValue: actual, Message: msg}
}

func fail(id, field, expected, actual, msg string) Outcome {
	return Outcome{RuleID: id, Passed: false, FieldPath: field, ExpectedValue: expected, ActualValue: actual, Message: msg}
}

// requiredDateRule fails when the field is absent or not a YYYY-MM-DD date.
func requiredDateRule(field, prefix, name string) *BuiltinValidator {
	return &BuiltinValidator{
		key: prefix + "_format", name: name, ruleType: RuleTypeDate,
		fn: func(r Record) []Outcome {
			v, ok := r[field]
			if ok && IsDate(v) {
				return []Outcome{pass(prefix+"_format_valid", field, "YYYY-MM-DD", display(v),
					fmt.Sprintf("%s: %s is a valid date", name, field))}
			}
			return []Outcome{fail(prefix+"_format_invalid", field, "YYYY-MM-DD", display(v),
				fmt.Sprintf("%s: %s is missing or not a valid date", name, field))}
		},
	}
}

// optionalDateRule only checks the field when it is present and non-null.
func optionalDateRule(field, prefix, name string) *BuiltinValidator {
	return &BuiltinValidator{
		key: prefix + "_format", name: name, ruleType: RuleTypeDate,
		fn: func(r Record) []Outcome {
			v, ok := r[field]
			if !ok || v == nil {
				return nil
			}
			if IsDate(v) {
				return []Outcome{pass(prefix+"_format_valid", field, "YYYY-MM-DD", display(v),
					fmt.Sprintf("%s: %s is a valid date", name, field))}
			}
			return []Outcome{fail(prefix+"_format_invalid", field, "YYYY-MM-DD", display(v),
				fmt.Sprintf("%s: %s is not a valid date", name, field))}
		},
	}
}

// requiredNumericRule fails when the field is absent or not a decimal.
func requiredNumericRule(field, name string) *BuiltinValidator {
	return &BuiltinValidator{
		key: field + "_numeric", name: name, ruleType: RuleTypeNumeric,
		fn: func(r Record) []Outcome {
			v, ok := r[field]
			if _, valid := ParseDecimal(v); ok && valid {
				return []Outcome{pass(field+"_numeric_valid", field, "decimal", display(v),
					fmt.Sprintf("%s: %s is numeric", name, field))}
			}
			return []Outcome{fail(field+"_numeric_invalid", field, "decimal", display(v),
				fmt.Sprintf("%s: %s is missing or not numeric", name, field))}
		},
	}
}

// optionalNumericRule passes a null value and skips an absent one.
func optionalNumericRule(field, name string) *BuiltinValidator {
	return &BuiltinValidator{
		key: field + "_numeric", name: name, ruleType: RuleTypeNumeric,
		fn: func(r Record) []Outcome {
			v, ok := r[field]
			if !ok {
				return nil
			}
			if _, valid := ParseDecimal(v); v == nil || valid {
				return []Outcome{pass(field+"_numeric_valid", field, "decimal or null", display(v),
					fmt.Sprintf("%s: %s is numeric or empty", name, field))}
			}
			return []Outcome{fail(field+"_numeric_invalid", field, "decimal or null", display(v),
				fmt.Sprintf("%s: %s is not numeric", name, field))}
		},
	}
}

func fmtDec(d decimal.Decimal) string {
	return d.StringFixed(2)
}
