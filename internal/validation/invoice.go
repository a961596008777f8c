package validation

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InvoiceValidators returns the built-in rules for invoices.
func InvoiceValidators() []*BuiltinValidator {
	return []*BuiltinValidator{
		requiredDateRule("invoice_date", "invoice_date", "Date: Invoice Date"),
		optionalDateRule("due_date", "due_date", "Date: Due Date"),
		requiredNumericRule("total_amount", "Numeric: Total Amount"),
		optionalNumericRule("subtotal", "Numeric: Subtotal"),
		optionalNumericRule("tax_amount", "Numeric: Tax Amount"),
		{
			key: "line_items_sum", name: "Sum: Line Items vs Total", ruleType: RuleTypeSumCheck,
			fn: validateLineItemSum,
		},
	}
}

// validateLineItemSum compares total_amount with the sum of every parseable
// line_total. Unparseable line totals are ignored; an unparseable total or a
// line_items value that is not a list of objects fails the check outright.
func validateLineItemSum(r Record) []Outcome {
	const (
		field = "line_items"
		name  = "Sum: Line Items vs Total"
	)
	if !r.Has("total_amount") || !r.Has(field) {
		return []Outcome{fail("line_items_or_total_missing_for_sum_check", field, "total_amount and line_items", "",
			fmt.Sprintf("%s: total_amount or line_items missing", name))}
	}

	total, ok := ParseDecimal(r["total_amount"])
	if !ok {
		return []Outcome{fail("line_items_sum_check_failed_parsing", "total_amount", "decimal", display(r["total_amount"]),
			fmt.Sprintf("%s: total_amount could not be parsed", name))}
	}
	items, ok := r[field].([]interface{})
	if !ok {
		return []Outcome{fail("line_items_sum_check_failed_parsing", field, "list", display(r[field]),
			fmt.Sprintf("%s: line_items is not a list", name))}
	}

	sum := decimal.Zero
	for i, raw := range items {
		item, ok := raw.(map[string]interface{})
		if !ok {
			return []Outcome{fail("line_items_sum_check_failed_parsing", fmt.Sprintf("line_items[%d]", i), "object", display(raw),
				fmt.Sprintf("%s: line item %d is not an object", name, i))}
		}
		if lt, ok := ParseDecimal(item["line_total"]); ok {
			sum = sum.Add(lt)
		}
	}

	if total.Sub(sum).Abs().LessThan(sumTolerance) {
		return []Outcome{pass("line_items_sum_matches_total", field, fmtDec(total), fmtDec(sum),
			fmt.Sprintf("%s: line totals match total_amount", name))}
	}
	return []Outcome{fail("line_items_sum_mismatch", field, fmtDec(total), fmtDec(sum),
		fmt.Sprintf("%s: line totals mismatch (expected %s, got %s)", name, fmtDec(total), fmtDec(sum)))}
}
