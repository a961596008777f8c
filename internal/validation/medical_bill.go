package validation

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MedicalBillValidators returns the built-in rules for medical bills.
func MedicalBillValidators() []*BuiltinValidator {
	return []*BuiltinValidator{
		requiredDateRule("date_of_service_start", "service_start_date", "Date: Service Start"),
		requiredNumericRule("total_charges", "Numeric: Total Charges"),
		requiredNumericRule("amount_due", "Numeric: Amount Due"),
		{
			key: "charges_balance", name: "Sum: Charges Balance", ruleType: RuleTypeSumCheck,
			fn: validateChargesBalance,
		},
	}
}

// validateChargesBalance checks total_charges = amount_due + insurance_paid.
// The check only runs when both amounts parse and insurance_paid is present;
// a null insurance_paid counts as zero.
func validateChargesBalance(r Record) []Outcome {
	const name = "Sum: Charges Balance"

	charges, okCharges := ParseDecimal(r["total_charges"])
	due, okDue := ParseDecimal(r["amount_due"])
	if !okCharges || !okDue || !r.Has("insurance_paid") {
		return nil
	}

	insurance := decimal.Zero
	if !r.IsNull("insurance_paid") {
		var ok bool
		insurance, ok = ParseDecimal(r["insurance_paid"])
		if !ok {
			return []Outcome{fail("charges_balance_check_failed_parsing", "insurance_paid", "decimal or null", display(r["insurance_paid"]),
				fmt.Sprintf("%s: insurance_paid could not be parsed", name))}
		}
	}

	covered := due.Add(insurance)
	if charges.Sub(covered).Abs().LessThan(sumTolerance) {
		return []Outcome{pass("charges_balance_check_valid", "total_charges", fmtDec(charges), fmtDec(covered),
			fmt.Sprintf("%s: total_charges equals amount_due plus insurance_paid", name))}
	}
	return []Outcome{fail("charges_balance_check_mismatch", "total_charges", fmtDec(charges), fmtDec(covered),
		fmt.Sprintf("%s: total_charges mismatch (expected %s, got %s)", name, fmtDec(charges), fmtDec(covered)))}
}
