package validation

import "fmt"

// medicationRequiredFields are checked on every medication, in this order.
var medicationRequiredFields = []string{"drug_name", "dosage", "frequency"}

// PrescriptionValidators returns the built-in rules for prescriptions.
func PrescriptionValidators() []*BuiltinValidator {
	return []*BuiltinValidator{
		requiredDateRule("prescription_date", "prescription_date", "Date: Prescription Date"),
		{
			key: "medications_listed", name: "Collection: Medications Listed", ruleType: RuleTypeCollection,
			fn: validateMedicationsListed,
		},
		{
			key: "medication_fields", name: "Collection: Medication Fields", ruleType: RuleTypeCollection,
			fn: validateMedicationFields,
		},
	}
}

func validateMedicationsListed(r Record) []Outcome {
	const name = "Collection: Medications Listed"
	meds, ok := r["medications"].([]interface{})
	if ok && len(meds) > 0 {
		return []Outcome{pass("at_least_one_medication_listed", "medications", ">= 1 item", fmt.Sprint(len(meds)),
			fmt.Sprintf("%s: %d medication(s) listed", name, len(meds)))}
	}
	return []Outcome{fail("no_medication_listed", "medications", ">= 1 item", "0",
		fmt.Sprintf("%s: no medications listed", name))}
}

// validateMedicationFields emits one outcome per required field of each
// medication. Items that are not objects have every field missing.
func validateMedicationFields(r Record) []Outcome {
	const name = "Collection: Medication Fields"
	meds, ok := r["medications"].([]interface{})
	if !ok {
		return nil
	}

	results := make([]Outcome, 0, len(meds)*len(medicationRequiredFields))
	for i, raw := range meds {
		med, _ := raw.(map[string]interface{})
		for _, f := range medicationRequiredFields {
			fp := fmt.Sprintf("medications[%d].%s", i, f)
			v := med[f]
			if truthy(v) {
				results = append(results, pass(fmt.Sprintf("medication_%d_%s_present", i, f), fp, "non-empty", display(v),
					fmt.Sprintf("%s: %s present", name, fp)))
			} else {
				results = append(results, fail(fmt.Sprintf("medication_%d_%s_missing", i, f), fp, "non-empty", display(v),
					fmt.Sprintf("%s: %s missing", name, fp)))
			}
		}
	}
	return results
}
