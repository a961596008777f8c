package schema

import "docextract/internal/domain"

var invoiceSchema = &Schema{
	DocType:     domain.DocumentTypeInvoice,
	Title:       "InvoiceSchema",
	Description: "A commercial invoice issued by a vendor.",
	Fields: []Field{
		{Name: "vendor_name", Kind: KindText, Required: true, Description: "The name of the company that issued the invoice."},
		{Name: "invoice_number", Kind: KindText, Required: true, Description: "The unique invoice identification number."},
		{Name: "invoice_date", Kind: KindDate, Required: true, Description: "The date the invoice was issued (YYYY-MM-DD)."},
		{Name: "due_date", Kind: KindDate, Description: "The date the payment is due (YYYY-MM-DD)."},
		{Name: "total_amount", Kind: KindMoney, Required: true, Description: "The total amount due on the invoice."},
		{Name: "subtotal", Kind: KindMoney, Description: "The subtotal before taxes and discounts."},
		{Name: "tax_amount", Kind: KindMoney, Description: "The total tax amount on the invoice."},
		{Name: "currency", Kind: KindText, Required: true, Description: "The currency of the amounts (e.g. USD, EUR)."},
		{Name: "line_items", Kind: KindList, Required: true, Description: "The detailed line items on the invoice.", Items: []Field{
			{Name: "description", Kind: KindText, Required: true, Description: "Description of the line item."},
			{Name: "quantity", Kind: KindInteger, Required: true, Description: "Quantity of the item."},
			{Name: "unit_price", Kind: KindMoney, Required: true, Description: "Unit price of the item."},
			{Name: "line_total", Kind: KindMoney, Required: true, Description: "Total amount for this line item."},
		}},
	},
}

var medicalBillSchema = &Schema{
	DocType:     domain.DocumentTypeMedicalBill,
	Title:       "MedicalBillSchema",
	Description: "A bill for medical services rendered to a patient.",
	Fields: []Field{
		{Name: "patient_name", Kind: KindText, Required: true, Description: "The full name of the patient."},
		{Name: "patient_id", Kind: KindText, Description: "The patient's identification number."},
		{Name: "date_of_service_start", Kind: KindDate, Required: true, Description: "The start date of the service period (YYYY-MM-DD)."},
		{Name: "date_of_service_end", Kind: KindDate, Description: "The end date of the service period (YYYY-MM-DD)."},
		{Name: "provider_name", Kind: KindText, Required: true, Description: "The name of the healthcare provider or facility."},
		{Name: "total_charges", Kind: KindMoney, Required: true, Description: "The total amount charged for all services."},
		{Name: "amount_due", Kind: KindMoney, Required: true, Description: "The amount the patient is responsible for paying."},
		{Name: "insurance_paid", Kind: KindMoney, Description: "Amount paid by insurance."},
		{Name: "services", Kind: KindList, Required: true, Description: "The individual medical services rendered.", Items: []Field{
			{Name: "service_date", Kind: KindDate, Required: true, Description: "Date the service was rendered (YYYY-MM-DD)."},
			{Name: "description", Kind: KindText, Required: true, Description: "Description of the service or procedure."},
			{Name: "amount", Kind: KindMoney, Required: true, Description: "Cost for this service."},
			{Name: "cpt_code", Kind: KindText, Description: "CPT code for the service."},
		}},
	},
}

var prescriptionSchema = &Schema{
	DocType:     domain.DocumentTypePrescription,
	Title:       "PrescriptionSchema",
	Description: "A medication prescription written by a doctor.",
	Fields: []Field{
		{Name: "patient_name", Kind: KindText, Required: true, Description: "The full name of the patient."},
		{Name: "patient_dob", Kind: KindDate, Description: "Patient's date of birth (YYYY-MM-DD)."},
		{Name: "prescription_date", Kind: KindDate, Required: true, Description: "The date the prescription was issued (YYYY-MM-DD)."},
		{Name: "doctor_name", Kind: KindText, Required: true, Description: "The name of the prescribing doctor."},
		{Name: "doctor_license", Kind: KindText, Description: "Doctor's license or NPI number."},
		{Name: "medications", Kind: KindList, Required: true, Description: "The prescribed medications with their details.", Items: []Field{
			{Name: "drug_name", Kind: KindText, Required: true, Description: "Name of the prescribed medication."},
			{Name: "strength", Kind: KindText, Required: true, Description: "Strength of the medication (e.g. 250mg, 50mg/5ml)."},
			{Name: "dosage", Kind: KindText, Required: true, Description: "Dosage instructions (e.g. 1 tablet, 5ml)."},
			{Name: "frequency", Kind: KindText, Required: true, Description: "How often the medication is taken."},
			{Name: "route", Kind: KindText, Description: "Route of administration (e.g. oral, topical)."},
			{Name: "dispense_quantity", Kind: KindText, Description: "Quantity to be dispensed (e.g. #30, 1 bottle)."},
			{Name: "refills", Kind: KindText, Description: "Number of refills allowed."},
		}},
	},
}
