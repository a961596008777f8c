// Package schema describes the field set extracted for each document type.
package schema

import (
	"fmt"

	"docextract/internal/domain"
)

// Kind is the value type of a schema field.
type Kind string

const (
	KindText    Kind = "text"
	KindDate    Kind = "date"
	KindMoney   Kind = "money"
	KindInteger Kind = "integer"
	KindList    Kind = "list"
)

// Field is one named value of a document schema. List fields carry the
// fields of each item in Items.
type Field struct {
	Name        string
	Kind        Kind
	Required    bool
	Description string
	Items       []Field
}

// Schema is the extraction target for one document type.
type Schema struct {
	DocType     domain.DocumentType
	Title       string
	Description string
	Fields      []Field
}

// For returns the schema for a document type.
func For(docType domain.DocumentType) (*Schema, error) {
	switch docType {
	case domain.DocumentTypeInvoice:
		return invoiceSchema, nil
	case domain.DocumentTypeMedicalBill:
		return medicalBillSchema, nil
	case domain.DocumentTypePrescription:
		return prescriptionSchema, nil
	default:
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownDocumentType, docType)
	}
}

// Field returns the top-level field with the given name.
func (s *Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// KeyRank maps every field and item-field name to its declaration index so
// flattened output can follow schema order.
func (s *Schema) KeyRank() map[string]int {
	rank := make(map[string]int)
	for i, f := range s.Fields {
		rank[f.Name] = i
		for j, item := range f.Items {
			if _, ok := rank[item.Name]; !ok {
				rank[item.Name] = j
			}
		}
	}
	return rank
}
