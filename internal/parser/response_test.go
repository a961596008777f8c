package parser_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docextract/internal/domain"
	"docextract/internal/parser"
)

func TestNormalizeDocumentType(t *testing.T) {
	tests := []struct {
		raw  string
		want domain.DocumentType
	}{
		{"invoice", domain.DocumentTypeInvoice},
		{"  Medical_Bill\n", domain.DocumentTypeMedicalBill},
		{"'prescription'.", domain.DocumentTypePrescription},
		{"receipt", domain.DocumentTypeUnknown},
		{"This is an invoice", domain.DocumentTypeUnknown},
		{"", domain.DocumentTypeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, parser.NormalizeDocumentType(tt.raw))
		})
	}
}

func TestDecodeJSONObject(t *testing.T) {
	out, err := parser.DecodeJSONObject(`{"total_amount": 100.50, "vendor_name": "Acme"}`)
	require.NoError(t, err)

	assert.Equal(t, json.Number("100.50"), out["total_amount"])
	assert.Equal(t, "Acme", out["vendor_name"])
}

func TestDecodeJSONObject_CodeFence(t *testing.T) {
	out, err := parser.DecodeJSONObject("```json\n{\"a\": 1}\n```")
	require.NoError(t, err)
	assert.Equal(t, json.Number("1"), out["a"])
}

func TestDecodeJSONObject_Errors(t *testing.T) {
	for _, raw := range []string{"not json", "[1,2]", "null", ""} {
		_, err := parser.DecodeJSONObject(raw)
		assert.Error(t, err, raw)
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", parser.Truncate("abc", 5))
	assert.Equal(t, "ab...", parser.Truncate("abcdef", 2))
}
