package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"docextract/internal/domain"
)

func sampleReport() *domain.DocumentConfidenceReport {
	return &domain.DocumentConfidenceReport{
		DocType: "invoice",
		Fields: []domain.ExtractedField{
			{Name: "vendor_name", Value: "Acme Corp", Confidence: 0.92, Source: &domain.Source{Page: 1, BBox: domain.BBox{10, 20, 110, 32}}},
			{Name: "total_amount", Value: "100.00", Confidence: 0.61},
		},
		OverallConfidence: 0.75,
		QA: domain.QAResult{
			PassedRules: []string{"invoice_date_format_valid"},
			FailedRules: []string{"line_items_sum_mismatch"},
			Notes:       "1 validation rule(s) failed.",
		},
	}
}

func TestCSVWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(&buf)
	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.WriteReport("scan.pdf", sampleReport()))
	w.Flush()
	require.NoError(t, w.Error())

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Document", rows[0][0])
	assert.Len(t, rows[0], 10)
	assert.Equal(t, []string{"scan.pdf", "invoice", "vendor_name", "Acme Corp", "0.92", "1", "10", "20", "110", "32"}, rows[1])
	assert.Equal(t, []string{"scan.pdf", "invoice", "total_amount", "100.00", "0.61", "", "", "", "", ""}, rows[2])
}

func TestCSVWriter_ErrorReportKeepsOneRow(t *testing.T) {
	var buf bytes.Buffer
	w := NewCSVWriter(&buf)
	require.NoError(t, w.WriteReport("blank.png", domain.NewErrorReport(domain.ErrorCodeOCRFailed, "no text")))
	w.Flush()

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "blank.png", rows[0][0])
	assert.Equal(t, "error", rows[0][1])
}

func TestWrite_CSVHasBOM(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, domain.ExportFormatCSV, "scan.pdf", sampleReport()))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), BOM))
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, domain.ExportFormatJSON, "scan.pdf", sampleReport()))

	var got domain.DocumentConfidenceReport
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, *sampleReport(), got)
}

func TestWrite_XLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, domain.ExportFormatXLSX, "scan.pdf", sampleReport()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows("Fields")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Field", rows[0][2])
	assert.Equal(t, "vendor_name", rows[1][2])
	assert.Equal(t, "Acme Corp", rows[1][3])

	overall, err := f.GetCellValue("Summary", "B3")
	require.NoError(t, err)
	assert.Equal(t, "0.75", overall)

	failed, err := f.GetCellValue("Summary", "B5")
	require.NoError(t, err)
	assert.Equal(t, "line_items_sum_mismatch", failed)
}

func TestWrite_Unsupported(t *testing.T) {
	err := Write(&bytes.Buffer{}, "pdf", "x", sampleReport())
	assert.ErrorIs(t, err, domain.ErrUnsupportedExport)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, domain.ExportFormatJSON, f)

	f, err = ParseFormat(" XLSX ")
	require.NoError(t, err)
	assert.Equal(t, domain.ExportFormatXLSX, f)

	_, err = ParseFormat("yaml")
	assert.ErrorIs(t, err, domain.ErrUnsupportedExport)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"simple", "Q3 Purchase Invoices", "Q3_Purchase_Invoices"},
		{"special chars", "Bill / Dr. Smith (Oct–Dec)", "Bill_Dr_Smith_Oct_Dec"},
		{"hyphens and underscores preserved", "scan-2025_01", "scan-2025_01"},
		{"consecutive underscores collapsed", "test___report", "test_report"},
		{"leading/trailing cleaned", "  hello  ", "hello"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeFilename(tt.input))
		})
	}
}

func TestBuildFilename(t *testing.T) {
	day := time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "scan_2025-03-09.csv", BuildFilename("scan.pdf", domain.ExportFormatCSV, day))
	assert.Equal(t, "report_2025-03-09.xlsx", BuildFilename("", domain.ExportFormatXLSX, day))
}
