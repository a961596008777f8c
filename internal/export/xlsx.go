package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"docextract/internal/domain"
)

const (
	fieldsSheet  = "Fields"
	summarySheet = "Summary"
)

// WriteXLSX writes the report as a workbook with a Fields sheet (one row per
// scored field) and a Summary sheet (overall confidence and rule outcomes).
func WriteXLSX(w io.Writer, name string, report *domain.DocumentConfidenceReport) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", fieldsSheet); err != nil {
		return fmt.Errorf("renaming sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("creating summary sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	if err := writeFieldsSheet(f, name, report, bold); err != nil {
		return err
	}
	if err := writeSummarySheet(f, name, report, bold); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func writeFieldsSheet(f *excelize.File, name string, report *domain.DocumentConfidenceReport, headerStyle int) error {
	header := make([]interface{}, len(fieldColumns))
	for i, c := range fieldColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(fieldsSheet, "A1", &header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(fieldColumns), 1)
	if err := f.SetCellStyle(fieldsSheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("styling header: %w", err)
	}

	for i, field := range report.Fields {
		row := []interface{}{name, report.DocType, field.Name, field.Value, field.Confidence}
		if field.Source != nil {
			row = append(row, field.Source.Page,
				field.Source.BBox[0], field.Source.BBox[1], field.Source.BBox[2], field.Source.BBox[3])
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(fieldsSheet, cell, &row); err != nil {
			return fmt.Errorf("writing field row %d: %w", i, err)
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, name string, report *domain.DocumentConfidenceReport, headerStyle int) error {
	rows := [][]interface{}{
		{"Document", name},
		{"Doc Type", report.DocType},
		{"Overall Confidence", report.OverallConfidence},
		{"Passed Rules", strings.Join(report.QA.PassedRules, "\n")},
		{"Failed Rules", strings.Join(report.QA.FailedRules, "\n")},
		{"Notes", report.QA.Notes},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("writing summary row %d: %w", i, err)
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", fmt.Sprintf("A%d", len(rows)), headerStyle); err != nil {
		return fmt.Errorf("styling summary: %w", err)
	}
	return f.SetColWidth(summarySheet, "A", "A", 22)
}
