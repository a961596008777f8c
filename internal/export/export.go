package export

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"
	"time"

	"docextract/internal/domain"
)

// ContentTypes maps an export format to its MIME type.
var ContentTypes = map[domain.ExportFormat]string{
	domain.ExportFormatJSON: "application/json",
	domain.ExportFormatCSV:  "text/csv; charset=utf-8",
	domain.ExportFormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

// ParseFormat validates an export format name. An empty name means JSON.
func ParseFormat(s string) (domain.ExportFormat, error) {
	f := domain.ExportFormat(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return domain.ExportFormatJSON, nil
	}
	if _, ok := ContentTypes[f]; !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedExport, s)
	}
	return f, nil
}

// Write renders the report in the given format.
func Write(w io.Writer, format domain.ExportFormat, name string, report *domain.DocumentConfidenceReport) error {
	switch format {
	case domain.ExportFormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case domain.ExportFormatCSV:
		if _, err := w.Write(BOM); err != nil {
			return err
		}
		cw := NewCSVWriter(w)
		if err := cw.WriteHeader(); err != nil {
			return err
		}
		if err := cw.WriteReport(name, report); err != nil {
			return err
		}
		cw.Flush()
		return cw.Error()
	case domain.ExportFormatXLSX:
		return WriteXLSX(w, name, report)
	default:
		return fmt.Errorf("%w: %q", domain.ErrUnsupportedExport, format)
	}
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a document name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for the Content-Disposition
// header: {sanitized_name}_{YYYY-MM-DD}.{format}.
func BuildFilename(name string, format domain.ExportFormat, now time.Time) string {
	sanitized := SanitizeFilename(strings.TrimSuffix(name, fileExt(name)))
	if sanitized == "" {
		sanitized = "report"
	}
	return fmt.Sprintf("%s_%s.%s", sanitized, now.Format("2006-01-02"), format)
}

func fileExt(name string) string {
	if i := strings.LastIndexByte(name, '.'); i > 0 {
		return name[i:]
	}
	return ""
}
