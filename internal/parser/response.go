package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"docextract/internal/domain"
)

// NormalizeDocumentType maps a raw model answer onto the closed set of
// document types. Anything else is DocumentTypeUnknown.
func NormalizeDocumentType(raw string) domain.DocumentType {
	label := strings.ToLower(strings.TrimSpace(raw))
	label = strings.Trim(label, "\"'`.")
	return domain.ParseDocumentType(label)
}

// DecodeJSONObject parses a model response into a JSON object. Markdown code
// fences are tolerated and numbers are kept as json.Number.
func DecodeJSONObject(text string) (map[string]interface{}, error) {
	text = stripCodeFence(text)

	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.UseNumber()

	var out map[string]interface{}
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("parsing LLM JSON output: %w (raw: %s)", err, Truncate(text, 500))
	}
	if out == nil {
		return nil, fmt.Errorf("LLM output is not a JSON object (raw: %s)", Truncate(text, 500))
	}
	return out, nil
}

func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}

// Truncate shortens s to maxLen bytes for log and error messages.
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
