package parser

import (
	"encoding/json"
	"fmt"

	"docextract/internal/port"
)

// ClassificationSnippetLen is the number of leading characters of the
// document text sent for classification.
const ClassificationSnippetLen = 2000

// Operation names used in logs and metrics.
const (
	OpClassify = "classify"
	OpExtract  = "extract"
)

const (
	classificationTemperature = 0.0
	extractionTemperature     = 0.1
)

const classificationSystemPrompt = "You are an expert document classifier. Your task is to accurately identify " +
	"the type of document from the provided text. Choose from 'invoice', 'medical_bill', " +
	"or 'prescription'. Respond with ONLY the document type, no other text or explanation."

const extractionSystemPrompt = "You are a highly accurate data extraction agent. " +
	"Your task is to extract information from the provided document text " +
	"and return it as a JSON object that strictly conforms to the given JSON schema. " +
	"Do not include any other text, explanations, or formatting. " +
	"If a field is not found, use a null value unless the schema requires a specific type."

// Prompt is a provider-neutral chat request.
type Prompt struct {
	System      string
	User        string
	Temperature float64
	// JSONMode asks the provider for a JSON object response where supported.
	JSONMode bool
}

// BuildClassificationPrompt builds the prompt that labels a document from
// the first ClassificationSnippetLen characters of its text.
func BuildClassificationPrompt(text string) Prompt {
	runes := []rune(text)
	if len(runes) > ClassificationSnippetLen {
		runes = runes[:ClassificationSnippetLen]
	}
	user := "Analyze the following document text and determine its type:\n\n" +
		"Document Text:\n" + string(runes) + "\n\n" +
		"Document Type (invoice, medical_bill, or prescription):"

	return Prompt{
		System:      classificationSystemPrompt,
		User:        user,
		Temperature: classificationTemperature,
	}
}

// BuildExtractionPrompt builds the prompt that fills the document type's
// JSON schema from the full document text.
func BuildExtractionPrompt(input port.ExtractInput) (Prompt, error) {
	schemaJSON, err := json.Marshal(input.JSONSchema)
	if err != nil {
		return Prompt{}, fmt.Errorf("marshaling schema: %w", err)
	}
	user := "Document Text:\n" + input.Text + "\n\n" +
		"JSON Schema:\n" + string(schemaJSON)

	return Prompt{
		System:      extractionSystemPrompt,
		User:        user,
		Temperature: extractionTemperature,
		JSONMode:    true,
	}, nil
}
