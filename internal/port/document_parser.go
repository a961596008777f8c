package port

import (
	"context"

	"docextract/internal/domain"
)

// ExtractInput carries the document text and target schema for extraction.
type ExtractInput struct {
	DocumentType domain.DocumentType
	Text         string
	JSONSchema   map[string]interface{}
}

// ExtractOutput contains the structured result from an LLM parser.
type ExtractOutput struct {
	Data       map[string]interface{}
	ModelUsed  string
	PromptUsed string
}

// DocumentParser abstracts LLM-based classification and field extraction.
type DocumentParser interface {
	Classify(ctx context.Context, text string) (domain.DocumentType, error)
	Extract(ctx context.Context, input ExtractInput) (*ExtractOutput, error)
}
