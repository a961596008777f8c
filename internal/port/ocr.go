package port

import (
	"context"

	"docextract/internal/domain"
)

// OCRInput carries an uploaded document to an OCR engine.
type OCRInput struct {
	FileName    string
	ContentType string
	Data        []byte
}

// OCRResult is the text and word boxes recovered from a document.
type OCRResult struct {
	Text   string
	Tokens []domain.Token
	Pages  int
	Engine string
}

// OCREngine abstracts text and word-box extraction from a document.
type OCREngine interface {
	Process(ctx context.Context, input OCRInput) (*OCRResult, error)
}
