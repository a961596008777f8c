package ocr

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"docextract/internal/domain"
	"docextract/internal/port"
)

// DetectFileType resolves the document format from the file extension,
// falling back to the declared content type.
func DetectFileType(fileName, contentType string) (domain.FileType, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	if ft, ok := domain.AllowedExtensions[ext]; ok {
		return ft, nil
	}
	if ext == "" {
		ct := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
		if ft, ok := domain.AllowedContentTypes[ct]; ok {
			return ft, nil
		}
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnsupportedFileType, fileName)
}

// Processor routes a document to the right text source: the PDF text layer
// for born-digital PDFs and an OCR engine for raster images.
type Processor struct {
	images  port.OCREngine
	scanned port.OCREngine
	logger  *zap.Logger
}

// NewProcessor creates a Processor. images handles raster files; scanned, when
// non-nil, is used for PDFs whose text layer is empty.
func NewProcessor(images, scanned port.OCREngine, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{images: images, scanned: scanned, logger: logger}
}

// Process extracts text and word tokens from the input document.
func (p *Processor) Process(ctx context.Context, input port.OCRInput) (*port.OCRResult, error) {
	ft, err := DetectFileType(input.FileName, input.ContentType)
	if err != nil {
		return nil, err
	}

	if ft == domain.FileTypePDF {
		result, err := ExtractPDF(input.Data)
		if err != nil {
			return nil, fmt.Errorf("reading pdf text layer: %w", err)
		}
		if strings.TrimSpace(result.Text) != "" || p.scanned == nil {
			return result, nil
		}
		p.logger.Info("ocr.Processor.Process: pdf has no text layer, using OCR engine",
			zap.String("file", input.FileName),
			zap.Int("pages", result.Pages),
		)
		return p.scanned.Process(ctx, input)
	}

	if p.images == nil {
		return nil, domain.ErrOCREngineUnavailable
	}
	if input.ContentType == "" {
		input.ContentType = domain.AllowedFileTypes[ft]
	}
	result, err := p.images.Process(ctx, input)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("ocr.Processor.Process: image processed",
		zap.String("file", input.FileName),
		zap.String("engine", result.Engine),
		zap.Int("tokens", len(result.Tokens)),
	)
	return result, nil
}
