package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"docextract/internal/domain"
	"docextract/internal/port"
)

// EngineTesseract identifies results produced by the Tesseract CLI.
const EngineTesseract = "tesseract"

// TesseractEngine runs the tesseract binary and parses its hOCR output.
type TesseractEngine struct {
	path     string
	language string
	logger   *zap.Logger
}

// NewTesseractEngine creates an engine that shells out to the binary at path.
func NewTesseractEngine(path, language string, logger *zap.Logger) *TesseractEngine {
	if path == "" {
		path = "tesseract"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TesseractEngine{path: path, language: language, logger: logger}
}

// Process pipes the image to tesseract on stdin and reads hOCR from stdout.
func (e *TesseractEngine) Process(ctx context.Context, input port.OCRInput) (*port.OCRResult, error) {
	args := []string{"stdin", "stdout"}
	if e.language != "" {
		args = append(args, "-l", e.language)
	}
	args = append(args, "hocr")

	cmd := exec.CommandContext(ctx, e.path, args...)
	cmd.Stdin = bytes.NewReader(input.Data)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrOCREngineUnavailable, e.path)
		}
		return nil, fmt.Errorf("running tesseract: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	result, err := ParseHOCR(stdout.Bytes())
	if err != nil {
		return nil, err
	}
	result.Engine = EngineTesseract

	e.logger.Debug("ocr.TesseractEngine.Process: done",
		zap.String("file", input.FileName),
		zap.Int("pages", result.Pages),
		zap.Int("tokens", len(result.Tokens)),
	)
	return result, nil
}

// Available reports whether the tesseract binary can be found.
func (e *TesseractEngine) Available(_ context.Context) error {
	if _, err := exec.LookPath(e.path); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrOCREngineUnavailable, e.path)
	}
	return nil
}
