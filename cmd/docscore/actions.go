package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"docextract/internal/config"
	"docextract/internal/logger"
	"docextract/internal/ocr"
	"docextract/internal/parser"
	_ "docextract/internal/parser/claude"
	_ "docextract/internal/parser/gemini"
	_ "docextract/internal/parser/openai"
	"docextract/internal/port"
	"docextract/internal/service"
	"docextract/internal/validation"
)

// ScoreAction scores a JSON score request read from a file or stdin ("-").
func ScoreAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one request file, got %d", c.NArg())
	}
	raw, err := readInput(c.Args().First())
	if err != nil {
		return err
	}

	req, err := decodeScoreRequest(raw)
	if err != nil {
		return err
	}
	if fields := splitFields(c.String("fields")); len(fields) > 0 {
		req.Fields = fields
	}

	zl, err := logger.New(config.LogConfig{Level: c.String("log-level"), Format: "console"})
	if err != nil {
		return err
	}
	defer func() { _ = zl.Sync() }()

	svc := service.NewExtractionService(nil, nil, nil, validation.NewEngine(zl), nil, nil, zl)
	report, err := svc.Score(c.Context, req)
	if err != nil {
		return err
	}
	return emit(c, req.DocType, report)
}

// ExtractAction runs the full pipeline on a local document using the same
// DOCEXTRACT_* configuration as the server.
func ExtractAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("expected exactly one document, got %d", c.NArg())
	}
	path := c.Args().First()
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	zl, err := logger.New(config.LogConfig{Level: c.String("log-level"), Format: "console"})
	if err != nil {
		return err
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	svc, cleanup, err := buildPipeline(ctx, cfg, zl)
	if err != nil {
		return err
	}
	defer cleanup()

	result, err := svc.Run(ctx, service.ExtractInput{
		FileName:    filepath.Base(path),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Data:        data,
		Fields:      splitFields(c.String("fields")),
	})
	if err != nil {
		return err
	}
	zl.Info("extraction finished",
		zap.String("file", path),
		zap.String("ocr_engine", result.OCREngine),
		zap.String("model", result.ModelUsed),
		zap.Int("consistency_runs", result.Runs),
	)
	return emit(c, filepath.Base(path), result.Report)
}

func buildPipeline(ctx context.Context, cfg *config.Config, zl *zap.Logger) (service.ExtractionService, func(), error) {
	cleanup := func() {}

	var images, scanned port.OCREngine
	switch cfg.OCR.Engine {
	case "docai":
		docai, err := ocr.NewDocumentAIEngine(ctx, ocr.DocumentAIConfig{
			ProjectID:       cfg.OCR.DocAIProjectID,
			Location:        cfg.OCR.DocAILocation,
			ProcessorID:     cfg.OCR.DocAIProcessorID,
			CredentialsFile: cfg.OCR.DocAICredentials,
		}, zl)
		if err != nil {
			return nil, cleanup, fmt.Errorf("failed to initialize Document AI: %w", err)
		}
		cleanup = func() { _ = docai.Close() }
		images, scanned = docai, docai
	default:
		images = ocr.NewTesseractEngine(cfg.OCR.TesseractPath, cfg.OCR.Language, zl)
	}

	llm, err := parser.NewFromConfig(&cfg.Parser, parser.WithLogger(zl))
	if err != nil {
		return nil, cleanup, fmt.Errorf("failed to initialize document parser: %w", err)
	}
	runner := parser.NewConsistencyRunner(llm, cfg.Scoring, zl)

	svc := service.NewExtractionService(ocr.NewProcessor(images, scanned, zl), llm, runner,
		validation.NewEngine(zl), nil, nil, zl)
	return svc, cleanup, nil
}

func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return raw, nil
}

func decodeScoreRequest(raw []byte) (service.ScoreRequest, error) {
	var req service.ScoreRequest
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		return req, fmt.Errorf("decoding score request: %w", err)
	}
	return req, nil
}

func splitFields(raw string) []string {
	var fields []string
	for _, f := range strings.Split(raw, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}
