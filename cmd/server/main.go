package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"docextract/internal/config"
	"docextract/internal/handler"
	"docextract/internal/logger"
	"docextract/internal/metrics"
	"docextract/internal/ocr"
	"docextract/internal/parser"
	_ "docextract/internal/parser/claude"
	_ "docextract/internal/parser/gemini"
	_ "docextract/internal/parser/openai"
	"docextract/internal/port"
	"docextract/internal/router"
	"docextract/internal/service"
	s3storage "docextract/internal/storage/s3"
	"docextract/internal/validation"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	// Initialize OCR
	checks := map[string]handler.ReadinessCheck{}
	// scannedEngine handles PDFs without a text layer; tesseract cannot read PDFs.
	var imageEngine, scannedEngine port.OCREngine
	switch cfg.OCR.Engine {
	case "docai":
		docai, dErr := ocr.NewDocumentAIEngine(ctx, ocr.DocumentAIConfig{
			ProjectID:       cfg.OCR.DocAIProjectID,
			Location:        cfg.OCR.DocAILocation,
			ProcessorID:     cfg.OCR.DocAIProcessorID,
			CredentialsFile: cfg.OCR.DocAICredentials,
		}, zl)
		if dErr != nil {
			return fmt.Errorf("failed to initialize Document AI: %w", dErr)
		}
		defer func() { _ = docai.Close() }()
		imageEngine = docai
		scannedEngine = docai
	case "tesseract", "":
		tess := ocr.NewTesseractEngine(cfg.OCR.TesseractPath, cfg.OCR.Language, zl)
		if aErr := tess.Available(ctx); aErr != nil {
			zl.Warn("tesseract not found; image uploads will report ocr_error", zap.Error(aErr))
		}
		checks["ocr"] = tess.Available
		imageEngine = tess
	default:
		return fmt.Errorf("unknown OCR engine %q", cfg.OCR.Engine)
	}
	processor := ocr.NewProcessor(imageEngine, scannedEngine, zl)

	// Initialize LLM parsers
	llm, err := parser.NewFromConfig(&cfg.Parser, parser.WithLogger(zl), parser.WithMetrics(m))
	if err != nil {
		return fmt.Errorf("failed to initialize document parser: %w", err)
	}
	runner := parser.NewConsistencyRunner(llm, cfg.Scoring, zl)

	// Initialize report archive
	var archive port.ReportArchive
	if cfg.Archive.Enabled {
		store, sErr := s3storage.NewS3Client(ctx, &cfg.Archive)
		if sErr != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", sErr)
		}
		archiver := s3storage.NewReportArchiver(store, &cfg.Archive, zl)
		checks["archive"] = archiver.Ready
		archive = archiver
		zl.Info("report archive enabled", zap.String("bucket", cfg.Archive.Bucket))
	}

	// Initialize services and handlers
	extractionSvc := service.NewExtractionService(processor, llm, runner, validation.NewEngine(zl), archive, m, zl)
	extractionH := handler.NewExtractionHandler(extractionSvc, cfg.Server.MaxUploadMB)
	healthH := handler.NewHealthHandler(checks)

	r := router.Setup(zl, cfg.CORS.AllowedOrigins, extractionH, healthH, m.Handler())

	srv := &http.Server{
		Addr:              cfg.Server.Port,
		Handler:           r,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("server starting",
			zap.String("addr", cfg.Server.Port),
			zap.String("ocr_engine", cfg.OCR.Engine),
			zap.Strings("parsers", llm.Names()),
			zap.Int("consistency_runs", runner.Runs()),
		)
		if sErr := srv.ListenAndServe(); sErr != nil && !errors.Is(sErr, http.ErrServerClosed) {
			errCh <- sErr
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zl.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
