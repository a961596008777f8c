package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"docextract/internal/confidence"
	"docextract/internal/domain"
	"docextract/internal/metrics"
	"docextract/internal/parser"
	"docextract/internal/port"
	"docextract/internal/schema"
	"docextract/internal/validation"
)

// ExtractInput is the DTO for a document extraction request.
type ExtractInput struct {
	FileName    string
	ContentType string
	Data        []byte
	// Fields restricts the report to these top-level fields when non-empty.
	Fields []string
}

// ExtractResult is the outcome of one pipeline run. Report is always set;
// pipeline failures are reported as error reports, not Go errors.
type ExtractResult struct {
	Report     *domain.DocumentConfidenceReport
	ArchiveURL string
	ModelUsed  string
	OCREngine  string
	Runs       int
}

// ScoreRequest scores an extraction produced elsewhere, without OCR or LLM
// calls.
type ScoreRequest struct {
	DocType       string                   `json:"doc_type" yaml:"doc_type"`
	ExtractedData map[string]interface{}   `json:"extracted_data" yaml:"extracted_data"`
	Runs          []map[string]interface{} `json:"runs" yaml:"runs"`
	Tokens        []domain.Token           `json:"tokens" yaml:"tokens"`
	Fields        []string                 `json:"fields" yaml:"fields"`
}

// ExtractionService defines the document extraction and scoring contract.
type ExtractionService interface {
	Run(ctx context.Context, input ExtractInput) (*ExtractResult, error)
	Score(ctx context.Context, req ScoreRequest) (*domain.DocumentConfidenceReport, error)
}

type extractionService struct {
	ocr     port.OCREngine
	llm     port.DocumentParser
	runner  *parser.ConsistencyRunner
	engine  *validation.Engine
	archive port.ReportArchive
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewExtractionService creates a new ExtractionService implementation.
// runner, archive and m may be nil.
func NewExtractionService(
	ocr port.OCREngine,
	llm port.DocumentParser,
	runner *parser.ConsistencyRunner,
	engine *validation.Engine,
	archive port.ReportArchive,
	m *metrics.Metrics,
	logger *zap.Logger,
) ExtractionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if engine == nil {
		engine = validation.NewEngine(logger)
	}
	return &extractionService{
		ocr:     ocr,
		llm:     llm,
		runner:  runner,
		engine:  engine,
		archive: archive,
		metrics: m,
		logger:  logger,
	}
}

func (s *extractionService) Run(ctx context.Context, input ExtractInput) (*ExtractResult, error) {
	log := s.logger.With(zap.String("file", input.FileName))
	result := &ExtractResult{}

	// 1. Ingestion and OCR
	ocrResult, err := s.ocr.Process(ctx, port.OCRInput{
		FileName:    input.FileName,
		ContentType: input.ContentType,
		Data:        input.Data,
	})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return s.fail(ctx, log, result, domain.ErrorCodeOCRError, fmt.Sprintf("Error during OCR processing: %v", err))
	}
	result.OCREngine = ocrResult.Engine
	if strings.TrimSpace(ocrResult.Text) == "" {
		return s.fail(ctx, log, result, domain.ErrorCodeOCRFailed, "OCR failed to extract text.")
	}

	// 2. Classification
	docType, err := s.llm.Classify(ctx, ocrResult.Text)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		log.Warn("service.ExtractionService.Run: classification failed", zap.Error(err))
		docType = domain.DocumentTypeUnknown
	}
	if docType == domain.DocumentTypeUnknown {
		return s.fail(ctx, log, result, domain.ErrorCodeClassificationFailed, "Could not classify document type.")
	}

	sch, err := schema.For(docType)
	if err != nil {
		return s.fail(ctx, log, result, domain.ErrorCodeSchemaMissing, fmt.Sprintf("No schema defined for document type: %s", docType))
	}

	// 3. Extraction
	extractInput := port.ExtractInput{
		DocumentType: docType,
		Text:         ocrResult.Text,
		JSONSchema:   sch.JSONSchema(),
	}
	out, err := s.llm.Extract(ctx, extractInput)
	if err == nil && (out == nil || len(out.Data) == 0) {
		err = errors.New("empty extraction result")
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return s.fail(ctx, log, result, domain.ErrorCodeExtractionError,
			fmt.Sprintf("Error during data extraction or schema validation: %v", err))
	}
	result.ModelUsed = out.ModelUsed

	data, err := sch.Conform(out.Data)
	if err != nil {
		return s.fail(ctx, log, result, domain.ErrorCodeExtractionError,
			fmt.Sprintf("Error during data extraction or schema validation: %v", err))
	}

	// 4. Repeated runs for self-consistency
	var runs []map[string]interface{}
	if s.runner != nil {
		runs = s.runner.Run(ctx, extractInput)
	}
	result.Runs = len(runs)

	// 5. Validation and scoring
	qa := s.engine.Run(docType, data)
	result.Report = confidence.BuildReport(confidence.Input{
		DocType: docType,
		Data:    data,
		Runs:    runs,
		Tokens:  ocrResult.Tokens,
		QA:      qa,
		KeyRank: sch.KeyRank(),
		Only:    input.Fields,
	})

	log.Info("service.ExtractionService.Run: document scored",
		zap.String("doc_type", string(docType)),
		zap.Int("fields", len(result.Report.Fields)),
		zap.Int("runs", len(runs)),
		zap.Float64("overall_confidence", result.Report.OverallConfidence),
		zap.Int("failed_rules", len(qa.FailedRules)),
	)
	s.metrics.ObserveDocument(string(docType), metrics.OutcomeScored, result.Report.OverallConfidence)
	s.archiveReport(ctx, log, result)
	return result, nil
}

func (s *extractionService) Score(_ context.Context, req ScoreRequest) (*domain.DocumentConfidenceReport, error) {
	docType := domain.ParseDocumentType(strings.TrimSpace(req.DocType))
	sch, err := schema.For(docType)
	if err != nil {
		return nil, fmt.Errorf("%w: doc_type %q is not one of invoice, medical_bill, prescription", domain.ErrInvalidScoreRequest, req.DocType)
	}
	if len(req.ExtractedData) == 0 {
		return nil, fmt.Errorf("%w: extracted_data is required", domain.ErrInvalidScoreRequest)
	}

	data := make(map[string]interface{}, len(req.ExtractedData))
	for k, v := range req.ExtractedData {
		if k != "doc_type" {
			data[k] = v
		}
	}

	qa := s.engine.Run(docType, data)
	report := confidence.BuildReport(confidence.Input{
		DocType: docType,
		Data:    data,
		Runs:    req.Runs,
		Tokens:  req.Tokens,
		QA:      qa,
		KeyRank: sch.KeyRank(),
		Only:    req.Fields,
	})
	s.metrics.ObserveDocument(string(docType), metrics.OutcomeScored, report.OverallConfidence)
	return report, nil
}

func (s *extractionService) fail(ctx context.Context, log *zap.Logger, result *ExtractResult, code, message string) (*ExtractResult, error) {
	log.Warn("service.ExtractionService.Run: pipeline failed",
		zap.String("code", code),
		zap.String("message", message),
	)
	result.Report = domain.NewErrorReport(code, message)
	s.metrics.ObserveDocument(domain.ErrorDocType, metrics.OutcomeError, 0)
	s.archiveReport(ctx, log, result)
	return result, nil
}

func (s *extractionService) archiveReport(ctx context.Context, log *zap.Logger, result *ExtractResult) {
	if s.archive == nil {
		return
	}
	url, err := s.archive.Archive(ctx, result.Report)
	if err != nil {
		log.Error("service.ExtractionService.Run: archiving report failed", zap.Error(err))
		return
	}
	result.ArchiveURL = url
}
