package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"docextract/internal/domain"
	"docextract/internal/export"
	"docextract/internal/service"
)

// ExtractionResponse is the JSON body returned by POST /api/v1/extractions.
type ExtractionResponse struct {
	Report     *domain.DocumentConfidenceReport `json:"report"`
	ArchiveURL string                           `json:"archive_url,omitempty"`
	ModelUsed  string                           `json:"model_used,omitempty"`
	OCREngine  string                           `json:"ocr_engine,omitempty"`
	Runs       int                              `json:"consistency_runs"`
}

// ExtractionHandler handles document extraction and scoring endpoints.
type ExtractionHandler struct {
	extractionService service.ExtractionService
	maxUploadBytes    int64
	now               func() time.Time
}

// NewExtractionHandler creates a new ExtractionHandler. maxUploadMB <= 0
// disables the size check.
func NewExtractionHandler(extractionService service.ExtractionService, maxUploadMB int64) *ExtractionHandler {
	return &ExtractionHandler{
		extractionService: extractionService,
		maxUploadBytes:    maxUploadMB << 20,
		now:               time.Now,
	}
}

// Extract handles POST /api/v1/extractions
//
// Multipart form: file (required), fields (optional, comma-separated
// top-level field names) and format (json, csv or xlsx; also accepted as a
// query parameter). Pipeline failures still answer 200 with an error report.
func (h *ExtractionHandler) Extract(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		// multipart overhead on top of the file itself
		limit := h.maxUploadBytes + (1 << 20)
		if c.Request.ContentLength > limit {
			HandleError(c, domain.ErrFileTooLarge)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			HandleError(c, domain.ErrFileTooLarge)
			return
		}
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		HandleError(c, domain.ErrFileTooLarge)
		return
	}

	format, err := export.ParseFormat(formOrQuery(c, "format"))
	if err != nil {
		HandleError(c, err)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		HandleError(c, fmt.Errorf("reading upload: %w", err))
		return
	}
	if len(data) == 0 {
		HandleError(c, domain.ErrEmptyDocument)
		return
	}

	result, err := h.extractionService.Run(c.Request.Context(), service.ExtractInput{
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
		Fields:      ParseFields(formOrQuery(c, "fields")),
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	if format == domain.ExportFormatJSON {
		RespondOK(c, ExtractionResponse{
			Report:     result.Report,
			ArchiveURL: result.ArchiveURL,
			ModelUsed:  result.ModelUsed,
			OCREngine:  result.OCREngine,
			Runs:       result.Runs,
		})
		return
	}
	if result.ArchiveURL != "" {
		c.Header("X-Report-Archive-URL", result.ArchiveURL)
	}
	h.respondExport(c, format, header.Filename, result.Report)
}

// Score handles POST /api/v1/scores
//
// Scores an extraction produced elsewhere. The body is a JSON
// service.ScoreRequest; the optional format query parameter selects the
// export format.
func (h *ExtractionHandler) Score(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		HandleError(c, err)
		return
	}

	var req service.ScoreRequest
	dec := json.NewDecoder(c.Request.Body)
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "request body must be a JSON object with doc_type and extracted_data")
		return
	}

	report, err := h.extractionService.Score(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}

	if format == domain.ExportFormatJSON {
		RespondOK(c, report)
		return
	}
	h.respondExport(c, format, req.DocType, report)
}

func (h *ExtractionHandler) respondExport(c *gin.Context, format domain.ExportFormat, name string, report *domain.DocumentConfidenceReport) {
	var buf bytes.Buffer
	if err := export.Write(&buf, format, name, report); err != nil {
		HandleError(c, fmt.Errorf("rendering %s export: %w", format, err))
		return
	}
	filename := export.BuildFilename(name, format, h.now())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, export.ContentTypes[format], buf.Bytes())
}

// ParseFields splits a comma-separated field list, dropping blanks.
func ParseFields(raw string) []string {
	var fields []string
	for _, f := range strings.Split(raw, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

func formOrQuery(c *gin.Context, key string) string {
	if v := c.PostForm(key); v != "" {
		return v
	}
	return c.Query(key)
}
