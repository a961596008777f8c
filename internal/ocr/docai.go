package ocr

import (
	"context"
	"fmt"
	"strings"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"docextract/internal/domain"
	"docextract/internal/port"
)

// EngineDocumentAI identifies results produced by Google Document AI.
const EngineDocumentAI = "docai"

// DocumentAIConfig names the Document AI processor to call.
type DocumentAIConfig struct {
	ProjectID       string
	Location        string
	ProcessorID     string
	CredentialsFile string
}

// DocumentAIEngine sends documents to a Google Document AI OCR processor.
type DocumentAIEngine struct {
	client *documentai.DocumentProcessorClient
	name   string
	logger *zap.Logger
}

// NewDocumentAIEngine dials the regional Document AI endpoint.
func NewDocumentAIEngine(ctx context.Context, cfg DocumentAIConfig, logger *zap.Logger) (*DocumentAIEngine, error) {
	if cfg.ProjectID == "" || cfg.ProcessorID == "" {
		return nil, fmt.Errorf("%w: document ai project and processor are required", domain.ErrOCREngineUnavailable)
	}
	if cfg.Location == "" {
		cfg.Location = "us"
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	opts := []option.ClientOption{
		option.WithEndpoint(fmt.Sprintf("%s-documentai.googleapis.com:443", cfg.Location)),
	}
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	client, err := documentai.NewDocumentProcessorClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating document ai client: %w", err)
	}

	return &DocumentAIEngine{
		client: client,
		name:   fmt.Sprintf("projects/%s/locations/%s/processors/%s", cfg.ProjectID, cfg.Location, cfg.ProcessorID),
		logger: logger,
	}, nil
}

// Close releases the underlying gRPC connection.
func (e *DocumentAIEngine) Close() error {
	return e.client.Close()
}

// Process runs the document through the processor and converts its tokens.
func (e *DocumentAIEngine) Process(ctx context.Context, input port.OCRInput) (*port.OCRResult, error) {
	mimeType := input.ContentType
	if mimeType == "" {
		ft, err := DetectFileType(input.FileName, "")
		if err != nil {
			return nil, err
		}
		mimeType = domain.AllowedFileTypes[ft]
	}

	resp, err := e.client.ProcessDocument(ctx, &documentaipb.ProcessRequest{
		Name: e.name,
		Source: &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  input.Data,
				MimeType: mimeType,
			},
		},
		SkipHumanReview: true,
	})
	if err != nil {
		return nil, fmt.Errorf("processing document: %w", err)
	}

	result := DocumentToResult(resp.GetDocument())
	e.logger.Debug("ocr.DocumentAIEngine.Process: done",
		zap.String("file", input.FileName),
		zap.Int("pages", result.Pages),
		zap.Int("tokens", len(result.Tokens)),
	)
	return result, nil
}

// DocumentToResult converts a Document AI document into tokens. Pixel
// vertices are used when present; otherwise normalized vertices are scaled
// by the page dimension.
func DocumentToResult(doc *documentaipb.Document) *port.OCRResult {
	result := &port.OCRResult{Engine: EngineDocumentAI}
	if doc == nil {
		return result
	}
	result.Text = strings.TrimSpace(doc.GetText())
	result.Pages = len(doc.GetPages())

	for i, page := range doc.GetPages() {
		pageNum := int(page.GetPageNumber())
		if pageNum <= 0 {
			pageNum = i + 1
		}
		width := float64(page.GetDimension().GetWidth())
		height := float64(page.GetDimension().GetHeight())

		for _, t := range page.GetTokens() {
			layout := t.GetLayout()
			text := strings.TrimSpace(textFromLayout(layout, doc.GetText()))
			if text == "" {
				continue
			}
			box, ok := layoutBox(layout.GetBoundingPoly(), width, height)
			if !ok {
				continue
			}
			conf := float64(layout.GetConfidence())
			result.Tokens = append(result.Tokens, domain.Token{
				Text:       text,
				Page:       pageNum,
				BBox:       box,
				Confidence: &conf,
			})
		}
	}
	return result
}

func layoutBox(poly *documentaipb.BoundingPoly, width, height float64) (domain.BBox, bool) {
	if poly == nil {
		return domain.BBox{}, false
	}
	var xs, ys []float64
	if vs := poly.GetVertices(); len(vs) > 0 {
		for _, v := range vs {
			xs = append(xs, float64(v.GetX()))
			ys = append(ys, float64(v.GetY()))
		}
	} else {
		for _, v := range poly.GetNormalizedVertices() {
			xs = append(xs, float64(v.GetX())*width)
			ys = append(ys, float64(v.GetY())*height)
		}
	}
	if len(xs) == 0 {
		return domain.BBox{}, false
	}
	box := domain.BBox{xs[0], ys[0], xs[0], ys[0]}
	for i := range xs {
		box[0] = min(box[0], xs[i])
		box[1] = min(box[1], ys[i])
		box[2] = max(box[2], xs[i])
		box[3] = max(box[3], ys[i])
	}
	return box, true
}

// textFromLayout reads the text anchor segments of a layout out of the
// document text.
func textFromLayout(layout *documentaipb.Document_Page_Layout, fullText string) string {
	if layout == nil || layout.TextAnchor == nil {
		return ""
	}
	runes := []rune(fullText)
	var sb strings.Builder
	for _, seg := range layout.TextAnchor.TextSegments {
		start := max(int(seg.StartIndex), 0)
		end := min(int(seg.EndIndex), len(runes))
		if start > end {
			start = end
		}
		sb.WriteString(string(runes[start:end]))
	}
	return sb.String()
}
