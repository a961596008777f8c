package claude

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"docextract/internal/config"
	"docextract/internal/domain"
	"docextract/internal/parser"
	"docextract/internal/port"
)

const (
	apiURL       = "https://api.anthropic.com/v1/messages"
	apiVersion   = "2023-06-01"
	providerName = "claude"
	maxTokens    = 4096
)

func init() {
	parser.RegisterProvider(providerName, func(cfg *config.ParserProviderConfig) (port.DocumentParser, error) {
		return NewParser(cfg), nil
	})
}

// Parser implements port.DocumentParser using the Anthropic Messages API.
type Parser struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
}

// NewParser creates a Claude-based document parser from a provider config.
func NewParser(cfg *config.ParserProviderConfig) *Parser {
	return newParser(cfg, apiURL)
}

// NewParserWithEndpoint creates a parser pointing at a custom API endpoint (for testing).
func NewParserWithEndpoint(cfg *config.ParserProviderConfig, endpoint string) *Parser {
	return newParser(cfg, endpoint)
}

func newParser(cfg *config.ParserProviderConfig, endpoint string) *Parser {
	model := cfg.DefaultModel
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Parser{
		apiKey:   cfg.APIKey,
		model:    model,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

func (p *Parser) Classify(ctx context.Context, text string) (domain.DocumentType, error) {
	answer, err := p.complete(ctx, parser.BuildClassificationPrompt(text))
	if err != nil {
		return domain.DocumentTypeUnknown, err
	}
	return parser.NormalizeDocumentType(answer), nil
}

func (p *Parser) Extract(ctx context.Context, input port.ExtractInput) (*port.ExtractOutput, error) {
	prompt, err := parser.BuildExtractionPrompt(input)
	if err != nil {
		return nil, err
	}
	answer, err := p.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	data, err := parser.DecodeJSONObject(answer)
	if err != nil {
		return nil, err
	}
	return &port.ExtractOutput{
		Data:       data,
		ModelUsed:  p.model,
		PromptUsed: prompt.User,
	}, nil
}

// complete sends one Messages API request. The API has no JSON response
// mode, so the extraction prompt alone asks for raw JSON.
func (p *Parser) complete(ctx context.Context, prompt parser.Prompt) (string, error) {
	reqBody := map[string]interface{}{
		"model":       p.model,
		"max_tokens":  maxTokens,
		"temperature": prompt.Temperature,
		"system":      prompt.System,
		"messages": []map[string]interface{}{
			{
				"role":    "user",
				"content": prompt.User,
			},
		},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling anthropic API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", parser.StatusError(providerName, resp, respBody)
	}

	return parseResponse(respBody)
}

// apiResponse models the Anthropic Messages API response.
type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	StopReason string `json:"stop_reason"`
}

func parseResponse(body []byte) (string, error) {
	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("unmarshaling response: %w", err)
	}

	if len(resp.Content) == 0 {
		return "", fmt.Errorf("empty response from API")
	}

	if resp.StopReason == "max_tokens" {
		return "", fmt.Errorf("output truncated (stop_reason: max_tokens): response exceeded output token limit")
	}

	return resp.Content[0].Text, nil
}
