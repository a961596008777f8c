package gemini_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docextract/internal/config"
	"docextract/internal/domain"
	"docextract/internal/parser"
	"docextract/internal/parser/gemini"
	"docextract/internal/port"
)

func newTestParser(serverURL string) *gemini.Parser {
	cfg := &config.ParserProviderConfig{
		Provider:     "gemini",
		APIKey:       "test-api-key",
		DefaultModel: "gemini-2.0-flash",
		TimeoutSecs:  30,
	}
	return gemini.NewParserWithEndpoint(cfg, serverURL)
}

func geminiResponse(text, finishReason string) map[string]interface{} {
	return map[string]interface{}{
		"candidates": []map[string]interface{}{
			{
				"content":      map[string]interface{}{"parts": []map[string]interface{}{{"text": text}}},
				"finishReason": finishReason,
			},
		},
	}
}

func TestGeminiParser_Extract(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-api-key", r.Header.Get("x-goog-api-key"))

		var reqBody map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Contains(t, reqBody, "systemInstruction")
		genConfig := reqBody["generationConfig"].(map[string]interface{})
		assert.Equal(t, "application/json", genConfig["responseMimeType"])
		assert.Equal(t, 0.1, genConfig["temperature"])

		_ = json.NewEncoder(w).Encode(geminiResponse(`{"doctor_name":"Dr. Smith","medications":[]}`, "STOP"))
	}))
	defer server.Close()

	out, err := newTestParser(server.URL).Extract(context.Background(), port.ExtractInput{
		DocumentType: domain.DocumentTypePrescription,
		Text:         "Dr. Smith",
		JSONSchema:   map[string]interface{}{"type": "object"},
	})

	require.NoError(t, err)
	assert.Equal(t, "Dr. Smith", out.Data["doctor_name"])
	assert.Equal(t, []interface{}{}, out.Data["medications"])
	assert.Equal(t, "gemini-2.0-flash", out.ModelUsed)
}

func TestGeminiParser_Classify_NoJSONMode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reqBody map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		genConfig := reqBody["generationConfig"].(map[string]interface{})
		assert.NotContains(t, genConfig, "responseMimeType")

		_ = json.NewEncoder(w).Encode(geminiResponse("invoice", "STOP"))
	}))
	defer server.Close()

	got, err := newTestParser(server.URL).Classify(context.Background(), "INVOICE #1")

	require.NoError(t, err)
	assert.Equal(t, domain.DocumentTypeInvoice, got)
}

func TestGeminiParser_NoCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	}))
	defer server.Close()

	_, err := newTestParser(server.URL).Classify(context.Background(), "text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no candidates")
}

func TestGeminiParser_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "5")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestParser(server.URL).Extract(context.Background(), port.ExtractInput{})

	var rlErr *parser.RateLimitError
	require.ErrorAs(t, err, &rlErr)
	assert.Equal(t, "gemini", rlErr.Provider)
	assert.Equal(t, 5*time.Second, rlErr.RetryAfter)
}
