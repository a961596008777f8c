package openai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docextract/internal/config"
	"docextract/internal/domain"
	"docextract/internal/parser"
	"docextract/internal/parser/openai"
	"docextract/internal/port"
)

func newTestParser(serverURL string) *openai.Parser {
	cfg := &config.ParserProviderConfig{
		Provider:     "openai",
		APIKey:       "test-api-key",
		DefaultModel: "gpt-4o-mini",
		TimeoutSecs:  30,
	}
	return openai.NewParserWithEndpoint(cfg, serverURL)
}

func chatResponse(content, finishReason string) map[string]interface{} {
	return map[string]interface{}{
		"choices": []map[string]interface{}{
			{
				"message":       map[string]interface{}{"role": "assistant", "content": content},
				"finish_reason": finishReason,
			},
		},
	}
}

func TestOpenAIParser_Classify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-api-key", r.Header.Get("Authorization"))

		var reqBody map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Equal(t, "gpt-4o-mini", reqBody["model"])
		assert.Equal(t, float64(0), reqBody["temperature"])
		assert.NotContains(t, reqBody, "response_format")

		messages := reqBody["messages"].([]interface{})
		assert.Len(t, messages, 2)
		assert.Equal(t, "system", messages[0].(map[string]interface{})["role"])
		assert.Equal(t, "user", messages[1].(map[string]interface{})["role"])

		_ = json.NewEncoder(w).Encode(chatResponse(" Medical_Bill\n", "stop"))
	}))
	defer server.Close()

	got, err := newTestParser(server.URL).Classify(context.Background(), "Patient: Jane Doe")

	require.NoError(t, err)
	assert.Equal(t, domain.DocumentTypeMedicalBill, got)
}

func TestOpenAIParser_Extract(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reqBody map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&reqBody))
		assert.Equal(t, 0.1, reqBody["temperature"])
		assert.Equal(t, map[string]interface{}{"type": "json_object"}, reqBody["response_format"])

		_ = json.NewEncoder(w).Encode(chatResponse(`{"vendor_name":"Acme","total_amount":100.5}`, "stop"))
	}))
	defer server.Close()

	out, err := newTestParser(server.URL).Extract(context.Background(), port.ExtractInput{
		DocumentType: domain.DocumentTypeInvoice,
		Text:         "ACME total 100.50",
		JSONSchema:   map[string]interface{}{"type": "object"},
	})

	require.NoError(t, err)
	assert.Equal(t, "gpt-4o-mini", out.ModelUsed)
	assert.Contains(t, out.PromptUsed, "ACME total 100.50")
	assert.Equal(t, "Acme", out.Data["vendor_name"])
	assert.Equal(t, json.Number("100.5"), out.Data["total_amount"])
}

func TestOpenAIParser_Extract_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(chatResponse("sorry, no", "stop"))
	}))
	defer server.Close()

	out, err := newTestParser(server.URL).Extract(context.Background(), port.ExtractInput{})
	assert.Nil(t, out)
	assert.Error(t, err)
}

func TestOpenAIParser_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "15")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":"rate limited"}`))
	}))
	defer server.Close()

	_, err := newTestParser(server.URL).Classify(context.Background(), "text")

	var rlErr *parser.RateLimitError
	require.ErrorAs(t, err, &rlErr)
	assert.Equal(t, "openai", rlErr.Provider)
	assert.Equal(t, 15*time.Second, rlErr.RetryAfter)
}

func TestOpenAIParser_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("internal"))
	}))
	defer server.Close()

	got, err := newTestParser(server.URL).Classify(context.Background(), "text")

	assert.Equal(t, domain.DocumentTypeUnknown, got)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
	var rlErr *parser.RateLimitError
	assert.False(t, errors.As(err, &rlErr))
}

func TestOpenAIParser_Truncated(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(chatResponse(`{"vendor`, "length"))
	}))
	defer server.Close()

	_, err := newTestParser(server.URL).Extract(context.Background(), port.ExtractInput{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "truncated")
}

func TestOpenAIParser_RegisteredWithFactory(t *testing.T) {
	p, err := parser.NewParser(&config.ParserProviderConfig{Provider: "openai"})
	require.NoError(t, err)
	assert.IsType(t, &openai.Parser{}, p)
}
