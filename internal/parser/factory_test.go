package parser_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docextract/internal/config"
	"docextract/internal/domain"
	"docextract/internal/parser"
	"docextract/internal/port"
)

func TestFactory_RegisterAndCreate(t *testing.T) {
	parser.RegisterProvider("test-provider", func(cfg *config.ParserProviderConfig) (port.DocumentParser, error) {
		return &stubParser{model: cfg.DefaultModel}, nil
	})

	p, err := parser.NewParser(&config.ParserProviderConfig{
		Provider:     "test-provider",
		DefaultModel: "test-model",
	})

	assert.NoError(t, err)
	assert.NotNil(t, p)
}

func TestFactory_UnknownProvider(t *testing.T) {
	p, err := parser.NewParser(&config.ParserProviderConfig{
		Provider: "nonexistent-provider-xyz",
	})

	assert.Nil(t, p)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown parser provider")
}

func TestNewFromConfig_BuildsChain(t *testing.T) {
	parser.RegisterProvider("stub-a", func(cfg *config.ParserProviderConfig) (port.DocumentParser, error) {
		return &stubParser{model: "a"}, nil
	})

	fp, err := parser.NewFromConfig(&config.ParserConfig{
		Primary:  config.ParserProviderConfig{Provider: "stub-a"},
		Tertiary: config.ParserProviderConfig{Provider: "stub-a"},
	})
	require.NoError(t, err)

	out, err := fp.Extract(context.Background(), port.ExtractInput{})
	require.NoError(t, err)
	assert.Equal(t, "a", out.ModelUsed)
}

func TestNewFromConfig_UnknownProvider(t *testing.T) {
	_, err := parser.NewFromConfig(&config.ParserConfig{Provider: "nope"})
	assert.Error(t, err)
}

// stubParser is a minimal DocumentParser for testing the factory.
type stubParser struct {
	model string
}

func (s *stubParser) Classify(_ context.Context, _ string) (domain.DocumentType, error) {
	return domain.DocumentTypeInvoice, nil
}

func (s *stubParser) Extract(_ context.Context, _ port.ExtractInput) (*port.ExtractOutput, error) {
	return &port.ExtractOutput{Data: map[string]interface{}{"ok": true}, ModelUsed: s.model}, nil
}
