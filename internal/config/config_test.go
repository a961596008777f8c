package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docextract/internal/config"
)

func TestParserConfig_PrimaryConfig_LegacyFallback(t *testing.T) {
	cfg := config.ParserConfig{
		Provider:     "openai",
		APIKey:       "sk-legacy",
		DefaultModel: "gpt-4o",
		MaxRetries:   3,
		TimeoutSecs:  30,
	}

	primary := cfg.PrimaryConfig()

	assert.Equal(t, "openai", primary.Provider)
	assert.Equal(t, "sk-legacy", primary.APIKey)
	assert.Equal(t, "gpt-4o", primary.DefaultModel)
	assert.Equal(t, 3, primary.MaxRetries)
	assert.Equal(t, 30, primary.TimeoutSecs)
}

func TestParserConfig_PrimaryConfig_ExplicitPrimary(t *testing.T) {
	cfg := config.ParserConfig{
		Provider: "legacy-should-be-ignored",
		Primary: config.ParserProviderConfig{
			Provider:     "claude",
			APIKey:       "sk-primary",
			DefaultModel: "claude-sonnet-4-20250514",
		},
	}

	primary := cfg.PrimaryConfig()

	assert.Equal(t, "claude", primary.Provider)
	assert.Equal(t, "sk-primary", primary.APIKey)
}

func TestParserConfig_SecondaryAndTertiary(t *testing.T) {
	cfg := config.ParserConfig{Provider: "openai"}
	assert.Nil(t, cfg.SecondaryConfig())
	assert.Nil(t, cfg.TertiaryConfig())

	cfg.Secondary = config.ParserProviderConfig{Provider: "gemini", APIKey: "gk"}
	cfg.Tertiary = config.ParserProviderConfig{Provider: "claude", APIKey: "ck"}
	require.NotNil(t, cfg.SecondaryConfig())
	require.NotNil(t, cfg.TertiaryConfig())
	assert.Equal(t, "gemini", cfg.SecondaryConfig().Provider)
	assert.Equal(t, "claude", cfg.TertiaryConfig().Provider)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, int64(25), cfg.Server.MaxUploadMB)
	assert.Equal(t, 2, cfg.Scoring.ConsistencyRuns)
	assert.Equal(t, "tesseract", cfg.OCR.Engine)
	assert.Equal(t, "eng", cfg.OCR.Language)
	assert.False(t, cfg.Archive.Enabled)
	assert.Equal(t, []string{"http://localhost:3000", "http://127.0.0.1:3000"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DOCEXTRACT_SCORING_CONSISTENCY_RUNS", "4")
	t.Setenv("DOCEXTRACT_OCR_ENGINE", "docai")
	t.Setenv("DOCEXTRACT_ARCHIVE_ENABLED", "true")
	t.Setenv("DOCEXTRACT_PARSER_SECONDARY_PROVIDER", "gemini")
	t.Setenv("DOCEXTRACT_CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 4, cfg.Scoring.ConsistencyRuns)
	assert.Equal(t, "docai", cfg.OCR.Engine)
	assert.True(t, cfg.Archive.Enabled)
	require.NotNil(t, cfg.Parser.SecondaryConfig())
	assert.Equal(t, "gemini", cfg.Parser.SecondaryConfig().Provider)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoad_PlatformPort(t *testing.T) {
	t.Setenv("PORT", "9090")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Port)
}
