package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Log     LogConfig
	Parser  ParserConfig
	Scoring ScoringConfig
	OCR     OCRConfig
	Archive ArchiveConfig
	CORS    CORSConfig
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ScoringConfig holds self-consistency run settings.
type ScoringConfig struct {
	// ConsistencyRuns is the number of extra extraction runs compared against
	// the primary result. Zero disables consistency scoring.
	ConsistencyRuns   int `mapstructure:"consistency_runs"`
	MaxConcurrency    int `mapstructure:"max_concurrency"`
	RequestsPerMinute int `mapstructure:"requests_per_minute"`
}

// OCRConfig selects and configures the OCR engine used for raster images.
type OCRConfig struct {
	Engine           string `mapstructure:"engine"`
	TesseractPath    string `mapstructure:"tesseract_path"`
	Language         string `mapstructure:"language"`
	DocAIProjectID   string `mapstructure:"docai_project_id"`
	DocAILocation    string `mapstructure:"docai_location"`
	DocAIProcessorID string `mapstructure:"docai_processor_id"`
	DocAICredentials string `mapstructure:"docai_credentials"`
}

// ArchiveConfig holds S3 settings for archiving finished reports.
type ArchiveConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	Prefix        string `mapstructure:"prefix"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// ParserProviderConfig holds settings for a single LLM parser provider.
type ParserProviderConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	MaxRetries   int    `mapstructure:"max_retries"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// ParserConfig holds LLM document parser settings with multi-provider support.
type ParserConfig struct {
	// Legacy flat fields (backwards-compatible)
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	MaxRetries   int    `mapstructure:"max_retries"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`

	// Multi-provider fields
	Primary   ParserProviderConfig `mapstructure:"primary"`
	Secondary ParserProviderConfig `mapstructure:"secondary"`
	Tertiary  ParserProviderConfig `mapstructure:"tertiary"`
}

// PrimaryConfig returns the primary parser provider config, falling back to legacy flat fields.
func (p *ParserConfig) PrimaryConfig() *ParserProviderConfig {
	if p.Primary.Provider != "" {
		return &p.Primary
	}
	return &ParserProviderConfig{
		Provider:     p.Provider,
		APIKey:       p.APIKey,
		DefaultModel: p.DefaultModel,
		MaxRetries:   p.MaxRetries,
		TimeoutSecs:  p.TimeoutSecs,
	}
}

// SecondaryConfig returns the secondary parser provider config, or nil if not configured.
func (p *ParserConfig) SecondaryConfig() *ParserProviderConfig {
	if p.Secondary.Provider != "" {
		return &p.Secondary
	}
	return nil
}

// TertiaryConfig returns the tertiary parser provider config, or nil if not configured.
func (p *ParserConfig) TertiaryConfig() *ParserProviderConfig {
	if p.Tertiary.Provider != "" {
		return &p.Tertiary
	}
	return nil
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
	MaxUploadMB  int64         `mapstructure:"max_upload_mb"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the DOCEXTRACT_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DOCEXTRACT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "300s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.max_upload_mb", 25)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Scoring defaults
	v.SetDefault("scoring.consistency_runs", 2)
	v.SetDefault("scoring.max_concurrency", 2)
	v.SetDefault("scoring.requests_per_minute", 60)

	// OCR defaults
	v.SetDefault("ocr.engine", "tesseract")
	v.SetDefault("ocr.tesseract_path", "tesseract")
	v.SetDefault("ocr.language", "eng")
	v.SetDefault("ocr.docai_project_id", "")
	v.SetDefault("ocr.docai_location", "us")
	v.SetDefault("ocr.docai_processor_id", "")
	v.SetDefault("ocr.docai_credentials", "")

	// Archive defaults
	v.SetDefault("archive.enabled", false)
	v.SetDefault("archive.region", "us-east-1")
	v.SetDefault("archive.bucket", "docextract-reports")
	v.SetDefault("archive.endpoint", "")
	v.SetDefault("archive.prefix", "reports")
	v.SetDefault("archive.presign_expiry", 3600)

	// Parser defaults (legacy flat)
	v.SetDefault("parser.provider", "openai")
	v.SetDefault("parser.api_key", "")
	v.SetDefault("parser.default_model", "gpt-4o")
	v.SetDefault("parser.max_retries", 2)
	v.SetDefault("parser.timeout_secs", 120)

	// Parser primary/secondary defaults
	for _, slot := range []string{"primary", "secondary", "tertiary"} {
		v.SetDefault("parser."+slot+".provider", "")
		v.SetDefault("parser."+slot+".api_key", "")
		v.SetDefault("parser."+slot+".default_model", "")
		v.SetDefault("parser."+slot+".max_retries", 2)
		v.SetDefault("parser."+slot+".timeout_secs", 120)
	}

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                    "DOCEXTRACT_SERVER_PORT",
		"server.read_timeout":            "DOCEXTRACT_SERVER_READ_TIMEOUT",
		"server.write_timeout":           "DOCEXTRACT_SERVER_WRITE_TIMEOUT",
		"server.environment":             "DOCEXTRACT_SERVER_ENVIRONMENT",
		"server.max_upload_mb":           "DOCEXTRACT_SERVER_MAX_UPLOAD_MB",
		"log.level":                      "DOCEXTRACT_LOG_LEVEL",
		"log.format":                     "DOCEXTRACT_LOG_FORMAT",
		"cors.allowed_origins":           "DOCEXTRACT_CORS_ALLOWED_ORIGINS",
		"scoring.consistency_runs":       "DOCEXTRACT_SCORING_CONSISTENCY_RUNS",
		"scoring.max_concurrency":        "DOCEXTRACT_SCORING_MAX_CONCURRENCY",
		"scoring.requests_per_minute":    "DOCEXTRACT_SCORING_REQUESTS_PER_MINUTE",
		"ocr.engine":                     "DOCEXTRACT_OCR_ENGINE",
		"ocr.tesseract_path":             "DOCEXTRACT_OCR_TESSERACT_PATH",
		"ocr.language":                   "DOCEXTRACT_OCR_LANGUAGE",
		"ocr.docai_project_id":           "DOCEXTRACT_OCR_DOCAI_PROJECT_ID",
		"ocr.docai_location":             "DOCEXTRACT_OCR_DOCAI_LOCATION",
		"ocr.docai_processor_id":         "DOCEXTRACT_OCR_DOCAI_PROCESSOR_ID",
		"ocr.docai_credentials":          "GOOGLE_APPLICATION_CREDENTIALS",
		"archive.enabled":                "DOCEXTRACT_ARCHIVE_ENABLED",
		"archive.region":                 "DOCEXTRACT_ARCHIVE_REGION",
		"archive.bucket":                 "DOCEXTRACT_ARCHIVE_BUCKET",
		"archive.endpoint":               "DOCEXTRACT_ARCHIVE_ENDPOINT",
		"archive.access_key":             "DOCEXTRACT_ARCHIVE_ACCESS_KEY",
		"archive.secret_key":             "DOCEXTRACT_ARCHIVE_SECRET_KEY",
		"archive.prefix":                 "DOCEXTRACT_ARCHIVE_PREFIX",
		"archive.presign_expiry":         "DOCEXTRACT_ARCHIVE_PRESIGN_EXPIRY",
		"parser.provider":                "DOCEXTRACT_PARSER_PROVIDER",
		"parser.api_key":                 "DOCEXTRACT_PARSER_API_KEY",
		"parser.default_model":           "DOCEXTRACT_PARSER_DEFAULT_MODEL",
		"parser.max_retries":             "DOCEXTRACT_PARSER_MAX_RETRIES",
		"parser.timeout_secs":            "DOCEXTRACT_PARSER_TIMEOUT_SECS",
		"parser.primary.provider":        "DOCEXTRACT_PARSER_PRIMARY_PROVIDER",
		"parser.primary.api_key":         "DOCEXTRACT_PARSER_PRIMARY_API_KEY",
		"parser.primary.default_model":   "DOCEXTRACT_PARSER_PRIMARY_DEFAULT_MODEL",
		"parser.primary.max_retries":     "DOCEXTRACT_PARSER_PRIMARY_MAX_RETRIES",
		"parser.primary.timeout_secs":    "DOCEXTRACT_PARSER_PRIMARY_TIMEOUT_SECS",
		"parser.secondary.provider":      "DOCEXTRACT_PARSER_SECONDARY_PROVIDER",
		"parser.secondary.api_key":       "DOCEXTRACT_PARSER_SECONDARY_API_KEY",
		"parser.secondary.default_model": "DOCEXTRACT_PARSER_SECONDARY_DEFAULT_MODEL",
		"parser.secondary.max_retries":   "DOCEXTRACT_PARSER_SECONDARY_MAX_RETRIES",
		"parser.secondary.timeout_secs":  "DOCEXTRACT_PARSER_SECONDARY_TIMEOUT_SECS",
		"parser.tertiary.provider":       "DOCEXTRACT_PARSER_TERTIARY_PROVIDER",
		"parser.tertiary.api_key":        "DOCEXTRACT_PARSER_TERTIARY_API_KEY",
		"parser.tertiary.default_model":  "DOCEXTRACT_PARSER_TERTIARY_DEFAULT_MODEL",
		"parser.tertiary.max_retries":    "DOCEXTRACT_PARSER_TERTIARY_MAX_RETRIES",
		"parser.tertiary.timeout_secs":   "DOCEXTRACT_PARSER_TERTIARY_TIMEOUT_SECS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Container platforms set a PORT env var. Use it if DOCEXTRACT_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("DOCEXTRACT_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
		MaxUploadMB:  v.GetInt64("server.max_upload_mb"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Scoring = ScoringConfig{
		ConsistencyRuns:   v.GetInt("scoring.consistency_runs"),
		MaxConcurrency:    v.GetInt("scoring.max_concurrency"),
		RequestsPerMinute: v.GetInt("scoring.requests_per_minute"),
	}
	cfg.OCR = OCRConfig{
		Engine:           v.GetString("ocr.engine"),
		TesseractPath:    v.GetString("ocr.tesseract_path"),
		Language:         v.GetString("ocr.language"),
		DocAIProjectID:   v.GetString("ocr.docai_project_id"),
		DocAILocation:    v.GetString("ocr.docai_location"),
		DocAIProcessorID: v.GetString("ocr.docai_processor_id"),
		DocAICredentials: v.GetString("ocr.docai_credentials"),
	}
	cfg.Archive = ArchiveConfig{
		Enabled:       v.GetBool("archive.enabled"),
		Region:        v.GetString("archive.region"),
		Bucket:        v.GetString("archive.bucket"),
		Endpoint:      v.GetString("archive.endpoint"),
		AccessKey:     v.GetString("archive.access_key"),
		SecretKey:     v.GetString("archive.secret_key"),
		Prefix:        v.GetString("archive.prefix"),
		PresignExpiry: v.GetInt64("archive.presign_expiry"),
	}

	cfg.Parser = ParserConfig{
		Provider:     v.GetString("parser.provider"),
		APIKey:       v.GetString("parser.api_key"),
		DefaultModel: v.GetString("parser.default_model"),
		MaxRetries:   v.GetInt("parser.max_retries"),
		TimeoutSecs:  v.GetInt("parser.timeout_secs"),
		Primary:      providerConfig(v, "parser.primary"),
		Secondary:    providerConfig(v, "parser.secondary"),
		Tertiary:     providerConfig(v, "parser.tertiary"),
	}

	return cfg, nil
}

func providerConfig(v *viper.Viper, prefix string) ParserProviderConfig {
	return ParserProviderConfig{
		Provider:     v.GetString(prefix + ".provider"),
		APIKey:       v.GetString(prefix + ".api_key"),
		DefaultModel: v.GetString(prefix + ".default_model"),
		MaxRetries:   v.GetInt(prefix + ".max_retries"),
		TimeoutSecs:  v.GetInt(prefix + ".timeout_secs"),
	}
}
