package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	Store   StoreConfig
	Ledger  LedgerConfig
	S3      S3Config
	Log     LogConfig
	Extract ExtractConfig
	CORS    CORSConfig
	Batch   BatchConfig
}

// ServerConfig holds HTTP server settings for the report server.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// StoreConfig holds extraction record store settings.
type StoreConfig struct {
	// Root is the directory extraction records are written under,
	// one subdirectory per model.
	Root string `mapstructure:"root"`
}

// LedgerConfig holds run ledger database settings.
type LedgerConfig struct {
	// Path is the SQLite database file.
	Path    string `mapstructure:"path"`
	MaxOpen int    `mapstructure:"max_open"`
	MaxIdle int    `mapstructure:"max_idle"`
}

// DSN returns the SQLite connection string.
func (l *LedgerConfig) DSN() string {
	return fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", l.Path)
}

// S3Config holds AWS S3 settings for report archival.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings for the report server.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ProviderConfig holds settings for a single extraction provider.
type ProviderConfig struct {
	Provider    string `mapstructure:"provider"`
	APIKey      string `mapstructure:"api_key"`
	Endpoint    string `mapstructure:"endpoint"`
	Binary      string `mapstructure:"binary"`
	Model       string `mapstructure:"model"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// Timeout returns the provider call bound as a duration.
func (p *ProviderConfig) Timeout() time.Duration {
	if p.TimeoutSecs <= 0 {
		return 120 * time.Second
	}
	return time.Duration(p.TimeoutSecs) * time.Second
}

// ExtractConfig holds extraction provider settings. Primary runs by default;
// Secondary is compared against it when configured.
type ExtractConfig struct {
	Primary   ProviderConfig `mapstructure:"primary"`
	Secondary ProviderConfig `mapstructure:"secondary"`
}

// SecondaryConfig returns the secondary provider config, or nil if not configured.
func (e *ExtractConfig) SecondaryConfig() *ProviderConfig {
	if e.Secondary.Provider != "" {
		return &e.Secondary
	}
	return nil
}

// BatchConfig holds batch extraction settings.
type BatchConfig struct {
	// DocType is the document type extracted by default.
	DocType string `mapstructure:"doc_type"`
	// Overwrite re-extracts inputs that already have a stored outcome.
	Overwrite bool `mapstructure:"overwrite"`
	// Workers bounds concurrent source documents in flight.
	Workers int `mapstructure:"workers"`
}

// Load reads configuration from environment variables with the TRADEDOCS_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("TRADEDOCS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// Store defaults
	v.SetDefault("store.root", "ocr_output")

	// Ledger defaults
	v.SetDefault("ledger.path", "tradedocs.db")
	v.SetDefault("ledger.max_open", 1)
	v.SetDefault("ledger.max_idle", 1)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Extraction provider defaults
	v.SetDefault("extract.primary.provider", "ollama")
	v.SetDefault("extract.primary.api_key", "")
	v.SetDefault("extract.primary.endpoint", "http://localhost:11434")
	v.SetDefault("extract.primary.binary", "ollama")
	v.SetDefault("extract.primary.model", "qwen3-vl:32b")
	v.SetDefault("extract.primary.timeout_secs", 600)
	v.SetDefault("extract.secondary.provider", "")
	v.SetDefault("extract.secondary.api_key", "")
	v.SetDefault("extract.secondary.endpoint", "http://localhost:11434")
	v.SetDefault("extract.secondary.binary", "ollama")
	v.SetDefault("extract.secondary.model", "")
	v.SetDefault("extract.secondary.timeout_secs", 600)

	// Batch defaults
	v.SetDefault("batch.doc_type", "declaration")
	v.SetDefault("batch.overwrite", false)
	v.SetDefault("batch.workers", 1)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                    "TRADEDOCS_SERVER_PORT",
		"server.read_timeout":            "TRADEDOCS_SERVER_READ_TIMEOUT",
		"server.write_timeout":           "TRADEDOCS_SERVER_WRITE_TIMEOUT",
		"server.environment":             "TRADEDOCS_SERVER_ENVIRONMENT",
		"store.root":                     "TRADEDOCS_STORE_ROOT",
		"ledger.path":                    "TRADEDOCS_LEDGER_PATH",
		"ledger.max_open":                "TRADEDOCS_LEDGER_MAX_OPEN",
		"ledger.max_idle":                "TRADEDOCS_LEDGER_MAX_IDLE",
		"s3.region":                      "TRADEDOCS_S3_REGION",
		"s3.bucket":                      "TRADEDOCS_S3_BUCKET",
		"s3.endpoint":                    "TRADEDOCS_S3_ENDPOINT",
		"s3.access_key":                  "TRADEDOCS_S3_ACCESS_KEY",
		"s3.secret_key":                  "TRADEDOCS_S3_SECRET_KEY",
		"s3.presign_expiry":              "TRADEDOCS_S3_PRESIGN_EXPIRY",
		"log.level":                      "TRADEDOCS_LOG_LEVEL",
		"log.format":                     "TRADEDOCS_LOG_FORMAT",
		"cors.allowed_origins":           "TRADEDOCS_CORS_ALLOWED_ORIGINS",
		"extract.primary.provider":       "TRADEDOCS_EXTRACT_PRIMARY_PROVIDER",
		"extract.primary.api_key":        "TRADEDOCS_EXTRACT_PRIMARY_API_KEY",
		"extract.primary.endpoint":       "TRADEDOCS_EXTRACT_PRIMARY_ENDPOINT",
		"extract.primary.binary":         "TRADEDOCS_EXTRACT_PRIMARY_BINARY",
		"extract.primary.model":          "TRADEDOCS_EXTRACT_PRIMARY_MODEL",
		"extract.primary.timeout_secs":   "TRADEDOCS_EXTRACT_PRIMARY_TIMEOUT_SECS",
		"extract.secondary.provider":     "TRADEDOCS_EXTRACT_SECONDARY_PROVIDER",
		"extract.secondary.api_key":      "TRADEDOCS_EXTRACT_SECONDARY_API_KEY",
		"extract.secondary.endpoint":     "TRADEDOCS_EXTRACT_SECONDARY_ENDPOINT",
		"extract.secondary.binary":       "TRADEDOCS_EXTRACT_SECONDARY_BINARY",
		"extract.secondary.model":        "TRADEDOCS_EXTRACT_SECONDARY_MODEL",
		"extract.secondary.timeout_secs": "TRADEDOCS_EXTRACT_SECONDARY_TIMEOUT_SECS",
		"batch.doc_type":                 "TRADEDOCS_BATCH_DOC_TYPE",
		"batch.overwrite":                "TRADEDOCS_BATCH_OVERWRITE",
		"batch.workers":                  "TRADEDOCS_BATCH_WORKERS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if TRADEDOCS_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("TRADEDOCS_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.Store = StoreConfig{
		Root: v.GetString("store.root"),
	}
	cfg.Ledger = LedgerConfig{
		Path:    v.GetString("ledger.path"),
		MaxOpen: v.GetInt("ledger.max_open"),
		MaxIdle: v.GetInt("ledger.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
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

	cfg.Extract = ExtractConfig{
		Primary: ProviderConfig{
			Provider:    v.GetString("extract.primary.provider"),
			APIKey:      v.GetString("extract.primary.api_key"),
			Endpoint:    v.GetString("extract.primary.endpoint"),
			Binary:      v.GetString("extract.primary.binary"),
			Model:       v.GetString("extract.primary.model"),
			TimeoutSecs: v.GetInt("extract.primary.timeout_secs"),
		},
		Secondary: ProviderConfig{
			Provider:    v.GetString("extract.secondary.provider"),
			APIKey:      v.GetString("extract.secondary.api_key"),
			Endpoint:    v.GetString("extract.secondary.endpoint"),
			Binary:      v.GetString("extract.secondary.binary"),
			Model:       v.GetString("extract.secondary.model"),
			TimeoutSecs: v.GetInt("extract.secondary.timeout_secs"),
		},
	}

	cfg.Batch = BatchConfig{
		DocType:   v.GetString("batch.doc_type"),
		Overwrite: v.GetBool("batch.overwrite"),
		Workers:   v.GetInt("batch.workers"),
	}

	return cfg, nil
}
