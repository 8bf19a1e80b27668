// Package config provides application configuration management with
// multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (~/.chakancha/config.yaml)
//  3. Default values
//
// Main configuration categories:
//   - AI: model selection, embedder model
//   - Storage: PostgreSQL connection (see storage.go)
//   - Retrieval: topK, minimum similarity score, index namespace
//   - Tracking: DHL API credential (absent = mock mode)
//
// Error handling uses sentinel errors checked with errors.Is().
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrMissingAPIKey indicates a required API key is missing.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrInvalidModelName indicates the model name is invalid.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidEmbedderModel indicates the embedder model is invalid.
	ErrInvalidEmbedderModel = errors.New("invalid embedder model")

	// ErrInvalidTopK indicates the retrieval topK value is out of range.
	ErrInvalidTopK = errors.New("invalid retrieval top_k")

	// ErrInvalidMinScore indicates the retrieval score threshold is out of range.
	ErrInvalidMinScore = errors.New("invalid retrieval min_score")

	// ErrInvalidPostgresHost indicates the PostgreSQL host is invalid.
	ErrInvalidPostgresHost = errors.New("invalid PostgreSQL host")

	// ErrInvalidPostgresPort indicates the PostgreSQL port is out of range.
	ErrInvalidPostgresPort = errors.New("invalid PostgreSQL port")

	// ErrInvalidPostgresDBName indicates the PostgreSQL database name is invalid.
	ErrInvalidPostgresDBName = errors.New("invalid PostgreSQL database name")
)

const (
	// DefaultModelName is the default chat model.
	DefaultModelName = "gemini-2.5-flash"

	// DefaultEmbedderModel is the default embedder model.
	// text-embedding-004 outputs 768 dimensions, matching the
	// faq_documents pgvector schema; see knowledge.VectorDimension.
	DefaultEmbedderModel = "text-embedding-004"

	// DefaultNamespace is the default knowledge index namespace.
	DefaultNamespace = "default"
)

// Config stores application configuration.
type Config struct {
	// AI provider configuration. The Gemini API key is read directly by
	// Genkit from GEMINI_API_KEY; it never passes through Viper.
	ModelName     string `mapstructure:"model_name" json:"model_name"`
	EmbedderModel string `mapstructure:"embedder_model" json:"embedder_model"`

	// Knowledge retrieval configuration
	RetrievalTopK     int     `mapstructure:"retrieval_top_k" json:"retrieval_top_k"`
	RetrievalMinScore float64 `mapstructure:"retrieval_min_score" json:"retrieval_min_score"`
	Namespace         string  `mapstructure:"namespace" json:"namespace"`

	// Storage configuration (see storage.go)
	PostgresHost     string `mapstructure:"postgres_host" json:"postgres_host"`
	PostgresPort     int    `mapstructure:"postgres_port" json:"postgres_port"`
	PostgresUser     string `mapstructure:"postgres_user" json:"postgres_user"`
	PostgresPassword string `mapstructure:"postgres_password" json:"-"` // SENSITIVE: never serialized
	PostgresDBName   string `mapstructure:"postgres_db_name" json:"postgres_db_name"`
	PostgresSSLMode  string `mapstructure:"postgres_ssl_mode" json:"postgres_ssl_mode"`

	// Shipment tracking configuration. An empty API key switches the
	// tracking client into deterministic mock mode.
	DHLAPIKey string `mapstructure:"dhl_api_key" json:"-"` // SENSITIVE: never serialized
}

// Load loads configuration.
// Priority: environment variables > configuration file > default values.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".chakancha")
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configDir)
	viper.AddConfigPath(".")

	setDefaults()
	bindEnvVariables()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is not an error; defaults apply.
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using defaults",
			"search_paths", []string{configDir, "."})
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	// DATABASE_URL, when set, overrides individual postgres_* settings.
	if err := cfg.parseDatabaseURL(); err != nil {
		return nil, fmt.Errorf("parsing DATABASE_URL: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults() {
	viper.SetDefault("model_name", DefaultModelName)
	viper.SetDefault("embedder_model", DefaultEmbedderModel)

	viper.SetDefault("retrieval_top_k", 3)
	viper.SetDefault("retrieval_min_score", 0.7)
	viper.SetDefault("namespace", DefaultNamespace)

	viper.SetDefault("postgres_host", "localhost")
	viper.SetDefault("postgres_port", 5432)
	viper.SetDefault("postgres_user", "chakancha")
	viper.SetDefault("postgres_password", "chakancha_dev_password")
	viper.SetDefault("postgres_db_name", "chakancha")
	viper.SetDefault("postgres_ssl_mode", "disable")
}

// bindEnvVariables binds environment variable overrides explicitly.
//
// NOTE: GEMINI_API_KEY is read directly by Genkit, not via Viper; its
// presence is checked in Validate().
func bindEnvVariables() {
	mustBind := func(key, envVar string) {
		if err := viper.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("model_name", "CHAKANCHA_MODEL_NAME")
	mustBind("embedder_model", "CHAKANCHA_EMBEDDER_MODEL")
	mustBind("namespace", "CHAKANCHA_NAMESPACE")
	mustBind("dhl_api_key", "DHL_API_KEY")
}
