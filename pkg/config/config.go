package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Fathom   FathomConfig
	Gemini   GeminiConfig
	Webhook  WebhookConfig
	Artifact ArtifactConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string `envconfig:"PORT" default:"8080"`
	Host            string `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string `envconfig:"ENVIRONMENT" default:"development"`
	ShutdownTimeout int    `envconfig:"SHUTDOWN_TIMEOUT" default:"10"`
}

// DatabaseConfig holds record store configuration
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" default:"postgres"`
	Password string `envconfig:"DB_PASSWORD" default:"postgres"`
	Name     string `envconfig:"DB_NAME" default:"minuteflow"`
	SSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns int    `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns int    `envconfig:"DB_MIN_CONNS" default:"5"`
}

// FathomConfig holds transcript service configuration
type FathomConfig struct {
	APIKey         string `envconfig:"FATHOM_API_KEY"`
	BaseURL        string `envconfig:"FATHOM_API_URL" default:"https://api.fathom.ai/external/v1"`
	TimeoutSeconds int    `envconfig:"FATHOM_TIMEOUT" default:"30"`
}

// GeminiConfig holds generative-language service configuration
type GeminiConfig struct {
	APIKey         string `envconfig:"GOOGLE_GEMINI_API_KEY"`
	BaseURL        string `envconfig:"GEMINI_API_URL" default:"https://generativelanguage.googleapis.com"`
	Model          string `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`
	TimeoutSeconds int    `envconfig:"GEMINI_TIMEOUT" default:"120"`
}

// WebhookConfig holds inbound webhook verification configuration.
// Secret is the whsec_... value issued at webhook registration time.
type WebhookConfig struct {
	Secret string `envconfig:"FATHOM_WEBHOOK_SECRET"`
}

// ArtifactConfig holds intermediate artifact configuration
type ArtifactConfig struct {
	Dir          string `envconfig:"ARTIFACT_DIR" default:".tmp"`
	MinioEnabled bool   `envconfig:"ARTIFACT_MINIO_ENABLED" default:"false"`
	MinioConfig  MinioConfig
}

// MinioConfig holds the optional object-storage archive for artifacts
type MinioConfig struct {
	Endpoint        string `envconfig:"MINIO_ENDPOINT" default:"localhost:9000"`
	AccessKeyID     string `envconfig:"MINIO_ACCESS_KEY"`
	SecretAccessKey string `envconfig:"MINIO_SECRET_KEY"`
	BucketName      string `envconfig:"MINIO_BUCKET" default:"minuteflow-artifacts"`
	UseSSL          bool   `envconfig:"MINIO_USE_SSL" default:"false"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate validates the credentials every pipeline run needs. The webhook
// secret is checked separately by the server entrypoint since the CLI does
// not receive webhooks.
func (c *Config) Validate() error {
	if c.Fathom.APIKey == "" {
		return fmt.Errorf("FATHOM_API_KEY is required")
	}
	if c.Gemini.APIKey == "" {
		return fmt.Errorf("GOOGLE_GEMINI_API_KEY is required")
	}
	return nil
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
