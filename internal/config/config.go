package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"      validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// AllowedOrigins lists the browser origins permitted by the CORS middleware.
	AllowedOrigins []string `mapstructure:"allowed_origins"`

	ReadTimeout  time.Duration `mapstructure:"read_timeout"  validate:"gt=0"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	// URL selects the storage backend by scheme:
	// postgres:// or postgresql:// for PostgreSQL, bolt://<path> for an embedded bbolt file.
	URL string `mapstructure:"url" validate:"required"`

	// AutoMigrate applies pending schema migrations when the store is opened.
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	Provider  string `mapstructure:"provider"   validate:"required,oneof=gemini openai"`
	APIKey    string `mapstructure:"api_key"    validate:"required"`
	ModelName string `mapstructure:"model_name" validate:"required"`

	// BaseURL overrides the provider endpoint (OpenAI-compatible servers, test doubles).
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`

	// MaxTokens caps the size of each completion.
	MaxTokens int `mapstructure:"max_tokens" validate:"required,gt=0"`

	// MaxPromptTokens rejects oversized utterances before they reach the provider.
	MaxPromptTokens int `mapstructure:"max_prompt_tokens" validate:"required,gt=0"`

	// Timeout bounds a single completion call.
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`

	// PromptTemplatePath optionally replaces the embedded flashcard prompt template.
	PromptTemplatePath string `mapstructure:"prompt_template_path"`
}
