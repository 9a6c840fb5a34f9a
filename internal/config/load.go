package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "CARDCHAT"

// envAliases lets well-known variable names stand in for the prefixed ones.
var envAliases = map[string][]string{
	"database.url": {"DATABASE_URL"},
}

// providerDefaults holds the per-provider fallbacks applied when llm.api_key
// or llm.model_name is not set explicitly. Only the selected provider's key
// variable is consulted.
var providerDefaults = map[string]struct {
	keyEnv string
	model  string
}{
	"gemini": {keyEnv: "GEMINI_API_KEY", model: "gemini-2.0-flash"},
	"openai": {keyEnv: "OPENAI_API_KEY", model: "gpt-4o-mini"},
}

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are ignored; variables already set win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}

	for _, p := range paths {
		if _, err := os.Stat(p); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
		slog.Debug("loaded environment file", "path", p)
	}
	return nil
}

// Load configuration from environment variables and optionally a config file.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, aliases := range envAliases {
		names := append([]string{envName(key)}, aliases...)
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("failed to bind environment for %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyProviderDefaults(&cfg.LLM)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults registers every key so that AutomaticEnv can override it
// during Unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")

	v.SetDefault("database.url", "")
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model_name", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.max_tokens", 300)
	v.SetDefault("llm.max_prompt_tokens", 2000)
	v.SetDefault("llm.timeout", "30s")
	v.SetDefault("llm.prompt_template_path", "")
}

// applyProviderDefaults fills the credential and model for the selected
// provider. An unknown provider is left untouched for validation to reject.
func applyProviderDefaults(llm *LLMConfig) {
	defaults, ok := providerDefaults[llm.Provider]
	if !ok {
		return
	}
	if llm.APIKey == "" {
		llm.APIKey = os.Getenv(defaults.keyEnv)
	}
	if llm.ModelName == "" {
		llm.ModelName = defaults.model
	}
}

func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
