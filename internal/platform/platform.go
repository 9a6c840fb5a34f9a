// Package platform selects and constructs the infrastructure adapters named
// by the configuration: the flashcard store backend and the LLM provider.
package platform

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/phrazzld/cardchat/internal/config"
	"github.com/phrazzld/cardchat/internal/generation"
	"github.com/phrazzld/cardchat/internal/platform/bolt"
	"github.com/phrazzld/cardchat/internal/platform/gemini"
	"github.com/phrazzld/cardchat/internal/platform/openai"
	"github.com/phrazzld/cardchat/internal/platform/postgres"
	"github.com/phrazzld/cardchat/internal/store"
)

// Database URL schemes.
const (
	SchemePostgres   = "postgres"
	SchemePostgreSQL = "postgresql"
	SchemeBolt       = "bolt"
)

// StoreKind reports which backend a database URL selects.
// It returns an error for unsupported schemes.
func StoreKind(databaseURL string) (string, error) {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid database url: %w", err)
	}

	switch strings.ToLower(u.Scheme) {
	case SchemePostgres, SchemePostgreSQL:
		return SchemePostgres, nil
	case SchemeBolt:
		return SchemeBolt, nil
	default:
		return "", fmt.Errorf("unsupported database url scheme %q (expected postgres, postgresql or bolt)", u.Scheme)
	}
}

// BoltPath extracts the file path from a bolt:// URL. Both bolt:///abs/path
// and bolt://relative/path are accepted.
func BoltPath(databaseURL string) (string, error) {
	u, err := url.Parse(databaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid database url: %w", err)
	}

	path := u.Host + u.Path
	if path == "" {
		return "", fmt.Errorf("bolt database url %q has no file path", databaseURL)
	}
	return path, nil
}

// OpenStore opens the flashcard store selected by cfg.URL. PostgreSQL schemas
// are migrated first when cfg.AutoMigrate is set.
func OpenStore(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (store.FlashcardStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	kind, err := StoreKind(cfg.URL)
	if err != nil {
		return nil, err
	}

	switch kind {
	case SchemeBolt:
		path, err := BoltPath(cfg.URL)
		if err != nil {
			return nil, err
		}
		logger.Info("opening bolt flashcard store", "path", path)
		return bolt.Open(path, logger)

	default:
		db, err := postgres.Open(ctx, cfg.URL)
		if err != nil {
			return nil, err
		}
		if cfg.AutoMigrate {
			if err := postgres.Migrate(ctx, db, "up", logger); err != nil {
				_ = db.Close()
				return nil, err
			}
		}
		logger.Info("opened postgres flashcard store")
		return postgres.NewPostgresFlashcardStore(db, logger), nil
	}
}

// NewProvider constructs the LLM provider named by cfg.Provider.
func NewProvider(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (generation.Provider, error) {
	switch cfg.Provider {
	case gemini.ProviderName:
		return gemini.NewProvider(ctx, cfg, logger)
	case openai.ProviderName:
		return openai.NewProvider(cfg, logger)
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", generation.ErrUpstreamMisconfigured, cfg.Provider)
	}
}
