package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/cardchat/internal/config"
	"github.com/phrazzld/cardchat/internal/generation"
	"github.com/phrazzld/cardchat/internal/platform"
	"github.com/phrazzld/cardchat/internal/service"
	"github.com/phrazzld/cardchat/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	flashcardStore store.FlashcardStore
	provider       generation.Provider

	chatService      service.ChatService
	flashcardService service.FlashcardService
}

// newApplication opens the configured store and LLM provider and builds the
// services on top of them.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	if logger == nil {
		logger = slog.Default()
	}

	flashcardStore, err := platform.OpenStore(ctx, cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open flashcard store: %w", err)
	}

	provider, err := platform.NewProvider(ctx, cfg.LLM, logger)
	if err != nil {
		_ = flashcardStore.Close()
		return nil, fmt.Errorf("failed to initialize LLM provider: %w", err)
	}
	logger.Info("LLM provider initialized", "provider", provider.Name())

	app, err := newApplicationWithDeps(cfg, logger, flashcardStore, provider)
	if err != nil {
		_ = flashcardStore.Close()
		return nil, err
	}
	return app, nil
}

// newApplicationWithDeps builds the application around already constructed
// infrastructure.
func newApplicationWithDeps(
	cfg *config.Config,
	logger *slog.Logger,
	flashcardStore store.FlashcardStore,
	provider generation.Provider,
) (*application, error) {
	if logger == nil {
		logger = slog.Default()
	}

	client, err := generation.NewClient(provider, cfg.LLM, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize completion client: %w", err)
	}

	chatService, err := service.NewChatService(client, service.NewTriggerPhraseClassifier(service.DefaultTriggerPhrase), logger)
	if err != nil {
		return nil, err
	}

	flashcardService, err := service.NewFlashcardService(flashcardStore, logger)
	if err != nil {
		return nil, err
	}

	return &application{
		config:           cfg,
		logger:           logger,
		flashcardStore:   flashcardStore,
		provider:         provider,
		chatService:      chatService,
		flashcardService: flashcardService,
	}, nil
}

// cleanup releases the resources held by the application.
func (app *application) cleanup() {
	if app.flashcardStore != nil {
		if err := app.flashcardStore.Close(); err != nil {
			app.logger.Error("failed to close flashcard store", "error", err)
		}
	}
}
