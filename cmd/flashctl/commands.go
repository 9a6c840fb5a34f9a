package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/phrazzld/cardchat/internal/config"
	"github.com/phrazzld/cardchat/internal/domain"
	"github.com/phrazzld/cardchat/internal/generation"
	"github.com/phrazzld/cardchat/internal/platform"
	"github.com/phrazzld/cardchat/internal/platform/postgres"
	"github.com/phrazzld/cardchat/internal/service"
	"github.com/phrazzld/cardchat/internal/store"
)

// ErrNoDatabaseURL is returned when a store command runs without a URL.
var ErrNoDatabaseURL = errors.New("no database url: set --database-url or DATABASE_URL")

// runner executes parsed subcommands.
type runner struct {
	cli    *cliArgs
	config *CliConfig
	logger *slog.Logger
	out    io.Writer
}

// openStore opens the store named by --database-url, migrating PostgreSQL
// schemas first.
func (r *runner) openStore(ctx context.Context) (store.FlashcardStore, error) {
	if r.cli.DatabaseURL == "" {
		return nil, ErrNoDatabaseURL
	}
	return platform.OpenStore(ctx, config.DatabaseConfig{URL: r.cli.DatabaseURL, AutoMigrate: true}, r.logger)
}

// withFlashcards runs fn against a FlashcardService backed by the configured
// store and closes the store afterwards.
func (r *runner) withFlashcards(ctx context.Context, fn func(store.FlashcardStore, service.FlashcardService) error) (err error) {
	flashcardStore, err := r.openStore(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := flashcardStore.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	flashcardService, err := service.NewFlashcardService(flashcardStore, r.logger)
	if err != nil {
		return err
	}
	return fn(flashcardStore, flashcardService)
}

func (r *runner) migrate(ctx context.Context, command string) error {
	if r.cli.DatabaseURL == "" {
		return ErrNoDatabaseURL
	}

	kind, err := platform.StoreKind(r.cli.DatabaseURL)
	if err != nil {
		return err
	}
	if kind != platform.SchemePostgres {
		return fmt.Errorf("migrations apply to postgres stores only, got %s", kind)
	}

	db, err := postgres.Open(ctx, r.cli.DatabaseURL)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	if err := postgres.Migrate(ctx, db, command, r.logger); err != nil {
		return err
	}

	_, err = fmt.Fprintf(r.out, "migrate %s: done\n", command)
	return err
}

// seedSets returns the sample sets inserted by the seed command.
func seedSets() []*domain.FlashcardSet {
	basics := func() []domain.FlashcardPair {
		return []domain.FlashcardPair{
			{Term: "Tag", Definition: "An HTML element used to define content."},
			{Term: "Attribute", Definition: "Provides additional information about an HTML element."},
			{Term: "DOM", Definition: "The Document Object Model represents the page's structure as objects."},
		}
	}

	return []*domain.FlashcardSet{
		{Topic: "JavaScript Basics", Cards: basics()},
		{Topic: "HTML Basics", Cards: basics()},
	}
}

func (r *runner) seed(ctx context.Context) error {
	return r.withFlashcards(ctx, func(flashcardStore store.FlashcardStore, _ service.FlashcardService) error {
		sets := seedSets()
		if err := flashcardStore.CreateAll(ctx, sets); err != nil {
			return fmt.Errorf("failed to seed flashcard sets: %w", err)
		}

		for _, set := range sets {
			if _, err := fmt.Fprintf(r.out, "seeded %s\t%s\n", set.ID, set.Topic); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *runner) list(ctx context.Context) error {
	return r.withFlashcards(ctx, func(_ store.FlashcardStore, flashcards service.FlashcardService) error {
		summaries, err := flashcards.List(ctx)
		if err != nil {
			return err
		}

		tw := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTOPIC")
		for _, summary := range summaries {
			fmt.Fprintf(tw, "%s\t%s\n", summary.ID, summary.Topic)
		}
		return tw.Flush()
	})
}

func (r *runner) show(ctx context.Context, rawID string, asJSON bool) error {
	return r.withFlashcards(ctx, func(_ store.FlashcardStore, flashcards service.FlashcardService) error {
		set, err := flashcards.Get(ctx, rawID)
		if err != nil {
			return err
		}
		return r.printSet(set, asJSON)
	})
}

func (r *runner) generate(ctx context.Context, topic string, save bool) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	provider, err := r.config.NewProvider(ctx, cfg.LLM, r.logger)
	if err != nil {
		return err
	}

	client, err := generation.NewClient(provider, cfg.LLM, r.logger)
	if err != nil {
		return err
	}

	raw, err := client.GenerateFlashcards(ctx, topic)
	if err != nil {
		return err
	}

	pairs, err := generation.Extract(raw)
	if err != nil {
		return err
	}

	if !save {
		set, err := domain.NewFlashcardSet(topic, pairs)
		if err != nil {
			return err
		}
		return r.printSet(set, false)
	}

	if r.cli.DatabaseURL == "" {
		r.cli.DatabaseURL = cfg.Database.URL
	}
	return r.withFlashcards(ctx, func(_ store.FlashcardStore, flashcards service.FlashcardService) error {
		set, err := flashcards.Save(ctx, topic, pairs)
		if err != nil {
			return err
		}
		return r.printSet(set, false)
	})
}

func (r *runner) printSet(set *domain.FlashcardSet, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "  ")
		return enc.Encode(set)
	}

	tw := tabwriter.NewWriter(r.out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Topic:\t%s\n", set.Topic)
	if set.IsPersisted() {
		fmt.Fprintf(tw, "ID:\t%s\n", set.ID)
		fmt.Fprintf(tw, "Created:\t%s\n", set.CreatedAt.Format(time.RFC3339))
	}
	fmt.Fprintln(tw)
	for i, card := range set.Cards {
		fmt.Fprintf(tw, "%d.\t%s\t%s\n", i+1, card.Term, card.Definition)
	}
	return tw.Flush()
}
