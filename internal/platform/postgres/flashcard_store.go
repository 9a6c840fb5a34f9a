package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/cardchat/internal/domain"
	"github.com/phrazzld/cardchat/internal/platform/logger"
	"github.com/phrazzld/cardchat/internal/store"
)

const entityFlashcardSet = "flashcard_set"

// PostgresFlashcardStore implements the store.FlashcardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresFlashcardStore struct {
	db     store.DBTX
	logger *slog.Logger

	newID func() uuid.UUID
	now   func() time.Time
}

// Ensure PostgresFlashcardStore implements store.FlashcardStore interface
var _ store.FlashcardStore = (*PostgresFlashcardStore)(nil)

// NewPostgresFlashcardStore creates a new PostgreSQL implementation of the FlashcardStore interface.
// It accepts a database connection or transaction. When db is a *sql.DB the
// store owns it and Close closes it.
// If logger is nil, a default logger will be used.
func NewPostgresFlashcardStore(db store.DBTX, logger *slog.Logger) *PostgresFlashcardStore {
	if db == nil {
		// ALLOW-PANIC: constructor misuse
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresFlashcardStore{
		db:     db,
		logger: logger.With(slog.String("component", "flashcard_store")),
		newID:  uuid.New,
		now:    time.Now,
	}
}

// WithTx returns a store that runs its queries inside tx.
func (s *PostgresFlashcardStore) WithTx(tx *sql.Tx) *PostgresFlashcardStore {
	return &PostgresFlashcardStore{
		db:     tx,
		logger: s.logger,
		newID:  s.newID,
		now:    s.now,
	}
}

// Create implements store.FlashcardStore.Create.
func (s *PostgresFlashcardStore) Create(ctx context.Context, set *domain.FlashcardSet) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := store.PrepareForCreate(set, s.newID, s.now); err != nil {
		log.Warn("flashcard set validation failed during create", slog.String("error", err.Error()))
		return err
	}

	if err := s.insert(ctx, set); err != nil {
		log.Error("failed to insert flashcard set",
			slog.String("error", err.Error()),
			slog.String("set_id", set.ID.String()))
		set.ID = uuid.Nil
		set.CreatedAt = time.Time{}
		return store.NewStoreError(entityFlashcardSet, "create", "insert failed", err)
	}

	log.Debug("flashcard set created",
		slog.String("set_id", set.ID.String()),
		slog.Int("card_count", len(set.Cards)))
	return nil
}

func (s *PostgresFlashcardStore) insert(ctx context.Context, set *domain.FlashcardSet) error {
	cards, err := json.Marshal(set.Cards)
	if err != nil {
		return fmt.Errorf("%w: failed to encode cards: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO flashcard_sets (id, topic, cards, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err = s.db.ExecContext(ctx, query, set.ID, set.Topic, cards, set.CreatedAt)
	return MapError(err)
}

// CreateAll implements store.FlashcardStore.CreateAll. When the store runs on
// a connection pool the inserts share one transaction; inside a caller's
// transaction they simply join it.
func (s *PostgresFlashcardStore) CreateAll(ctx context.Context, sets []*domain.FlashcardSet) error {
	db, ok := s.db.(*sql.DB)
	if !ok {
		for _, set := range sets {
			if err := s.Create(ctx, set); err != nil {
				return err
			}
		}
		return nil
	}

	err := store.RunInTransaction(ctx, db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.WithTx(tx)
		for _, set := range sets {
			if err := txStore.Create(ctx, set); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		// Nothing was committed, so no set keeps an identity.
		for _, set := range sets {
			if set != nil {
				set.ID = uuid.Nil
				set.CreatedAt = time.Time{}
			}
		}
		if errors.Is(err, store.ErrTransactionFailed) {
			return fmt.Errorf("%w: %w", store.ErrStoreUnavailable, err)
		}
	}
	return err
}

// ListSummaries implements store.FlashcardStore.ListSummaries.
func (s *PostgresFlashcardStore) ListSummaries(ctx context.Context) ([]domain.FlashcardSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `SELECT id, topic FROM flashcard_sets ORDER BY seq`)
	if err != nil {
		log.Error("failed to list flashcard sets", slog.String("error", err.Error()))
		return nil, store.NewStoreError(entityFlashcardSet, "list", "query failed", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	summaries := make([]domain.FlashcardSummary, 0)
	for rows.Next() {
		var summary domain.FlashcardSummary
		if err := rows.Scan(&summary.ID, &summary.Topic); err != nil {
			return nil, store.NewStoreError(entityFlashcardSet, "list", "scan failed", MapError(err))
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError(entityFlashcardSet, "list", "iteration failed", MapError(err))
	}

	return summaries, nil
}

// GetByID implements store.FlashcardStore.GetByID.
func (s *PostgresFlashcardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.FlashcardSet, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, topic, cards, created_at
		FROM flashcard_sets
		WHERE id = $1
	`

	var (
		set   domain.FlashcardSet
		cards []byte
	)
	err := s.db.QueryRowContext(ctx, query, id).Scan(&set.ID, &set.Topic, &cards, &set.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("flashcard set not found", slog.String("set_id", id.String()))
			return nil, store.ErrFlashcardSetNotFound
		}
		log.Error("failed to get flashcard set",
			slog.String("error", err.Error()),
			slog.String("set_id", id.String()))
		return nil, store.NewStoreError(entityFlashcardSet, "get", "query failed", MapError(err))
	}

	if err := json.Unmarshal(cards, &set.Cards); err != nil {
		log.Error("stored cards are not valid JSON",
			slog.String("error", err.Error()),
			slog.String("set_id", id.String()))
		return nil, store.NewStoreError(entityFlashcardSet, "get", "decode cards failed",
			fmt.Errorf("%w: %v", store.ErrStoreUnavailable, err))
	}

	set.CreatedAt = set.CreatedAt.UTC()
	return &set, nil
}

type pinger interface {
	PingContext(ctx context.Context) error
}

// Ping implements store.FlashcardStore.Ping.
func (s *PostgresFlashcardStore) Ping(ctx context.Context) error {
	p, ok := s.db.(pinger)
	if !ok {
		return nil
	}
	if err := p.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %v", store.ErrStoreUnavailable, err)
	}
	return nil
}

// Close implements store.FlashcardStore.Close.
func (s *PostgresFlashcardStore) Close() error {
	if db, ok := s.db.(*sql.DB); ok {
		return db.Close()
	}
	return nil
}
