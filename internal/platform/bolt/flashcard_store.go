// Package bolt provides an embedded, single-file implementation of
// store.FlashcardStore on top of bbolt, for running without a database
// server.
//
// Sets live in the flashcard_sets bucket as JSON documents keyed by an
// 8-byte big-endian sequence number, so a cursor walk returns them in
// insertion order. A second bucket maps set IDs to their sequence keys.
package bolt

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/phrazzld/cardchat/internal/domain"
	"github.com/phrazzld/cardchat/internal/platform/logger"
	"github.com/phrazzld/cardchat/internal/store"
)

var (
	setsBucket = []byte("flashcard_sets")
	idsBucket  = []byte("flashcard_set_ids")
)

const openTimeout = 2 * time.Second

// record is the stored document for one set.
type record struct {
	ID        uuid.UUID              `json:"id"`
	Topic     string                 `json:"topic"`
	Cards     []domain.FlashcardPair `json:"cards"`
	CreatedAt time.Time              `json:"created_at"`
}

// FlashcardStore implements store.FlashcardStore using bbolt.
type FlashcardStore struct {
	db     *bbolt.DB
	logger *slog.Logger

	newID func() uuid.UUID
	now   func() time.Time
}

// Ensure FlashcardStore implements store.FlashcardStore interface
var _ store.FlashcardStore = (*FlashcardStore)(nil)

// Open opens or creates the bbolt file at path and makes sure its buckets exist.
func Open(path string, logger *slog.Logger) (*FlashcardStore, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open bolt database %s: %v", store.ErrStoreUnavailable, path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{setsBucket, idsBucket} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: %v", store.ErrStoreUnavailable, err)
	}

	return &FlashcardStore{
		db:     db,
		logger: logger.With(slog.String("component", "flashcard_store")),
		newID:  uuid.New,
		now:    time.Now,
	}, nil
}

// Create implements store.FlashcardStore.Create.
func (s *FlashcardStore) Create(ctx context.Context, set *domain.FlashcardSet) error {
	return s.CreateAll(ctx, []*domain.FlashcardSet{set})
}

// CreateAll implements store.FlashcardStore.CreateAll in a single bbolt
// write transaction.
func (s *FlashcardStore) CreateAll(ctx context.Context, sets []*domain.FlashcardSet) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for _, set := range sets {
		if err := store.PrepareForCreate(set, s.newID, s.now); err != nil {
			log.Warn("flashcard set validation failed during create", slog.String("error", err.Error()))
			resetIdentity(sets)
			return err
		}
	}

	if err := ctx.Err(); err != nil {
		resetIdentity(sets)
		return fmt.Errorf("%w: %v", store.ErrStoreUnavailable, err)
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(setsBucket)
		ids := tx.Bucket(idsBucket)

		for _, set := range sets {
			doc, err := json.Marshal(record{
				ID:        set.ID,
				Topic:     set.Topic,
				Cards:     set.Cards,
				CreatedAt: set.CreatedAt,
			})
			if err != nil {
				return fmt.Errorf("%w: failed to encode flashcard set: %v", store.ErrInvalidEntity, err)
			}

			seq, err := bucket.NextSequence()
			if err != nil {
				return err
			}
			key := seqKey(seq)

			if ids.Get(set.ID[:]) != nil {
				return fmt.Errorf("%w: flashcard set %s", store.ErrDuplicate, set.ID)
			}
			if err := bucket.Put(key, doc); err != nil {
				return err
			}
			if err := ids.Put(set.ID[:], key); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to store flashcard sets", slog.String("error", err.Error()))
		resetIdentity(sets)
		if !errors.Is(err, store.ErrInvalidEntity) && !errors.Is(err, store.ErrDuplicate) {
			err = fmt.Errorf("%w: %v", store.ErrStoreUnavailable, err)
		}
		return store.NewStoreError("flashcard_set", "create", "write failed", err)
	}

	log.Debug("flashcard sets created", slog.Int("count", len(sets)))
	return nil
}

// ListSummaries implements store.FlashcardStore.ListSummaries.
func (s *FlashcardStore) ListSummaries(ctx context.Context) ([]domain.FlashcardSummary, error) {
	summaries := make([]domain.FlashcardSummary, 0)

	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(setsBucket).ForEach(func(_, v []byte) error {
			var summary struct {
				ID    uuid.UUID `json:"id"`
				Topic string    `json:"topic"`
			}
			if err := json.Unmarshal(v, &summary); err != nil {
				return err
			}
			summaries = append(summaries, domain.FlashcardSummary{ID: summary.ID, Topic: summary.Topic})
			return nil
		})
	})
	if err != nil {
		return nil, store.NewStoreError("flashcard_set", "list", "read failed",
			fmt.Errorf("%w: %v", store.ErrStoreUnavailable, err))
	}

	return summaries, nil
}

// GetByID implements store.FlashcardStore.GetByID.
func (s *FlashcardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.FlashcardSet, error) {
	var (
		rec   record
		found bool
	)

	err := s.db.View(func(tx *bbolt.Tx) error {
		key := tx.Bucket(idsBucket).Get(id[:])
		if key == nil {
			return nil
		}
		doc := tx.Bucket(setsBucket).Get(key)
		if doc == nil {
			return nil
		}
		found = true
		// doc is only valid inside the transaction; Unmarshal copies it.
		return json.Unmarshal(doc, &rec)
	})
	if err != nil {
		return nil, store.NewStoreError("flashcard_set", "get", "read failed",
			fmt.Errorf("%w: %v", store.ErrStoreUnavailable, err))
	}
	if !found {
		logger.FromContextOrDefault(ctx, s.logger).Debug("flashcard set not found",
			slog.String("set_id", id.String()))
		return nil, store.ErrFlashcardSetNotFound
	}

	return &domain.FlashcardSet{
		ID:        rec.ID,
		Topic:     rec.Topic,
		Cards:     rec.Cards,
		CreatedAt: rec.CreatedAt.UTC(),
	}, nil
}

// Ping implements store.FlashcardStore.Ping.
func (s *FlashcardStore) Ping(ctx context.Context) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket(setsBucket) == nil {
			return fmt.Errorf("%w: bucket missing", store.ErrStoreUnavailable)
		}
		return nil
	})
}

// Close implements store.FlashcardStore.Close.
func (s *FlashcardStore) Close() error {
	return s.db.Close()
}

func seqKey(seq uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, seq)
	return key
}

func resetIdentity(sets []*domain.FlashcardSet) {
	for _, set := range sets {
		if set != nil {
			set.ID = uuid.Nil
			set.CreatedAt = time.Time{}
		}
	}
}
