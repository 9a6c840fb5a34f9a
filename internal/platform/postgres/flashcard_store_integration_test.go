//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/cardchat/internal/domain"
	"github.com/phrazzld/cardchat/internal/platform/postgres"
	"github.com/phrazzld/cardchat/internal/store"
	"github.com/phrazzld/cardchat/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresFlashcardStore_RoundTrip(t *testing.T) {
	t.Parallel()

	db := testdb.GetTestDBWithT(t)

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		s := postgres.NewPostgresFlashcardStore(tx, nil)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		before, err := s.ListSummaries(ctx)
		require.NoError(t, err)

		set, err := domain.NewFlashcardSet("Integration Topic", []domain.FlashcardPair{
			{Term: "Zeta", Definition: "comes last"},
			{Term: "Alpha", Definition: "comes first"},
		})
		require.NoError(t, err)
		require.NoError(t, s.Create(ctx, set))
		require.True(t, set.IsPersisted())

		got, err := s.GetByID(ctx, set.ID)
		require.NoError(t, err)
		assert.Equal(t, set.Topic, got.Topic)
		assert.Equal(t, set.Cards, got.Cards)
		assert.WithinDuration(t, set.CreatedAt, got.CreatedAt, time.Millisecond)

		after, err := s.ListSummaries(ctx)
		require.NoError(t, err)
		require.Len(t, after, len(before)+1)
		assert.Equal(t, domain.FlashcardSummary{ID: set.ID, Topic: set.Topic}, after[len(after)-1])

		_, err = s.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, store.ErrFlashcardSetNotFound)
	})
}
