package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "generic error", err: errors.New("some error"), expected: false},
		{name: "ErrNotFound", err: ErrNotFound, expected: true},
		{name: "ErrFlashcardSetNotFound", err: ErrFlashcardSetNotFound, expected: true},
		{
			name:     "wrapped ErrFlashcardSetNotFound",
			err:      fmt.Errorf("failed to get set: %w", ErrFlashcardSetNotFound),
			expected: true,
		},
		{
			name:     "StoreError wrapping ErrNotFound",
			err:      NewStoreError("flashcard_set", "get", "lookup failed", ErrNotFound),
			expected: true,
		},
		{name: "ErrDuplicate", err: ErrDuplicate, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsNotFoundError(tt.err))
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	assert.True(t, IsDuplicateError(ErrDuplicate))
	assert.True(t, IsDuplicateError(fmt.Errorf("insert: %w", ErrDuplicate)))
	assert.False(t, IsDuplicateError(ErrNotFound))
	assert.False(t, IsDuplicateError(nil))
}

func TestStoreError(t *testing.T) {
	t.Run("with wrapped error", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := NewStoreError("flashcard_set", "create", "insert failed", cause)

		assert.Equal(t,
			"create operation on flashcard_set failed: insert failed: connection reset",
			err.Error())
		assert.ErrorIs(t, err, cause)

		var storeErr *StoreError
		assert.True(t, errors.As(fmt.Errorf("outer: %w", err), &storeErr))
		assert.Equal(t, "create", storeErr.Operation)
	})

	t.Run("without wrapped error", func(t *testing.T) {
		err := NewStoreError("flashcard_set", "list", "scan failed", nil)

		assert.Equal(t, "list operation on flashcard_set failed: scan failed", err.Error())
		assert.Nil(t, err.Unwrap())
	})
}
