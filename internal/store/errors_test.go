package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"generic error", errors.New("some error"), false},
		{"ErrNotFound", ErrNotFound, true},
		{"wrapped ErrNotFound", fmt.Errorf("failed to do something: %w", ErrNotFound), true},
		{"ErrUserNotFound", ErrUserNotFound, true},
		{"ErrDeckNotFound", ErrDeckNotFound, true},
		{"wrapped ErrCardNotFound", fmt.Errorf("lookup: %w", ErrCardNotFound), true},
		{"store error around ErrDeckNotFound", NewStoreError("deck", "get", "missing", ErrDeckNotFound), true},
		{"ErrEmailExists", ErrEmailExists, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, IsNotFoundError(tt.err), tt.name)
	}
}

func TestIsDuplicateError(t *testing.T) {
	t.Parallel()

	assert.True(t, IsDuplicateError(ErrEmailExists))
	assert.True(t, IsDuplicateError(fmt.Errorf("create: %w", ErrDuplicate)))
	assert.False(t, IsDuplicateError(ErrUserNotFound))
	assert.False(t, IsDuplicateError(nil))
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	inner := errors.New("connection reset")
	err := NewStoreError("card", "list", "query failed", inner)

	assert.Equal(t, "list operation on card failed: query failed: connection reset", err.Error())
	assert.ErrorIs(t, err, inner)

	bare := NewStoreError("deck", "create", "invalid title", nil)
	assert.Equal(t, "create operation on deck failed: invalid title", bare.Error())
	assert.Nil(t, bare.Unwrap())
}
