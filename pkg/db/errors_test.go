package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_IsMatchesByKind(t *testing.T) {
	err := NewError(KindNotFound, "camp %s not found", "camp-9")

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrForbidden)
	assert.Equal(t, "camp camp-9 not found", err.Error())
}

func TestError_WrappedStillMatches(t *testing.T) {
	err := fmt.Errorf("select camp: %w", ErrNoCapacity)

	assert.ErrorIs(t, err, ErrNoCapacity)
	assert.Equal(t, KindNoCapacity, KindOf(err))
}

func TestBackendError_UnwrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := BackendError("failed to query camps", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, KindBackend, KindOf(err))
	assert.Equal(t, "failed to query camps: connection reset", err.Error())
}

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"nil", nil, ""},
		{"sentinel", ErrAlreadyReserved, KindAlreadyReserved},
		{"plain error", errors.New("boom"), KindBackend},
		{"custom message", NewError(KindInvalidInput, "name is required"), KindInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}
