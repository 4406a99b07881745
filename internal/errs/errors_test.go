package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_Message(t *testing.T) {
	plain := New(ErrKindNotFound, "table missing")
	assert.Equal(t, "[not_found] table missing", plain.Error())

	cause := errors.New("connection reset")
	wrapped := Wrap(ErrKindConnectionFailed, "ping failed", cause)
	assert.Equal(t, "[connection_failed] ping failed: connection reset", wrapped.Error())
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(ErrKindQueryFailed, "query failed", cause)

	assert.ErrorIs(t, err, cause)
}

func TestPredicates(t *testing.T) {
	tests := []struct {
		kind ErrKind
		pred func(error) bool
	}{
		{ErrKindNotFound, IsNotFound},
		{ErrKindTimeout, IsTimeout},
		{ErrKindConnectionFailed, IsConnectionFailed},
		{ErrKindQueryFailed, IsQueryFailed},
		{ErrKindInvalidInput, IsInvalidInput},
		{ErrKindPermissionDenied, IsPermissionDenied},
		{ErrKindConsistency, IsConsistency},
		{ErrKindMalformedInput, IsMalformedInput},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			err := New(tt.kind, "test")
			assert.True(t, tt.pred(err))

			// predicates look through wrapping layers
			assert.True(t, tt.pred(fmt.Errorf("context: %w", err)))

			// and reject everything else
			assert.False(t, tt.pred(errors.New("plain error")))
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(ErrKindConsistency, "table %s declares column %q twice", "orders", "id")
	require.NotNil(t, err)
	assert.Equal(t, ErrKindConsistency, err.Kind)
	assert.Contains(t, err.Error(), `column "id" twice`)
}
