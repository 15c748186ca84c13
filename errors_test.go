package jsonedit

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	t.Run("message includes context and cause", func(t *testing.T) {
		err := newError("open", "doc.json", "", KindNotFound, assert.AnError)
		assert.Equal(t, `open "doc.json": not found: `+assert.AnError.Error(), err.Error())
	})

	t.Run("message for key errors", func(t *testing.T) {
		err := newError("add", "", "k", KindKeyAlreadyExists, nil)
		assert.Equal(t, `add key "k": key already exists`, err.Error())
	})

	t.Run("matches sentinel of same kind only", func(t *testing.T) {
		err := newError("remove", "", "k", KindKeyNotFound, nil)
		assert.ErrorIs(t, err, ErrKeyNotFound)
		assert.NotErrorIs(t, err, ErrNotFound)
		assert.NotErrorIs(t, err, ErrKeyAlreadyExists)
	})

	t.Run("unwraps to cause", func(t *testing.T) {
		err := newError("save", "doc.json", "", KindIO, assert.AnError)
		assert.ErrorIs(t, err, assert.AnError)
		assert.ErrorIs(t, err, ErrIO)
	})

	t.Run("errors.As exposes fields", func(t *testing.T) {
		wrapped := fmt.Errorf("outer: %w", newError("reload", "x.json", "", KindInvalidData, nil))
		var e *Error
		require.True(t, errors.As(wrapped, &e))
		assert.Equal(t, "reload", e.Op)
		assert.Equal(t, "x.json", e.Location)
		assert.Equal(t, KindInvalidData, e.Kind)
	})
}

func TestKindOf(t *testing.T) {
	t.Run("wrapped error", func(t *testing.T) {
		err := fmt.Errorf("ctx: %w", newError("open", "a", "", KindNotFound, nil))
		assert.Equal(t, KindNotFound, KindOf(err))
	})

	t.Run("sentinel", func(t *testing.T) {
		assert.Equal(t, KindIO, KindOf(ErrIO))
		assert.Equal(t, KindKeyNotFound, KindOf(fmt.Errorf("x: %w", ErrKeyNotFound)))
	})

	t.Run("foreign and nil errors", func(t *testing.T) {
		assert.Equal(t, KindUnknown, KindOf(assert.AnError))
		assert.Equal(t, KindUnknown, KindOf(nil))
	})
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "invalid data", KindInvalidData.String())
	assert.Equal(t, "i/o error", KindIO.String())
	assert.Equal(t, "unknown error (42)", Kind(42).String())
}
