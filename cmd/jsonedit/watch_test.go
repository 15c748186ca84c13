package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calumari/jsonedit"
)

func TestWatch(t *testing.T) {
	t.Run("reloads on write", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "doc.json", `{"v":1}`)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		docs := make(chan jsonedit.D, 16)
		done := make(chan error, 1)
		go func() {
			done <- watch(ctx, path, func(e *jsonedit.Editor) error {
				select {
				case docs <- e.Document():
				case <-ctx.Done():
				}
				return nil
			})
		}()

		select {
		case d := <-docs:
			assert.Equal(t, jsonedit.D{{Key: "v", Value: int64(1)}}, d)
		case <-time.After(5 * time.Second):
			t.Fatal("initial document not shown")
		}

		// The watcher may not be registered yet; keep writing until a reload
		// shows up.
		want := jsonedit.D{{Key: "v", Value: int64(2)}}
		deadline := time.After(5 * time.Second)
		tick := time.NewTicker(50 * time.Millisecond)
		defer tick.Stop()
	loop:
		for {
			select {
			case d := <-docs:
				if assert.ObjectsAreEqual(want, d) {
					break loop
				}
			case <-tick.C:
				require.NoError(t, os.WriteFile(path, []byte(`{"v":2}`), 0o600))
			case <-deadline:
				t.Fatal("reload not observed")
			}
		}

		cancel()
		select {
		case err := <-done:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(5 * time.Second):
			t.Fatal("watch did not stop")
		}
	})

	t.Run("missing file fails", func(t *testing.T) {
		err := watch(context.Background(), filepath.Join(t.TempDir(), "missing.json"), func(*jsonedit.Editor) error { return nil })
		assert.ErrorIs(t, err, jsonedit.ErrNotFound)
	})
}
