package main

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/calumari/jsonedit"
)

// watch opens path, calls show, then reloads the document and calls show
// again every time the file is written. It returns when ctx is done.
//
// The parent directory is watched rather than the file so editors that
// replace the file by renaming keep being followed.
func watch(ctx context.Context, path string, show func(e *jsonedit.Editor) error) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	e, err := jsonedit.Open(abs)
	if err != nil {
		return err
	}
	if err := show(e); err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	slog.DebugContext(ctx, "Watching", "path", abs)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			// A writer may still be halfway through; keep the previous
			// document and wait for the next event.
			if err := e.Reload(abs); err != nil {
				slog.WarnContext(ctx, "Reload failed", "path", abs, "err", err)
				continue
			}
			slog.DebugContext(ctx, "Reloaded", "path", abs, "keys", e.Len())
			if err := show(e); err != nil {
				return err
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.WarnContext(ctx, "Error watching document", "path", abs, "err", err)
		}
	}
}
