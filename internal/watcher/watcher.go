// Package watcher re-runs generation when the input JSON file changes.
package watcher

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mcncl/dartyper/internal/errors"
)

// DefaultDebounce groups the burst of events editors emit for one save.
const DefaultDebounce = 100 * time.Millisecond

// Watcher calls OnChange after the watched file is written, created or renamed.
type Watcher struct {
	Path     string
	Debounce time.Duration
	OnChange func(ctx context.Context) error
	Logger   *slog.Logger
}

// New creates a Watcher for path.
func New(path string, onChange func(ctx context.Context) error) *Watcher {
	return &Watcher{
		Path:     path,
		Debounce: DefaultDebounce,
		OnChange: onChange,
		Logger:   slog.Default(),
	}
}

// Watch runs a default Watcher for path until ctx is done.
func Watch(ctx context.Context, path string, onChange func(ctx context.Context) error) error {
	return New(path, onChange).Run(ctx)
}

// Run blocks until ctx is done or the underlying watcher fails.
// The parent directory is watched so that editors replacing the file by
// rename keep being tracked. A failing OnChange is logged, not returned.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.NewWatchError("failed to create file watcher", err)
	}
	defer func() { _ = fsw.Close() }()

	target, err := filepath.Abs(w.Path)
	if err != nil {
		return errors.NewWatchError("failed to resolve input path", err)
	}
	if err := fsw.Add(filepath.Dir(target)); err != nil {
		return errors.NewWatchError("failed to watch input directory", err)
	}
	w.Logger.Debug("watching input file", "path", target)

	timer := time.NewTimer(w.Debounce)
	if !timer.Stop() {
		<-timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.Logger.Debug("input changed", "path", event.Name, "op", event.Op.String())
			timer.Reset(w.Debounce)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			return errors.NewWatchError("file watcher failed", err)
		case <-timer.C:
			if err := w.OnChange(ctx); err != nil {
				w.Logger.Error("regeneration failed", "error", err)
			}
		}
	}
}
