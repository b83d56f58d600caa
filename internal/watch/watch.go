// Package watch reports changes made to the open card file by other programs.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events an editor's save produces.
const DefaultDebounce = 250 * time.Millisecond

// Callback is invoked once per debounced burst of changes to the file.
type Callback func(path string)

// File watches the directory holding path and calls cb after the file is
// written, created, renamed or removed. It blocks until ctx is cancelled.
//
// The parent directory is watched instead of the file itself so that atomic
// saves (write to a temp file, then rename) keep being observed.
func File(ctx context.Context, path string, debounce time.Duration, logger *slog.Logger, cb Callback) error {
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}
	logger.Info("watcher: started", slog.String("path", abs))

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped", slog.String("path", abs))
			return nil

		case <-fire:
			fire = nil
			logger.Debug("watcher: file changed", slog.String("path", abs))
			if cb != nil {
				cb(abs)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
