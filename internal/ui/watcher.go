package ui

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/tesserama/internal/watch"
)

// fileChangedMsg reports that the file at path was touched by someone.
type fileChangedMsg struct {
	path string
}

// fileWatcher keeps one watch running on the document's current file and
// restarts it when the document is bound to another path.
type fileWatcher struct {
	ctx      context.Context
	enabled  bool
	debounce time.Duration
	logger   *slog.Logger
	send     func(tea.Msg)

	path   string
	cancel context.CancelFunc
}

func (w *fileWatcher) follow(path string) {
	if w == nil || !w.enabled || w.send == nil || path == w.path {
		return
	}
	w.stop()
	if path == "" {
		return
	}

	ctx, cancel := context.WithCancel(w.ctx)
	w.path = path
	w.cancel = cancel

	send := w.send
	logger := w.logger
	debounce := w.debounce
	go func() {
		err := watch.File(ctx, path, debounce, logger, func(changed string) {
			send(fileChangedMsg{path: changed})
		})
		if err != nil {
			logger.Warn("watch failed", slog.String("path", path), slog.String("error", err.Error()))
		}
	}()
}

func (w *fileWatcher) stop() {
	if w == nil || w.cancel == nil {
		return
	}
	w.cancel()
	w.cancel = nil
	w.path = ""
}
