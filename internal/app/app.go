package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/five82/tesserama/internal/config"
	"github.com/five82/tesserama/internal/document"
	"github.com/five82/tesserama/internal/prefs"
	"github.com/five82/tesserama/internal/ui"
)

// Options configure the Tesserama application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/tesserama/prefs.toml
	File       string // card file to open; empty reopens the most recent one
}

// Run boots the Tesserama TUI until the user quits or the context is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, closeLog, err := OpenLogFile(cfg.LogFile, cfg.SlogLevel())
	if err != nil {
		return err
	}
	defer closeLog()

	prefsPath := opts.PrefsPath
	if strings.TrimSpace(prefsPath) == "" {
		prefsPath = prefs.DefaultPath()
	}
	userPrefs, _ := prefs.Load(prefsPath)

	doc, err := openDocument(cfg, logger, opts.File, userPrefs)
	if err != nil {
		return err
	}
	if path := doc.Path(); path != "" {
		userPrefs.AddRecent(path)
		if err := prefs.Save(prefsPath, userPrefs); err != nil {
			logger.Warn("save prefs failed", slog.String("path", prefsPath), slog.String("error", err.Error()))
		}
	}

	logger.Info("tesserama started", slog.String("file", doc.Path()), slog.Bool("watch", cfg.Watch))
	defer logger.Info("tesserama stopped")

	return ui.Run(ui.Options{
		Context:   ctx,
		Document:  doc,
		Logger:    logger,
		Prefs:     userPrefs,
		PrefsPath: prefsPath,
		Watch:     cfg.Watch,
	})
}

// openDocument opens file, or the most recent file when none is given. A
// recent file that no longer loads is logged and skipped.
func openDocument(cfg config.Config, logger *slog.Logger, file string, p prefs.Prefs) (*document.Document, error) {
	opts := documentOptions(cfg, logger)

	if strings.TrimSpace(file) != "" {
		doc, err := document.Open(file, opts...)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", file, err)
		}
		return doc, nil
	}

	if recent, ok := p.LastExisting(); ok {
		doc, err := document.Open(recent, opts...)
		if err == nil {
			return doc, nil
		}
		logger.Warn("reopen recent file failed", slog.String("path", recent), slog.String("error", err.Error()))
	}
	return document.New(opts...), nil
}

func documentOptions(cfg config.Config, logger *slog.Logger) []document.Option {
	return []document.Option{
		document.WithLogger(logger),
		document.WithDateLayout(cfg.DateFormat),
	}
}
