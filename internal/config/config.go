package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	toml "github.com/pelletier/go-toml/v2"
)

// Config holds the settings Tesserama reads at startup.
type Config struct {
	LogFile    string
	LogLevel   string
	DateFormat string
	Watch      bool
}

const (
	defaultConfigPath = "~/.config/tesserama/config.toml"
	defaultLogFile    = "~/.local/state/tesserama/tesserama.log"
	defaultLogLevel   = "info"
	defaultDateFormat = "02/01/06"
)

var logLevels = []any{"debug", "info", "warn", "error"}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		LogFile:    mustExpand(defaultLogFile),
		LogLevel:   defaultLogLevel,
		DateFormat: defaultDateFormat,
		Watch:      true,
	}
}

// Load locates and parses the config file, falling back to defaults when missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		LogFile    string `toml:"log_file"`
		LogLevel   string `toml:"log_level"`
		DateFormat string `toml:"date_format"`
		Watch      *bool  `toml:"watch"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if v := strings.TrimSpace(raw.LogFile); v != "" {
		cfg.LogFile = mustExpand(v)
	}
	if v := strings.ToLower(strings.TrimSpace(raw.LogLevel)); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(raw.DateFormat); v != "" {
		cfg.DateFormat = v
	}
	if raw.Watch != nil {
		cfg.Watch = *raw.Watch
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Validate checks field values.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.LogFile, validation.Required),
		validation.Field(&c.LogLevel, validation.Required, validation.In(logLevels...)),
		validation.Field(&c.DateFormat, validation.Required),
	)
}

// SlogLevel maps LogLevel onto a slog level. Unknown values mean info.
func (c Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ExpandPath resolves a leading ~ and makes path absolute.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
