// Package prefs keeps the settings Tesserama changes on its own behalf: the
// colour theme and the recently opened card files. They live apart from the
// hand-edited config in ~/.config/tesserama/prefs.toml.
package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/five82/tesserama/internal/config"
)

// Prefs holds user preferences for Tesserama.
type Prefs struct {
	Theme  string   `toml:"theme"`
	Recent []string `toml:"recent"` // most recent first
}

const (
	defaultPrefsPath = "~/.config/tesserama/prefs.toml"
	defaultTheme     = "Nightfox"

	// MaxRecent caps the recent files list.
	MaxRecent = 10
)

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Load reads preferences from path. Preferences are never worth failing
// over: a missing, unreadable or corrupt file yields the defaults.
func Load(path string) (Prefs, error) {
	p := Prefs{Theme: defaultTheme}

	resolved, err := resolvePath(path)
	if err != nil {
		return p, nil
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		return p, nil
	}
	if err := toml.Unmarshal(data, &p); err != nil {
		return Prefs{Theme: defaultTheme}, nil
	}

	if strings.TrimSpace(p.Theme) == "" {
		p.Theme = defaultTheme
	}
	p.Recent = normalizeRecent(p.Recent)
	return p, nil
}

// Save writes preferences to path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	data, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := os.WriteFile(resolved, data, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

// AddRecent moves path to the front of the recent files list.
func (p *Prefs) AddRecent(path string) {
	p.Recent = normalizeRecent(append([]string{path}, p.Recent...))
}

// LastExisting returns the most recent file that still exists.
func (p Prefs) LastExisting() (string, bool) {
	for _, path := range p.Recent {
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, true
		}
	}
	return "", false
}

func normalizeRecent(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, min(len(paths), MaxRecent))
	for _, path := range paths {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		if _, dup := seen[path]; dup {
			continue
		}
		seen[path] = struct{}{}
		out = append(out, path)
		if len(out) == MaxRecent {
			break
		}
	}
	return out
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultPrefsPath
	}
	return config.ExpandPath(path)
}
