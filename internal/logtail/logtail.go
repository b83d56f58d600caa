package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Read returns at most maxLines from the end of the log file at path,
// keeping only lines logged at minLevel or above. A missing file reads as
// empty.
func Read(path string, maxLines int, minLevel slog.Level) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	lines, err := Tail(file, maxLines, minLevel)
	if err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}
	return lines, nil
}

// Tail keeps the last maxLines matching lines of r in a ring.
func Tail(r io.Reader, maxLines int, minLevel slog.Level) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	ring := make([]string, maxLines)
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count, idx := 0, 0
	for scanner.Scan() {
		line := scanner.Text()
		if lvl, ok := Level(line); ok && lvl < minLevel {
			continue
		}
		ring[idx] = line
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := range count {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Level extracts the level=... attribute written by slog's text handler.
// Lines without one (panics, stray output) report false and are always kept.
func Level(line string) (slog.Level, bool) {
	_, rest, found := strings.Cut(line, "level=")
	if !found {
		return 0, false
	}
	value, _, _ := strings.Cut(rest, " ")
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(value)); err != nil {
		return 0, false
	}
	return lvl, true
}
