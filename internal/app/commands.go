package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/five82/tesserama/internal/config"
	"github.com/five82/tesserama/internal/csvfile"
	"github.com/five82/tesserama/internal/document"
	"github.com/five82/tesserama/internal/export"
	"github.com/five82/tesserama/internal/logtail"
	"github.com/five82/tesserama/internal/records"
)

var (
	// ErrUnknownFormat is returned for export formats other than json and sqlite.
	ErrUnknownFormat = errors.New("unknown export format")
	// ErrNoPeople is returned when a headless insert has no people to record.
	ErrNoPeople = errors.New("people is required")
	// ErrUnknownLevel is returned for log levels slog does not know.
	ErrUnknownLevel = errors.New("unknown log level")
)

// Export formats.
const (
	FormatJSON   = "json"
	FormatSQLite = "sqlite"
)

// ParseColumns parses a comma-separated list of column names such as
// "number,people". An empty list yields nil.
func ParseColumns(list string) ([]records.Column, error) {
	var cols []records.Column
	for name := range strings.SplitSeq(list, ",") {
		if strings.TrimSpace(name) == "" {
			continue
		}
		c, err := records.ParseColumn(name)
		if err != nil {
			return nil, err
		}
		cols = append(cols, c)
	}
	return cols, nil
}

// Search writes every card of file matching needle to w, one CSV line each,
// and returns how many matched. When cols is not empty only those fields are
// printed, in that order.
func Search(cfg config.Config, logger *slog.Logger, file, needle string, cols []records.Column, w io.Writer) (int, error) {
	doc, err := document.Open(file, documentOptions(cfg, logger)...)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", file, err)
	}
	doc.Search(needle)

	for pos := range doc.Len() {
		rec, ok := doc.Row(pos)
		if !ok {
			continue
		}
		if _, err := fmt.Fprintln(w, formatCard(rec, cols)); err != nil {
			return pos, fmt.Errorf("write results: %w", err)
		}
	}
	return doc.Len(), nil
}

func formatCard(rec records.Record, cols []records.Column) string {
	if len(cols) == 0 {
		return csvfile.FormatRecord(rec)
	}
	fields := make([]string, len(cols))
	for i, c := range cols {
		fields[i] = rec.Get(c)
	}
	return csvfile.FormatFields(fields)
}

// NewCard holds the fields a headless insert fills in besides Number and Date.
type NewCard struct {
	People    string
	Signature string
	Flags     string
	ID        string
}

// Insert appends a numbered, dated card to file and saves it.
func Insert(cfg config.Config, logger *slog.Logger, file string, card NewCard) (records.Record, error) {
	// Cards without people are dropped on save.
	if strings.TrimSpace(card.People) == "" {
		return records.Record{}, ErrNoPeople
	}

	doc, err := document.Open(file, documentOptions(cfg, logger)...)
	if err != nil {
		return records.Record{}, fmt.Errorf("open %s: %w", file, err)
	}

	h, _ := doc.InsertRow()
	doc.SetField(h, records.People, card.People)
	doc.SetField(h, records.Signature, card.Signature)
	doc.SetField(h, records.Flags, card.Flags)
	doc.SetField(h, records.ID, card.ID)

	if err := doc.Save(); err != nil {
		return records.Record{}, fmt.Errorf("save %s: %w", file, err)
	}
	rec, _ := doc.Store().Record(h)
	return rec, nil
}

// Export writes the cards of file to out in the given format. An out of "-"
// writes JSON to stdout.
func Export(cfg config.Config, logger *slog.Logger, file, format, out string) (int, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format != FormatJSON && format != FormatSQLite {
		return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	doc, err := document.Open(file, documentOptions(cfg, logger)...)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", file, err)
	}

	var n int
	switch format {
	case FormatSQLite:
		n, err = export.SQLite(doc.Store(), out)
	default:
		n, err = exportJSON(doc.Store(), out)
	}
	if err != nil {
		return 0, fmt.Errorf("export %s: %w", format, err)
	}
	logger.Info("cards exported",
		slog.String("path", doc.Path()),
		slog.String("format", format),
		slog.String("out", out),
		slog.Int("cards", n))
	return n, nil
}

func exportJSON(s *records.Store, out string) (int, error) {
	if out == "-" {
		return export.JSON(os.Stdout, s)
	}
	f, err := os.Create(out)
	if err != nil {
		return 0, err
	}
	n, err := export.JSON(f, s)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return n, err
}

// ShowLog prints the last lines of the configured log file at or above
// level. An empty level uses the configured one.
func ShowLog(cfg config.Config, lines int, level string, w io.Writer) (int, error) {
	minLevel := cfg.SlogLevel()
	if level = strings.TrimSpace(level); level != "" {
		if err := minLevel.UnmarshalText([]byte(level)); err != nil {
			return 0, fmt.Errorf("%w: %q", ErrUnknownLevel, level)
		}
	}

	tail, err := logtail.Read(cfg.LogFile, lines, minLevel)
	if err != nil {
		return 0, err
	}
	for _, line := range tail {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return 0, fmt.Errorf("write log: %w", err)
		}
	}
	return len(tail), nil
}
