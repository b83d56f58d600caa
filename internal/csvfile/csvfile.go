// Package csvfile reads and writes membership card files.
//
// The format is comma separated text with no header row and one record per
// line, fields in Date, Number, People, Signature, Flags, ID order. Files from
// older versions carry fewer fields per line; the missing trailing fields load
// as empty strings. Records whose People field is empty are not written.
package csvfile

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/five82/tesserama/internal/checksum"
	"github.com/five82/tesserama/internal/records"
)

var (
	// ErrOpen reports that a file could not be opened for reading or writing.
	ErrOpen = errors.New("open records file")
	// ErrWrite reports that writing records failed part way.
	ErrWrite = errors.New("write records file")
)

// Stats counts what a read or write did with each record.
type Stats struct {
	Records   int // records loaded or written
	Skipped   int // unparseable input records dropped on read
	Blank     int // records without people omitted on write
	Malformed int // in-memory rows that could not be read on write
}

// Result describes a whole-file load or save.
type Result struct {
	Stats
	Checksum string // digest of the bytes read or written
}

// Read parses records from r into a new store. A quote inside an unquoted
// field is kept as a literal character, so names like O"Neil load and
// survive the next save. Records that still cannot be parsed are skipped
// and counted; only I/O failures abort the read.
func Read(r io.Reader) (*records.Store, Stats, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.ReuseRecord = true

	store := records.NewStore()
	var stats Stats
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				stats.Skipped++
				continue
			}
			return nil, stats, fmt.Errorf("read records: %w", err)
		}
		store.AppendRecord(records.NewRecord(fields))
		stats.Records++
	}
	return store, stats, nil
}

// Write serializes every non-blank row of s to w in store order.
//
// A row with any unreadable field is never partially emitted: it is counted
// as malformed and skipped, and writing continues with the next row.
func Write(w io.Writer, s *records.Store) (Stats, error) {
	writer := csv.NewWriter(w)
	var stats Stats
	fields := make([]string, records.Size)

	for h := range s.All() {
		complete := true
		for i := range records.Size {
			v, ok := s.Field(h, records.ColumnFromIndex(i))
			if !ok {
				complete = false
				break
			}
			fields[i] = v
		}
		if !complete {
			stats.Malformed++
			continue
		}
		if fields[records.People] == "" {
			stats.Blank++
			continue
		}
		if err := writer.Write(fields); err != nil {
			return stats, fmt.Errorf("%w: %w", ErrWrite, err)
		}
		stats.Records++
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return stats, fmt.Errorf("%w: %w", ErrWrite, err)
	}
	return stats, nil
}

// Load reads the whole file at path.
func Load(path string) (*records.Store, Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, Result{}, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	store, stats, err := Read(bytes.NewReader(data))
	if err != nil {
		return nil, Result{}, err
	}
	return store, Result{Stats: stats, Checksum: checksum.Sum(data)}, nil
}

// Save writes s to path. The file is replaced atomically: the records are
// written to a temporary file in the same directory which is then renamed
// over path, keeping the permissions of the file it replaces.
func Save(s *records.Store, path string) (Result, error) {
	var buf bytes.Buffer
	stats, err := Write(&buf, s)
	if err != nil {
		return Result{}, err
	}

	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		cleanup()
		return Result{}, fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := tmp.Chmod(mode); err != nil {
		_ = tmp.Close()
		cleanup()
		return Result{}, fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		cleanup()
		return Result{}, fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return Result{}, fmt.Errorf("%w: %w", ErrWrite, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return Result{}, fmt.Errorf("%w: %w", ErrWrite, err)
	}

	return Result{Stats: stats, Checksum: checksum.Sum(buf.Bytes())}, nil
}

// FormatRecord renders rec as a single CSV line without the trailing newline.
func FormatRecord(rec records.Record) string {
	return FormatFields(rec.Fields())
}

// FormatFields renders fields as one CSV line without the line ending.
func FormatFields(fields []string) string {
	var b strings.Builder
	writer := csv.NewWriter(&b)
	_ = writer.Write(fields)
	writer.Flush()
	return strings.TrimRight(b.String(), "\n")
}
