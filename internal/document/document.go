package document

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/five82/tesserama/internal/checksum"
	"github.com/five82/tesserama/internal/csvfile"
	"github.com/five82/tesserama/internal/records"
	"github.com/five82/tesserama/internal/search"
)

var (
	// ErrNoSource is returned by Save when the document was never bound to a file.
	ErrNoSource = errors.New("document has no source file")
	// ErrInvalidPosition is returned for view positions outside the current view.
	ErrInvalidPosition = errors.New("row position outside the current view")
)

// Option configures a Document.
type Option func(*Document)

// WithLogger sets the logger used for load, save and edit events.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Document) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithClock overrides the time source used to date inserted rows.
func WithClock(now func() time.Time) Option {
	return func(d *Document) {
		if now != nil {
			d.now = now
		}
	}
}

// WithDateLayout sets the time layout of the Date field of inserted rows.
func WithDateLayout(layout string) Option {
	return func(d *Document) {
		if layout != "" {
			d.dateLayout = layout
		}
	}
}

// Document is one open card file: its records, the filtered view shown to the
// user, the search needle and the unsaved-changes flag. It owns all of them;
// callers mutate records only through its methods.
type Document struct {
	store  *records.Store
	view   *records.View
	engine *search.Engine

	path     string
	checksum string
	dirty    bool

	logger     *slog.Logger
	now        func() time.Time
	dateLayout string
}

// New returns an empty, clean document with no source file.
func New(opts ...Option) *Document {
	d := &Document{
		logger:     slog.Default(),
		now:        time.Now,
		dateLayout: DefaultDateLayout,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.reset(records.NewStore())
	return d
}

// Open returns a document loaded from path.
func Open(path string, opts ...Option) (*Document, error) {
	d := New(opts...)
	if err := d.Load(path); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Document) reset(store *records.Store) {
	d.store = store
	d.engine = search.New()
	d.view = records.NewView(store)
	d.view.SetVisibilityPredicate(d.engine)
	d.view.Refresh()
}

// Load replaces the document contents with the records in path. The needle is
// cleared and the document is clean afterwards. On failure the document is
// left untouched.
func (d *Document) Load(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	store, res, err := csvfile.Load(abs)
	if err != nil {
		return err
	}

	d.reset(store)
	d.path = abs
	d.checksum = res.Checksum
	d.SetDirty(false)

	d.logger.Info("records loaded",
		slog.String("path", abs),
		slog.Int("records", res.Records),
		slog.Int("skipped", res.Skipped))
	return nil
}

// Save writes the records back to the document's source file.
func (d *Document) Save() error {
	if d.path == "" {
		return ErrNoSource
	}
	res, err := csvfile.Save(d.store, d.path)
	if err != nil {
		return err
	}
	if res.Malformed > 0 {
		d.logger.Warn("malformed rows skipped on save",
			slog.String("path", d.path),
			slog.Int("rows", res.Malformed))
	}

	d.checksum = res.Checksum
	d.SetDirty(false)

	d.logger.Info("records saved",
		slog.String("path", d.path),
		slog.Int("records", res.Records),
		slog.Int("blank", res.Blank))
	return nil
}

// SaveAs binds the document to path and saves it there.
func (d *Document) SaveAs(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}
	prev := d.path
	d.path = abs
	if err := d.Save(); err != nil {
		d.path = prev
		return err
	}
	return nil
}

// Path returns the absolute path of the source file, or "" before the first
// load or save.
func (d *Document) Path() string {
	return d.path
}

// Title is the source file name, prefixed with '*' while there are unsaved
// changes.
func (d *Document) Title() string {
	if d.path == "" {
		return ""
	}
	name := filepath.Base(d.path)
	if d.dirty {
		return "*" + name
	}
	return name
}

// Subtitle is the directory holding the source file.
func (d *Document) Subtitle() string {
	if d.path == "" {
		return ""
	}
	return filepath.Dir(d.path)
}

// IsDirty reports whether there are unsaved changes.
func (d *Document) IsDirty() bool {
	return d.dirty
}

// SetDirty sets the unsaved-changes flag.
func (d *Document) SetDirty(dirty bool) {
	d.dirty = dirty
}

// Store returns the underlying records.
func (d *Document) Store() *records.Store {
	return d.store
}

// View returns the filtered view of the records.
func (d *Document) View() *records.View {
	return d.view
}

// ChangedOnDisk reports whether the source file no longer holds what this
// document last loaded or saved.
func (d *Document) ChangedOnDisk() (bool, error) {
	if d.path == "" {
		return false, nil
	}
	sum, err := checksum.File(d.path)
	if err != nil {
		return false, err
	}
	return sum != d.checksum, nil
}

// Search captures needle and refreshes the view.
func (d *Document) Search(needle string) {
	d.engine.SetNeedle(needle)
	d.view.Refresh()
	d.logger.Debug("search refreshed",
		slog.String("needle", d.engine.Needle()),
		slog.Bool("numeric", d.engine.Numeric()),
		slog.Int("visible", d.view.Len()))
}

// Needle returns the current lower-cased needle.
func (d *Document) Needle() string {
	return d.engine.Needle()
}

// Len returns the number of visible rows.
func (d *Document) Len() int {
	return d.view.Len()
}

// Row returns the record shown at view position pos.
func (d *Document) Row(pos int) (records.Record, bool) {
	h, ok := d.view.ToStoreHandle(pos)
	if !ok {
		return records.Record{}, false
	}
	return d.store.Record(h)
}

// SetField writes one field of the row at h and marks the document dirty.
func (d *Document) SetField(h records.Handle, c records.Column, value string) bool {
	if !d.store.SetField(h, c, value) {
		return false
	}
	d.SetDirty(true)
	return true
}

// UpdateColumn applies an edit made at view position pos. Text equal to the
// current value is a no-op and leaves the dirty flag alone. It reports whether
// the record changed.
func (d *Document) UpdateColumn(pos int, c records.Column, text string) (bool, error) {
	h, ok := d.view.ToStoreHandle(pos)
	if !ok {
		return false, fmt.Errorf("%w: %d", ErrInvalidPosition, pos)
	}
	current, ok := d.store.Field(h, c)
	if !ok {
		return false, fmt.Errorf("%w: %d", ErrInvalidPosition, pos)
	}
	if current == text {
		return false, nil
	}
	d.SetField(h, c, text)
	d.logger.Debug("field updated",
		slog.Int("position", pos),
		slog.String("column", c.String()))
	return true, nil
}

// InsertRow appends a new numbered, dated row and marks the document dirty.
// It returns the new row's handle and its position in the refreshed view;
// the position is -1 when the current needle hides the row.
func (d *Document) InsertRow() (records.Handle, int) {
	h := InsertRow(d.store, d.now(), d.dateLayout)
	d.SetDirty(true)
	d.view.Refresh()

	pos, ok := d.view.Position(h)
	if !ok {
		pos = -1
	}
	number, _ := d.store.Field(h, records.Number)
	d.logger.Debug("row inserted", slog.String("number", number))
	return h, pos
}
