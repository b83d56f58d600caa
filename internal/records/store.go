package records

import "iter"

// Handle is a stable reference to one row of a Store. Handles survive appends
// and stay valid for the lifetime of the store that issued them. The zero
// Handle refers to no row.
type Handle struct {
	r *row
}

// IsZero reports whether h refers to no row.
func (h Handle) IsZero() bool {
	return h.r == nil
}

type row struct {
	owner *Store
	pos   int
	rec   Record
}

// Store is an ordered, append-only collection of records. Rows are never
// reordered or removed, so a row's position is its rank in append order.
//
// Store is not safe for concurrent use; it is owned by a single document.
type Store struct {
	rows []*row
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Len returns the number of rows.
func (s *Store) Len() int {
	return len(s.rows)
}

// Append adds a row with every field empty and returns its handle.
func (s *Store) Append() Handle {
	r := &row{owner: s, pos: len(s.rows)}
	s.rows = append(s.rows, r)
	return Handle{r: r}
}

// AppendRecord adds a row holding rec and returns its handle.
func (s *Store) AppendRecord(rec Record) Handle {
	h := s.Append()
	h.r.rec = rec
	return h
}

// Valid reports whether h was issued by this store.
func (s *Store) Valid(h Handle) bool {
	return h.r != nil && h.r.owner == s
}

// Field returns the value stored at (h, c). The boolean is false when h does
// not address a row of this store or c is not a known column.
func (s *Store) Field(h Handle, c Column) (string, bool) {
	if !s.Valid(h) || !c.Valid() {
		return "", false
	}
	return h.r.rec[c], true
}

// SetField overwrites one field. Any text is accepted, including the empty
// string. It reports false when (h, c) addresses nothing.
func (s *Store) SetField(h Handle, c Column, value string) bool {
	if !s.Valid(h) || !c.Valid() {
		return false
	}
	h.r.rec[c] = value
	return true
}

// SetRecord overwrites every field of the row at h.
func (s *Store) SetRecord(h Handle, rec Record) bool {
	if !s.Valid(h) {
		return false
	}
	h.r.rec = rec
	return true
}

// Record returns a copy of the row at h.
func (s *Store) Record(h Handle) (Record, bool) {
	if !s.Valid(h) {
		return Record{}, false
	}
	return h.r.rec, true
}

// Path returns the zero-based position of h in the store.
func (s *Store) Path(h Handle) (int, bool) {
	if !s.Valid(h) {
		return 0, false
	}
	return h.r.pos, true
}

// Handle returns the handle of the row at position pos.
func (s *Store) Handle(pos int) (Handle, bool) {
	if pos < 0 || pos >= len(s.rows) {
		return Handle{}, false
	}
	return Handle{r: s.rows[pos]}, true
}

// First returns the first row, if any.
func (s *Store) First() (Handle, bool) {
	return s.Handle(0)
}

// Next returns the row following h, or false at the end of the store.
func (s *Store) Next(h Handle) (Handle, bool) {
	if !s.Valid(h) {
		return Handle{}, false
	}
	return s.Handle(h.r.pos + 1)
}

// All yields every row handle in store order. The store must not grow while
// the sequence is being consumed.
func (s *Store) All() iter.Seq[Handle] {
	return func(yield func(Handle) bool) {
		for h, ok := s.First(); ok; h, ok = s.Next(h) {
			if !yield(h) {
				return
			}
		}
	}
}
