package records

// Record is one membership card: exactly Size string fields indexed by Column.
// The zero value has every field empty.
type Record [Size]string

// NewRecord builds a record from positional values. Values past Size are
// ignored and missing trailing values stay empty, which is how files written
// by older versions with fewer columns are read.
func NewRecord(values []string) Record {
	var r Record
	copy(r[:], values)
	return r
}

// Get returns the value of column c.
func (r Record) Get(c Column) string {
	return r[c]
}

// Set overwrites the value of column c.
func (r *Record) Set(c Column, value string) {
	r[c] = value
}

// Blank reports whether the record lists no people. Blank records are kept in
// memory but never written back to disk.
func (r Record) Blank() bool {
	return r[People] == ""
}

// Fields returns the record as a freshly allocated slice in column order.
func (r Record) Fields() []string {
	out := make([]string, Size)
	copy(out, r[:])
	return out
}
