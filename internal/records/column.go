package records

import (
	"fmt"
	"strings"
)

// Column names one field of a membership card record.
type Column int

const (
	Date Column = iota
	Number
	People
	Signature
	Flags
	ID
)

// Size is the number of fields in every record.
const Size = 6

var columnNames = [Size]string{"Date", "Number", "People", "Signature", "Flags", "ID"}

// Columns lists every column in file order.
func Columns() []Column {
	return []Column{Date, Number, People, Signature, Flags, ID}
}

// Index returns the zero-based position of the column within a record.
func (c Column) Index() int {
	return int(c)
}

// Valid reports whether c is one of the known columns.
func (c Column) Valid() bool {
	return c >= 0 && int(c) < Size
}

func (c Column) String() string {
	if !c.Valid() {
		return fmt.Sprintf("Column(%d)", int(c))
	}
	return columnNames[c]
}

// ColumnFromIndex converts a record position back into a Column. It panics for
// indices outside [0, Size): callers only ever pass positions they derived
// from a Column in the first place.
func ColumnFromIndex(i int) Column {
	if i < 0 || i >= Size {
		panic(fmt.Sprintf("records: index %d can't be converted to column", i))
	}
	return Column(i)
}

// ParseColumn looks a column up by its case-insensitive name.
func ParseColumn(name string) (Column, error) {
	trimmed := strings.TrimSpace(name)
	for i, n := range columnNames {
		if strings.EqualFold(n, trimmed) {
			return Column(i), nil
		}
	}
	return 0, fmt.Errorf("unknown column %q", name)
}
