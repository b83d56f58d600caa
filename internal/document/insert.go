package document

import (
	"strconv"
	"time"

	"github.com/five82/tesserama/internal/records"
)

// DefaultDateLayout formats dates as DD/MM/YY.
const DefaultDateLayout = "02/01/06"

// NextNumber returns one more than the largest numeric Number field in s, or 1
// when no row carries a number.
func NextNumber(s *records.Store) int {
	next := 1
	for h := range s.All() {
		v, ok := s.Field(h, records.Number)
		if !ok {
			continue
		}
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			continue
		}
		next = max(next, int(n)+1)
	}
	return next
}

// InsertRow appends a row numbered NextNumber(s) and dated now. Every other
// field is left empty.
func InsertRow(s *records.Store, now time.Time, layout string) records.Handle {
	if layout == "" {
		layout = DefaultDateLayout
	}
	var rec records.Record
	rec[records.Number] = strconv.Itoa(NextNumber(s))
	rec[records.Date] = now.Format(layout)
	return s.AppendRecord(rec)
}
