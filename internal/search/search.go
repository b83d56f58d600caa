// Package search decides which membership card records match a search needle.
//
// A needle that parses as a base-10 integer is a membership number lookup and
// only matches rows whose Number field is exactly that string. Any other needle
// is split on whitespace and a row matches when its People or its Signature
// field contains every token, ignoring case and token order. Names are stored
// as "LastName FirstName, OtherFirstName", so "OtherFirstName LastName" still
// finds the card.
package search

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/five82/tesserama/internal/records"
)

// Engine holds the current needle and implements records.Predicate.
// The zero value matches every row.
type Engine struct {
	needle  string
	numeric bool
	tokens  []string
}

// New returns an engine with an empty needle.
func New() *Engine {
	return &Engine{}
}

// SetNeedle captures raw as the needle. The stored needle is lower-cased;
// every Matches call until the next SetNeedle uses it.
func (e *Engine) SetNeedle(raw string) {
	e.needle = Lower(raw)
	_, err := strconv.ParseInt(e.needle, 10, 32)
	e.numeric = err == nil
	e.tokens = strings.Fields(e.needle)
}

// Needle returns the captured, lower-cased needle.
func (e *Engine) Needle() string {
	return e.needle
}

// Numeric reports whether the needle is treated as a membership number.
func (e *Engine) Numeric() bool {
	return e.numeric
}

// Matches reports whether the row at h passes the current needle. Rows whose
// fields can't be read never match.
func (e *Engine) Matches(s *records.Store, h records.Handle) bool {
	if e.numeric {
		v, ok := s.Field(h, records.Number)
		return ok && v == e.needle
	}
	return e.contains(s, h, records.People) || e.contains(s, h, records.Signature)
}

func (e *Engine) contains(s *records.Store, h records.Handle, c records.Column) bool {
	v, ok := s.Field(h, c)
	if !ok {
		return false
	}
	v = Lower(v)
	for _, tok := range e.tokens {
		if !strings.Contains(v, tok) {
			return false
		}
	}
	return true
}

// Lower folds s to lower case using Unicode rules.
func Lower(s string) string {
	return cases.Lower(language.Und).String(s)
}
