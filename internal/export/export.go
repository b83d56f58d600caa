// Package export converts a card store into formats other tools can query.
//
// Both exporters apply the same row rule as saving: cards without people are
// left out.
package export

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"strconv"

	json "github.com/goccy/go-json"
	_ "modernc.org/sqlite"

	"github.com/five82/tesserama/internal/records"
)

// Card is the exported shape of one record.
type Card struct {
	Position  int    `json:"position"`
	Date      string `json:"date"`
	Number    string `json:"number"`
	People    string `json:"people"`
	Signature string `json:"signature"`
	Flags     string `json:"flags"`
	ID        string `json:"id"`
}

// Cards returns the exportable records of s in store order. Position is the
// record's index in the store.
func Cards(s *records.Store) []Card {
	cards := make([]Card, 0, s.Len())
	for h := range s.All() {
		rec, ok := s.Record(h)
		if !ok || rec.Blank() {
			continue
		}
		pos, _ := s.Path(h)
		cards = append(cards, Card{
			Position:  pos,
			Date:      rec.Get(records.Date),
			Number:    rec.Get(records.Number),
			People:    rec.Get(records.People),
			Signature: rec.Get(records.Signature),
			Flags:     rec.Get(records.Flags),
			ID:        rec.Get(records.ID),
		})
	}
	return cards
}

// JSON writes the exportable records of s to w as an indented JSON array.
func JSON(w io.Writer, s *records.Store) (int, error) {
	cards := Cards(s)
	data, err := json.MarshalIndent(cards, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("marshal cards: %w", err)
	}
	data = append(data, '\n')
	if _, err := w.Write(data); err != nil {
		return 0, fmt.Errorf("write json: %w", err)
	}
	return len(cards), nil
}

const schema = `
CREATE TABLE cards (
	position     INTEGER PRIMARY KEY,
	date         TEXT NOT NULL,
	number       TEXT NOT NULL,
	number_value INTEGER,
	people       TEXT NOT NULL,
	signature    TEXT NOT NULL,
	flags        TEXT NOT NULL,
	id           TEXT NOT NULL
);
CREATE INDEX idx_cards_number ON cards(number_value);
CREATE INDEX idx_cards_people ON cards(people);
`

// SQLite writes the exportable records of s to a new database at path,
// replacing any existing file. number_value holds the card number when it
// parses as an integer and NULL otherwise.
func SQLite(s *records.Store, path string) (int, error) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return 0, fmt.Errorf("remove existing database: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return 0, fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if _, err := db.Exec(schema); err != nil {
		return 0, fmt.Errorf("create schema: %w", err)
	}

	cards := Cards(s)
	if err := insertCards(db, cards); err != nil {
		return 0, fmt.Errorf("insert cards: %w", err)
	}
	return len(cards), nil
}

func insertCards(db *sql.DB, cards []Card) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO cards (position, date, number, number_value, people, signature, flags, id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, c := range cards {
		var numberValue *int64
		if n, err := strconv.ParseInt(c.Number, 10, 32); err == nil {
			numberValue = &n
		}
		if _, err := stmt.Exec(c.Position, c.Date, c.Number, numberValue, c.People, c.Signature, c.Flags, c.ID); err != nil {
			return err
		}
	}
	return tx.Commit()
}
