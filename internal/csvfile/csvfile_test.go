package csvfile

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/five82/tesserama/internal/records"
)

const sample = `01/01/20,1,Rossi Mario,MR,,A1
02/01/20,2,Bianchi Anna
bad,x"y,z
03/01/20,3,,,,
04/01/20,4,"Verdi Luca, Anna",LV,*,B2
`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cards.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func allRecords(s *records.Store) []records.Record {
	var out []records.Record
	for h := range s.All() {
		rec, _ := s.Record(h)
		out = append(out, rec)
	}
	return out
}

func TestRead_KeepsStrayQuotesAndPadsShortRecords(t *testing.T) {
	store, stats, err := Read(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	if stats.Records != 5 || stats.Skipped != 0 {
		t.Fatalf("stats = %+v, want 5 records and none skipped", stats)
	}

	recs := allRecords(store)
	short := recs[1]
	if short[records.People] != "Bianchi Anna" {
		t.Fatalf("People = %q, want %q", short[records.People], "Bianchi Anna")
	}
	for _, c := range []records.Column{records.Signature, records.Flags, records.ID} {
		if short[c] != "" {
			t.Fatalf("%v = %q, want empty", c, short[c])
		}
	}
	if recs[2][records.Number] != `x"y` || recs[2][records.People] != "z" {
		t.Fatalf("stray quote row = %q, want Number x\"y and People z", recs[2])
	}
	if recs[4][records.People] != "Verdi Luca, Anna" {
		t.Fatalf("quoted People = %q", recs[4][records.People])
	}
}

func TestLoadSave_KeepsNamesWithQuotes(t *testing.T) {
	path := writeFile(t, "01/01/20,1,Rossi Mario\n01/01/20,2,O\"Neil John\n01/01/20,3,Bianchi Luca\n")

	store, res, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if res.Records != 3 || res.Skipped != 0 {
		t.Fatalf("load stats = %+v, want 3 records and none skipped", res.Stats)
	}

	first, _ := store.Handle(0)
	store.SetField(first, records.ID, "Z9")
	if _, err := Save(store, path); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	reloaded, res, err := Load(path)
	if err != nil {
		t.Fatalf("reload returned error: %v", err)
	}
	if res.Records != 3 {
		t.Fatalf("reloaded %d records, want 3", res.Records)
	}
	recs := allRecords(reloaded)
	if recs[1][records.People] != `O"Neil John` {
		t.Fatalf("People = %q, want %q", recs[1][records.People], `O"Neil John`)
	}
	if recs[0][records.ID] != "Z9" {
		t.Fatalf("ID = %q, want Z9", recs[0][records.ID])
	}
}

func TestRead_ExtraFieldsIgnored(t *testing.T) {
	store, _, err := Read(strings.NewReader("a,b,c,d,e,f,g,h\n"))
	if err != nil {
		t.Fatalf("Read returned error: %v", err)
	}
	rec := allRecords(store)[0]
	if rec[records.ID] != "f" {
		t.Fatalf("ID = %q, want f", rec[records.ID])
	}
}

func TestWrite_OmitsBlankRecords(t *testing.T) {
	s := records.NewStore()
	s.AppendRecord(records.Record{"d", "1", "Rossi", "", "", ""})
	s.AppendRecord(records.Record{"d", "2", "", "sig", "*", "X9"})
	s.AppendRecord(records.Record{"d", "3", "Neri", "", "", ""})

	var buf bytes.Buffer
	stats, err := Write(&buf, s)
	if err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if stats.Records != 2 || stats.Blank != 1 {
		t.Fatalf("stats = %+v, want 2 written and 1 blank", stats)
	}
	want := "d,1,Rossi,,,\nd,3,Neri,,,\n"
	if buf.String() != want {
		t.Fatalf("output = %q, want %q", buf.String(), want)
	}
}

func TestLoadSave_RoundTrip(t *testing.T) {
	src := writeFile(t, sample)
	store, res, err := Load(src)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if res.Checksum == "" {
		t.Fatalf("Load returned empty checksum")
	}

	dst := filepath.Join(t.TempDir(), "out.csv")
	saved, err := Save(store, dst)
	if err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if saved.Records != 4 {
		t.Fatalf("saved %d records, want 4", saved.Records)
	}

	reloaded, _, err := Load(dst)
	if err != nil {
		t.Fatalf("Load(saved) returned error: %v", err)
	}

	var want []records.Record
	for _, r := range allRecords(store) {
		if !r.Blank() {
			want = append(want, r)
		}
	}
	got := allRecords(reloaded)
	if len(got) != len(want) {
		t.Fatalf("reloaded %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("record %d = %#v, want %#v", i, got[i], want[i])
		}
	}

	// Saving the reloaded store again changes nothing.
	again, err := Save(reloaded, dst)
	if err != nil {
		t.Fatalf("second Save returned error: %v", err)
	}
	if again.Checksum != saved.Checksum {
		t.Fatalf("second save checksum = %s, want %s", again.Checksum, saved.Checksum)
	}
}

func TestSave_KeepsPermissions(t *testing.T) {
	path := writeFile(t, "d,1,Rossi,,,\n")
	if err := os.Chmod(path, 0o640); err != nil {
		t.Fatalf("Chmod: %v", err)
	}
	store, _, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if _, err := Save(store, path); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if info.Mode().Perm() != 0o640 {
		t.Fatalf("mode = %v, want 0640", info.Mode().Perm())
	}
}

func TestLoad_MissingFileIsOpenError(t *testing.T) {
	_, _, err := Load(filepath.Join(t.TempDir(), "missing.csv"))
	if !errors.Is(err, ErrOpen) {
		t.Fatalf("Load error = %v, want ErrOpen", err)
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Load error = %v, want it to wrap os.ErrNotExist", err)
	}
}

func TestSave_MissingDirectoryIsOpenError(t *testing.T) {
	s := records.NewStore()
	s.AppendRecord(records.Record{records.People: "x"})
	_, err := Save(s, filepath.Join(t.TempDir(), "nope", "out.csv"))
	if !errors.Is(err, ErrOpen) {
		t.Fatalf("Save error = %v, want ErrOpen", err)
	}
}

func TestFormatRecord(t *testing.T) {
	got := FormatRecord(records.Record{"01/01/20", "5", "Rossi Mario, Anna", "", "", ""})
	want := `01/01/20,5,"Rossi Mario, Anna",,,`
	if got != want {
		t.Fatalf("FormatRecord = %q, want %q", got, want)
	}
}

func TestFormatFields(t *testing.T) {
	got := FormatFields([]string{"12", `O"Neil John`})
	want := `12,"O""Neil John"`
	if got != want {
		t.Fatalf("FormatFields = %q, want %q", got, want)
	}
}

func TestRoundTripProperty(t *testing.T) {
	field := rapid.StringMatching(`[a-zA-Z0-9 ,"'/.\n-]{0,12}`)
	people := rapid.StringMatching(`[a-zA-Z ,"]{1,12}`)

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 8).Draw(t, "n")
		s := records.NewStore()
		var want []records.Record
		for i := 0; i < n; i++ {
			var rec records.Record
			for _, c := range records.Columns() {
				rec[c] = field.Draw(t, c.String())
			}
			if rapid.Bool().Draw(t, "named") {
				rec[records.People] = people.Draw(t, "people")
			}
			s.AppendRecord(rec)
			if !rec.Blank() {
				want = append(want, rec)
			}
		}

		var buf bytes.Buffer
		if _, err := Write(&buf, s); err != nil {
			t.Fatalf("Write: %v", err)
		}
		back, stats, err := Read(&buf)
		if err != nil {
			t.Fatalf("Read: %v", err)
		}
		if stats.Skipped != 0 {
			t.Fatalf("round trip skipped %d records", stats.Skipped)
		}
		got := allRecords(back)
		if len(got) != len(want) {
			t.Fatalf("got %d records, want %d", len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("record %d = %#v, want %#v", i, got[i], want[i])
			}
		}
	})
}
