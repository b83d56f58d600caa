package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/tesserama/internal/document"
	"github.com/five82/tesserama/internal/prefs"
	"github.com/five82/tesserama/internal/records"
)

const sampleCards = `01/01/24,1,Smith John,signed,,A1
02/01/24,2,Rossi Mario,,,A2
03/01/24,12,Bianchi Anna,,vip,A3
`

type harness struct {
	m         Model
	path      string
	prefsPath string
	copied    *string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "cards.csv")
	if err := os.WriteFile(path, []byte(sampleCards), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	clock := func() time.Time { return time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC) }
	doc, err := document.Open(path, document.WithClock(clock))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	copied := new(string)
	h := &harness{
		path:      doc.Path(),
		prefsPath: filepath.Join(dir, "prefs.toml"),
		copied:    copied,
	}
	h.m = New(Options{
		Document:  doc,
		PrefsPath: h.prefsPath,
		Clipboard: func(s string) error {
			*copied = s
			return nil
		},
	})
	h.send(t, tea.WindowSizeMsg{Width: 120, Height: 20})
	return h
}

func (h *harness) send(t *testing.T, msg tea.Msg) tea.Cmd {
	t.Helper()
	next, cmd := h.m.Update(msg)
	m, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	h.m = m
	return cmd
}

func (h *harness) press(t *testing.T, keys ...string) tea.Cmd {
	t.Helper()
	var cmd tea.Cmd
	for _, k := range keys {
		cmd = h.send(t, keyMsg(k))
	}
	return cmd
}

func (h *harness) people(t *testing.T, storePos int) string {
	t.Helper()
	s := h.m.doc.Store()
	handle, ok := s.Handle(storePos)
	if !ok {
		t.Fatalf("no row at store position %d", storePos)
	}
	v, _ := s.Field(handle, records.People)
	return v
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "ctrl+o":
		return tea.KeyMsg{Type: tea.KeyCtrlO}
	case "ctrl+r":
		return tea.KeyMsg{Type: tea.KeyCtrlR}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestSearch_FiltersAndEscClears(t *testing.T) {
	h := newHarness(t)

	h.press(t, "/", "john smith")
	if !h.m.searching || !h.m.searchFocused {
		t.Fatalf("search bar not open and focused")
	}
	if got := h.m.doc.Len(); got != 1 {
		t.Fatalf("visible rows = %d, want 1", got)
	}

	h.press(t, "esc")
	if h.m.searching {
		t.Fatalf("search still open after esc")
	}
	if got := h.m.doc.Needle(); got != "" {
		t.Fatalf("Needle = %q, want empty", got)
	}
	if got := h.m.doc.Len(); got != 3 {
		t.Fatalf("visible rows = %d, want 3", got)
	}
}

func TestSearch_NumericNeedleIsExact(t *testing.T) {
	h := newHarness(t)

	h.press(t, "/", "1")
	if got := h.m.doc.Len(); got != 1 {
		t.Fatalf("visible rows = %d, want 1 (12 must not match)", got)
	}
	rec, _ := h.m.doc.Row(0)
	if rec.Get(records.Number) != "1" {
		t.Fatalf("visible Number = %q, want 1", rec.Get(records.Number))
	}
}

func TestSearch_InsertDisabledWhileSearching(t *testing.T) {
	h := newHarness(t)

	h.press(t, "/", "rossi", "enter")
	if !h.m.searching || h.m.searchFocused {
		t.Fatalf("enter should keep results and return to the grid")
	}

	h.press(t, "a")
	if got := h.m.doc.Store().Len(); got != 3 {
		t.Fatalf("store rows = %d, want 3", got)
	}
	if h.m.doc.IsDirty() {
		t.Fatalf("document dirty after refused insert")
	}
	if !strings.Contains(h.m.status, "search") {
		t.Fatalf("status = %q, want it to mention search", h.m.status)
	}
}

func TestEdit_AppliesThroughFilteredView(t *testing.T) {
	h := newHarness(t)

	h.press(t, "/", "anna", "enter", "enter", " Maria", "enter")
	if h.m.editing {
		t.Fatalf("editor still open after enter")
	}
	if got := h.people(t, 2); got != "Bianchi Anna Maria" {
		t.Fatalf("People = %q, want %q", got, "Bianchi Anna Maria")
	}
	if got := h.people(t, 0); got != "Smith John" {
		t.Fatalf("unfiltered row 0 People = %q, want unchanged", got)
	}
	if !h.m.doc.IsDirty() {
		t.Fatalf("document not dirty after edit")
	}
}

func TestEdit_UnchangedTextKeepsDocumentClean(t *testing.T) {
	h := newHarness(t)

	h.press(t, "enter", "enter")
	if h.m.doc.IsDirty() {
		t.Fatalf("no-op edit marked the document dirty")
	}
}

func TestEdit_EscCancels(t *testing.T) {
	h := newHarness(t)

	h.press(t, "enter", "xyz", "esc")
	if h.m.editing {
		t.Fatalf("editor still open after esc")
	}
	if got := h.people(t, 0); got != "Smith John" {
		t.Fatalf("People = %q, want unchanged", got)
	}
	if h.m.doc.IsDirty() {
		t.Fatalf("cancelled edit marked the document dirty")
	}
}

func TestInsert_OpensEditorOnNewCard(t *testing.T) {
	h := newHarness(t)

	h.press(t, "a")
	s := h.m.doc.Store()
	if s.Len() != 4 {
		t.Fatalf("store rows = %d, want 4", s.Len())
	}
	if !h.m.editing || h.m.currentColumn() != records.People || h.m.row != 3 {
		t.Fatalf("editing=%v column=%v row=%d, want editing People on row 3", h.m.editing, h.m.currentColumn(), h.m.row)
	}
	rec, _ := h.m.doc.Row(3)
	if rec.Get(records.Number) != "13" || rec.Get(records.Date) != "05/03/24" {
		t.Fatalf("new card = %v, want number 13 dated 05/03/24", rec)
	}

	h.press(t, "Verdi Luca", "enter")
	if got := h.people(t, 3); got != "Verdi Luca" {
		t.Fatalf("People = %q, want Verdi Luca", got)
	}
	if !h.m.doc.IsDirty() {
		t.Fatalf("document not dirty after insert")
	}
}

func TestSave_WritesFileAndClearsDirty(t *testing.T) {
	h := newHarness(t)

	h.press(t, "a", "Verdi Luca", "enter", "ctrl+s")
	if h.m.doc.IsDirty() {
		t.Fatalf("document dirty after save")
	}
	data, err := os.ReadFile(h.path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !strings.Contains(string(data), "05/03/24,13,Verdi Luca,,,") {
		t.Fatalf("saved file = %q, want the new card", data)
	}
	if !strings.HasPrefix(h.m.windowTitle(), "cards.csv") {
		t.Fatalf("window title = %q, want clean name", h.m.windowTitle())
	}
}

func TestSave_UntitledAsksForPath(t *testing.T) {
	dir := t.TempDir()
	m := New(Options{})
	h := &harness{m: m}
	h.send(t, tea.WindowSizeMsg{Width: 100, Height: 20})

	h.press(t, "a", "Verdi Luca", "enter", "ctrl+s")
	if h.m.dialog == nil || h.m.dialog.kind != dialogPath || h.m.dialog.then != actionSaveAs {
		t.Fatalf("ctrl+s on an untitled document should ask for a path")
	}

	target := filepath.Join(dir, "new.csv")
	next, _ := h.m.finishDialog(&dialogState{kind: dialogPath, then: actionSaveAs, path: target})
	h.m = next.(Model)
	if h.m.doc.Path() != target {
		t.Fatalf("Path = %q, want %q", h.m.doc.Path(), target)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("saved file missing: %v", err)
	}
}

func TestQuit_CleanDocumentQuits(t *testing.T) {
	h := newHarness(t)
	if cmd := h.press(t, "q"); !isQuit(cmd) {
		t.Fatalf("q on a clean document did not quit")
	}
}

func TestQuit_DirtyDocumentAsksFirst(t *testing.T) {
	h := newHarness(t)

	h.press(t, "a", "esc")
	h.press(t, "q")
	if h.m.dialog == nil || h.m.dialog.kind != dialogDiscard || h.m.dialog.then != actionQuit {
		t.Fatalf("quit with unsaved changes did not ask to discard")
	}

	h.press(t, "esc")
	if h.m.dialog != nil {
		t.Fatalf("esc did not close the dialog")
	}

	next, cmd := h.m.finishDialog(&dialogState{kind: dialogDiscard, then: actionQuit, confirmed: true})
	h.m = next.(Model)
	if !isQuit(cmd) {
		t.Fatalf("confirmed discard did not quit")
	}
}

func TestDiscardDeclinedKeepsChanges(t *testing.T) {
	h := newHarness(t)
	h.press(t, "a", "esc")

	next, cmd := h.m.finishDialog(&dialogState{kind: dialogDiscard, then: actionOpen})
	h.m = next.(Model)
	if cmd != nil || h.m.dialog != nil {
		t.Fatalf("declined discard should do nothing else")
	}
	if !h.m.doc.IsDirty() || h.m.doc.Store().Len() != 4 {
		t.Fatalf("declined discard lost the unsaved card")
	}
}

func TestOpen_LoadsFileAndRemembersIt(t *testing.T) {
	h := newHarness(t)

	other := filepath.Join(t.TempDir(), "other.csv")
	if err := os.WriteFile(other, []byte("01/01/24,7,Neri Paolo\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	h.press(t, "ctrl+o")
	if h.m.dialog == nil || h.m.dialog.kind != dialogPath {
		t.Fatalf("ctrl+o on a clean document should ask for a path")
	}

	next, _ := h.m.finishDialog(&dialogState{kind: dialogPath, then: actionOpen, path: other})
	h.m = next.(Model)
	if h.m.doc.Path() != other {
		t.Fatalf("Path = %q, want %q", h.m.doc.Path(), other)
	}
	if got := h.m.doc.Store().Len(); got != 1 {
		t.Fatalf("store rows = %d, want 1", got)
	}

	p, err := prefs.Load(h.prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if len(p.Recent) == 0 || p.Recent[0] != other {
		t.Fatalf("Recent = %v, want %q first", p.Recent, other)
	}
}

func TestOpen_FailureKeepsDocument(t *testing.T) {
	h := newHarness(t)

	next, _ := h.m.finishDialog(&dialogState{kind: dialogPath, then: actionOpen, path: filepath.Join(t.TempDir(), "missing.csv")})
	h.m = next.(Model)
	if h.m.doc.Path() != h.path || h.m.doc.Store().Len() != 3 {
		t.Fatalf("failed open replaced the document")
	}
	if h.m.statusKind != statusError {
		t.Fatalf("statusKind = %v, want error", h.m.statusKind)
	}
}

func TestFileChanged_WarnsAndReloads(t *testing.T) {
	h := newHarness(t)

	if err := os.WriteFile(h.path, []byte(sampleCards+"04/01/24,20,Gialli Sara,,,A4\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	h.send(t, fileChangedMsg{path: h.path})
	if !h.m.externalChange {
		t.Fatalf("external change not flagged")
	}
	if !strings.Contains(h.m.status, "changed on disk") {
		t.Fatalf("status = %q, want change notice", h.m.status)
	}

	h.press(t, "ctrl+r")
	if h.m.externalChange {
		t.Fatalf("reload did not clear the change notice")
	}
	if got := h.m.doc.Store().Len(); got != 4 {
		t.Fatalf("store rows = %d, want 4 after reload", got)
	}
}

func TestFileChanged_OwnSaveIsSilent(t *testing.T) {
	h := newHarness(t)

	h.press(t, "enter", " Jr", "enter", "ctrl+s")
	h.send(t, fileChangedMsg{path: h.path})
	if h.m.externalChange {
		t.Fatalf("own save flagged as external change")
	}

	h.send(t, fileChangedMsg{path: filepath.Join(filepath.Dir(h.path), "unrelated.csv")})
	if h.m.externalChange {
		t.Fatalf("change to another file flagged")
	}
}

func TestCopyRow_WritesCSVLine(t *testing.T) {
	h := newHarness(t)

	h.press(t, "y")
	if want := "01/01/24,1,Smith John,signed,,A1"; *h.copied != want {
		t.Fatalf("copied = %q, want %q", *h.copied, want)
	}
}

func TestNavigation_ClampsCursor(t *testing.T) {
	h := newHarness(t)

	h.press(t, "j", "j", "j", "j")
	if h.m.row != 2 {
		t.Fatalf("row = %d, want 2", h.m.row)
	}
	h.press(t, "g")
	if h.m.row != 0 {
		t.Fatalf("row = %d, want 0", h.m.row)
	}
	h.press(t, "G", "k")
	if h.m.row != 1 {
		t.Fatalf("row = %d, want 1", h.m.row)
	}

	start := h.m.col
	h.press(t, "tab")
	if h.m.col != (start+1)%len(displayColumns) {
		t.Fatalf("col = %d, want %d", h.m.col, start+1)
	}
	h.press(t, "h", "h", "h", "h", "h", "h", "h")
	if h.m.col != 0 {
		t.Fatalf("col = %d, want 0", h.m.col)
	}
}

func TestCycleTheme_SavesPreference(t *testing.T) {
	h := newHarness(t)

	h.press(t, "T")
	if h.m.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q, want Kanagawa", h.m.theme.Name)
	}
	p, err := prefs.Load(h.prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if p.Theme != "Kanagawa" {
		t.Fatalf("saved theme = %q, want Kanagawa", p.Theme)
	}
}

func TestHelp_AnyKeyCloses(t *testing.T) {
	h := newHarness(t)

	h.press(t, "?")
	if !h.m.showHelp {
		t.Fatalf("help not shown")
	}
	if !strings.Contains(h.m.View(), "Keyboard Shortcuts") {
		t.Fatalf("help view missing title")
	}
	h.press(t, "j")
	if h.m.showHelp || h.m.row != 0 {
		t.Fatalf("key after help should only close it")
	}
}

func TestView_RendersHeaderAndCards(t *testing.T) {
	h := newHarness(t)

	view := h.m.View()
	for _, want := range []string{"Tesserama", "cards.csv", "Smith", "Bianchi", "People"} {
		if !strings.Contains(view, want) {
			t.Fatalf("view missing %q", want)
		}
	}

	h.press(t, "/", "nobody")
	if !strings.Contains(h.m.View(), "match") {
		t.Fatalf("empty search view missing notice")
	}
}

func TestPathValidator(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "cards.csv")
	if err := os.WriteFile(file, nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	open := pathValidator(actionOpen)
	if err := open(file); err != nil {
		t.Fatalf("open(existing) = %v, want nil", err)
	}
	for _, bad := range []string{"", "  ", dir, filepath.Join(dir, "missing.csv")} {
		if err := open(bad); err == nil {
			t.Fatalf("open(%q) = nil, want error", bad)
		}
	}

	saveAs := pathValidator(actionSaveAs)
	if err := saveAs(filepath.Join(dir, "new.csv")); err != nil {
		t.Fatalf("saveAs(new file) = %v, want nil", err)
	}
	if err := saveAs(filepath.Join(dir, "missing", "new.csv")); err == nil {
		t.Fatalf("saveAs(missing dir) = nil, want error")
	}
}
