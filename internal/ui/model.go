package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/tesserama/internal/csvfile"
	"github.com/five82/tesserama/internal/document"
	"github.com/five82/tesserama/internal/prefs"
	"github.com/five82/tesserama/internal/records"
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Document  *document.Document
	Logger    *slog.Logger
	Prefs     prefs.Prefs
	PrefsPath string

	// Watch enables the external change notice for the open file.
	Watch         bool
	WatchDebounce time.Duration

	// Clipboard receives copied cards. Defaults to the system clipboard.
	Clipboard func(string) error
}

type statusKind int

const (
	statusInfo statusKind = iota
	statusSuccess
	statusWarning
	statusError
)

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	doc       *document.Document
	logger    *slog.Logger
	keys      keyMap
	prefs     prefs.Prefs
	prefsPath string
	clipboard func(string) error
	watcher   *fileWatcher

	// UI state
	theme  Theme
	width  int
	height int
	ready  bool

	// Grid cursor, as a view position and an index into displayColumns
	row    int
	col    int
	offset int

	// Cell editor
	editing bool
	editor  textinput.Model

	// Search bar
	searching     bool
	searchFocused bool
	search        textinput.Model

	dialog   *dialogState
	showHelp bool

	status         string
	statusKind     statusKind
	externalChange bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	doc := opts.Document
	if doc == nil {
		doc = document.New(document.WithLogger(logger))
	}

	copyFn := opts.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	editor := textinput.New()
	editor.Prompt = ""

	search := textinput.New()
	search.Prompt = "Search: "
	search.Placeholder = "number, or names in any order"

	return Model{
		ctx:       ctx,
		doc:       doc,
		logger:    logger,
		keys:      DefaultKeyMap(),
		prefs:     opts.Prefs,
		prefsPath: opts.PrefsPath,
		clipboard: copyFn,
		watcher: &fileWatcher{
			ctx:      ctx,
			enabled:  opts.Watch,
			debounce: opts.WatchDebounce,
			logger:   logger,
		},
		theme:  GetTheme(opts.Prefs.Theme),
		col:    columnIndex(records.People),
		editor: editor,
		search: search,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.SetWindowTitle(m.windowTitle())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	before := m.windowTitle()
	next, cmd := m.update(msg)
	if nm, ok := next.(Model); ok {
		if title := nm.windowTitle(); title != before {
			cmd = tea.Batch(cmd, tea.SetWindowTitle(title))
		}
	}
	return next, cmd
}

func (m Model) update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.clampCursor()
		if m.dialog != nil {
			return m.updateDialog(msg)
		}
		return m, nil

	case fileChangedMsg:
		m.handleFileChanged(msg)
		return m, nil
	}

	if m.dialog != nil {
		return m.updateDialog(msg)
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(msg)
	}

	// Cursor blink and other component messages.
	var cmd tea.Cmd
	switch {
	case m.editing:
		m.editor, cmd = m.editor.Update(msg)
	case m.searchFocused:
		m.search, cmd = m.search.Update(msg)
	}
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.dialog != nil {
		return m.renderDialog()
	}
	return m.renderMain()
}

// handleKey processes keyboard input outside dialogs.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}
	if msg.Type == tea.KeyCtrlC {
		return m.requestQuit()
	}
	if m.editing {
		return m.handleEditKey(msg)
	}
	if m.searchFocused {
		return m.handleSearchKey(msg)
	}

	m.clearStatus()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.requestQuit()

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.cycleTheme()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if m.searching {
			m.closeSearch()
		}
		return m, nil

	case key.Matches(msg, m.keys.Save):
		return m.save()

	case key.Matches(msg, m.keys.SaveAs):
		return m.openPathDialog(actionSaveAs)

	case key.Matches(msg, m.keys.Open):
		return m.requestOpen()

	case key.Matches(msg, m.keys.Reload):
		return m.requestReload()

	case key.Matches(msg, m.keys.Insert):
		return m.insertRow()

	case key.Matches(msg, m.keys.Edit):
		return m.startEdit()

	case key.Matches(msg, m.keys.Search):
		return m.openSearch()

	case key.Matches(msg, m.keys.CopyRow):
		m.copyRow()
		return m, nil
	}

	m.handleNavigation(msg)
	return m, nil
}

// requestQuit quits, asking first when there are unsaved changes.
func (m Model) requestQuit() (tea.Model, tea.Cmd) {
	if m.doc.IsDirty() {
		return m.openDiscardDialog(actionQuit)
	}
	return m, tea.Quit
}

func (m Model) requestOpen() (tea.Model, tea.Cmd) {
	if m.doc.IsDirty() {
		return m.openDiscardDialog(actionOpen)
	}
	return m.openPathDialog(actionOpen)
}

func (m Model) requestReload() (tea.Model, tea.Cmd) {
	if m.doc.Path() == "" {
		m.setStatus(statusWarning, "Nothing to reload: no file is open")
		return m, nil
	}
	if m.doc.IsDirty() {
		return m.openDiscardDialog(actionReload)
	}
	return m.loadFile(m.doc.Path())
}

// loadFile replaces the document with the records in path.
func (m Model) loadFile(path string) (tea.Model, tea.Cmd) {
	if err := m.doc.Load(path); err != nil {
		m.logger.Error("open failed", slog.String("path", path), slog.String("error", err.Error()))
		m.setStatus(statusError, fmt.Sprintf("Open failed: %v", err))
		return m, nil
	}

	// Loading resets the needle.
	m.searching = false
	m.searchFocused = false
	m.search.Blur()
	m.search.SetValue("")

	m.row, m.offset = 0, 0
	m.externalChange = false
	m.rememberRecent(m.doc.Path())
	m.watcher.follow(m.doc.Path())
	m.setStatus(statusSuccess, fmt.Sprintf("Opened %s (%d cards)", filepath.Base(m.doc.Path()), m.doc.Store().Len()))
	return m, nil
}

func (m Model) save() (tea.Model, tea.Cmd) {
	if err := m.doc.Save(); err != nil {
		if errors.Is(err, document.ErrNoSource) {
			return m.openPathDialog(actionSaveAs)
		}
		m.logger.Error("save failed", slog.String("path", m.doc.Path()), slog.String("error", err.Error()))
		m.setStatus(statusError, fmt.Sprintf("Save failed: %v", err))
		return m, nil
	}
	m.externalChange = false
	m.setStatus(statusSuccess, "Saved "+filepath.Base(m.doc.Path()))
	return m, nil
}

func (m Model) saveAs(path string) (tea.Model, tea.Cmd) {
	if err := m.doc.SaveAs(path); err != nil {
		m.logger.Error("save failed", slog.String("path", path), slog.String("error", err.Error()))
		m.setStatus(statusError, fmt.Sprintf("Save failed: %v", err))
		return m, nil
	}
	m.externalChange = false
	m.rememberRecent(m.doc.Path())
	m.watcher.follow(m.doc.Path())
	m.setStatus(statusSuccess, "Saved "+filepath.Base(m.doc.Path()))
	return m, nil
}

// insertRow appends a numbered card and starts editing its People cell.
func (m Model) insertRow() (tea.Model, tea.Cmd) {
	if m.searching {
		m.setStatus(statusWarning, "Close the search to add a card")
		return m, nil
	}
	h, pos := m.doc.InsertRow()
	number, _ := m.doc.Store().Field(h, records.Number)
	if pos < 0 {
		m.setStatus(statusInfo, "Added card "+number)
		return m, nil
	}
	m.row = pos
	m.col = columnIndex(records.People)
	m.ensureVisible()
	next, cmd := m.startEdit()
	nm := next.(Model)
	nm.setStatus(statusSuccess, "Added card "+number)
	return nm, cmd
}

func (m *Model) copyRow() {
	rec, ok := m.doc.Row(m.row)
	if !ok {
		return
	}
	if err := m.clipboard(csvfile.FormatRecord(rec)); err != nil {
		m.logger.Warn("clipboard write failed", slog.String("error", err.Error()))
		m.setStatus(statusError, fmt.Sprintf("Copy failed: %v", err))
		return
	}
	m.setStatus(statusSuccess, "Copied card "+rec.Get(records.Number))
}

func (m *Model) cycleTheme() {
	m.theme = GetTheme(NextTheme(m.theme.Name))
	m.prefs.Theme = m.theme.Name
	m.savePrefs()
	m.setStatus(statusInfo, "Theme: "+m.theme.Name)
}

func (m *Model) rememberRecent(path string) {
	if path == "" {
		return
	}
	m.prefs.AddRecent(path)
	m.savePrefs()
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.logger.Warn("save prefs failed", slog.String("path", m.prefsPath), slog.String("error", err.Error()))
	}
}

// handleFileChanged warns when the open file no longer holds what was last
// loaded or saved. Our own saves produce events too; their checksum matches.
func (m *Model) handleFileChanged(msg fileChangedMsg) {
	if msg.path != m.doc.Path() {
		return
	}
	changed, err := m.doc.ChangedOnDisk()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			m.externalChange = true
			m.setStatus(statusWarning, filepath.Base(msg.path)+" was removed from disk")
			return
		}
		m.logger.Warn("checksum failed", slog.String("path", msg.path), slog.String("error", err.Error()))
		return
	}
	if !changed {
		return
	}
	m.externalChange = true
	m.logger.Info("file changed on disk", slog.String("path", msg.path))
	m.setStatus(statusWarning, filepath.Base(msg.path)+" changed on disk; ctrl+r reloads it")
}

func (m *Model) setStatus(kind statusKind, text string) {
	m.statusKind = kind
	m.status = text
}

func (m *Model) clearStatus() {
	m.status = ""
	m.statusKind = statusInfo
}

func (m Model) windowTitle() string {
	if m.doc.Path() == "" {
		return "Tesserama"
	}
	return m.doc.Title() + " (" + m.doc.Subtitle() + ") - Tesserama"
}

// Run starts the Bubble Tea program and blocks until it exits.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))

	m.watcher.send = p.Send
	m.watcher.follow(m.doc.Path())
	defer m.watcher.stop()

	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
