package ui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/tesserama/internal/config"
)

type dialogKind int

const (
	dialogDiscard dialogKind = iota
	dialogPath
)

// pendingAction is what runs once a dialog is confirmed.
type pendingAction int

const (
	actionOpen pendingAction = iota
	actionQuit
	actionReload
	actionSaveAs
)

// dialogState lives on the heap: the huh form keeps pointers to its fields
// while the Model itself is copied on every update.
type dialogState struct {
	kind      dialogKind
	then      pendingAction
	confirmed bool
	path      string
	form      *huh.Form
}

func newForm(groups ...*huh.Group) *huh.Form {
	form := huh.NewForm(groups...).
		WithTheme(huh.ThemeDracula()).
		WithShowHelp(true).
		WithWidth(56)
	// Embedded forms must not end the program.
	form.SubmitCmd = nil
	form.CancelCmd = nil
	return form
}

func newDiscardDialog(then pendingAction) *dialogState {
	d := &dialogState{kind: dialogDiscard, then: then}
	d.form = newForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Discard unsaved changes?").
				Description("Your edits to this file have not been saved.").
				Affirmative("Discard").
				Negative("Cancel").
				Value(&d.confirmed),
		),
	)
	return d
}

func newPathDialog(then pendingAction, initial string) *dialogState {
	d := &dialogState{kind: dialogPath, then: then, path: initial}
	title := "Open card file"
	if then == actionSaveAs {
		title = "Save cards as"
	}
	d.form = newForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Placeholder("~/cards.csv").
				Value(&d.path).
				Validate(pathValidator(then)),
		),
	)
	return d
}

func pathValidator(then pendingAction) func(string) error {
	return func(value string) error {
		if strings.TrimSpace(value) == "" {
			return errors.New("enter a file path")
		}
		path, err := config.ExpandPath(value)
		if err != nil {
			return err
		}
		if then == actionSaveAs {
			info, err := os.Stat(filepath.Dir(path))
			if err != nil || !info.IsDir() {
				return fmt.Errorf("no such directory: %s", filepath.Dir(path))
			}
			return nil
		}
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("no such file: %s", path)
		}
		if !info.Mode().IsRegular() {
			return fmt.Errorf("not a regular file: %s", path)
		}
		return nil
	}
}

func (m Model) openDiscardDialog(then pendingAction) (tea.Model, tea.Cmd) {
	m.dialog = newDiscardDialog(then)
	return m, m.dialog.form.Init()
}

func (m Model) openPathDialog(then pendingAction) (tea.Model, tea.Cmd) {
	initial := ""
	if p := m.doc.Path(); p != "" {
		initial = filepath.Dir(p) + string(filepath.Separator)
	}
	m.dialog = newPathDialog(then, initial)
	return m, m.dialog.form.Init()
}

// updateDialog routes messages to the open dialog's form.
func (m Model) updateDialog(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok && (k.Type == tea.KeyEsc || k.Type == tea.KeyCtrlC) {
		m.dialog = nil
		m.setStatus(statusInfo, "Cancelled")
		return m, nil
	}

	form, cmd := m.dialog.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.dialog.form = f
	}

	switch m.dialog.form.State {
	case huh.StateCompleted:
		d := m.dialog
		m.dialog = nil
		return m.finishDialog(d)
	case huh.StateAborted:
		m.dialog = nil
		return m, nil
	}
	return m, cmd
}

// finishDialog carries out the action of a completed dialog.
func (m Model) finishDialog(d *dialogState) (tea.Model, tea.Cmd) {
	switch d.kind {
	case dialogDiscard:
		if !d.confirmed {
			m.setStatus(statusInfo, "Kept unsaved changes")
			return m, nil
		}
		switch d.then {
		case actionQuit:
			return m, tea.Quit
		case actionReload:
			return m.loadFile(m.doc.Path())
		default:
			return m.openPathDialog(actionOpen)
		}

	case dialogPath:
		path, err := config.ExpandPath(d.path)
		if err != nil {
			m.setStatus(statusError, err.Error())
			return m, nil
		}
		if d.then == actionSaveAs {
			return m.saveAs(path)
		}
		return m.loadFile(path)
	}
	return m, nil
}

func (m Model) renderDialog() string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(m.theme.BorderFocus)).
		Padding(1, 2)

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		box.Render(m.dialog.form.View()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(m.theme.Background)),
	)
}
