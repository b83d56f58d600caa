package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/tesserama/internal/records"
)

// displayColumns is the on-screen column order.
var displayColumns = []records.Column{
	records.Number,
	records.People,
	records.Signature,
	records.ID,
	records.Flags,
	records.Date,
}

var columnTitles = map[records.Column]string{
	records.Number:    "No.",
	records.People:    "People",
	records.Signature: "Signature",
	records.ID:        "ID",
	records.Flags:     "Flags",
	records.Date:      "Date",
}

// Fixed widths; People takes what is left.
var columnWidths = map[records.Column]int{
	records.Number:    6,
	records.Signature: 14,
	records.ID:        10,
	records.Flags:     8,
	records.Date:      10,
}

const minPeopleWidth = 12

func columnIndex(c records.Column) int {
	for i, dc := range displayColumns {
		if dc == c {
			return i
		}
	}
	return 0
}

func (m Model) currentColumn() records.Column {
	return displayColumns[m.col]
}

// layoutWidths returns the width of every display column for the terminal width.
func (m Model) layoutWidths() []int {
	widths := make([]int, len(displayColumns))
	used := 1 + len(displayColumns) - 1 // left margin and separators
	for i, c := range displayColumns {
		widths[i] = columnWidths[c]
		used += widths[i]
	}
	people := columnIndex(records.People)
	widths[people] = max(m.width-used, minPeopleWidth)
	return widths
}

// gridHeight is the number of record lines that fit on screen.
func (m Model) gridHeight() int {
	chrome := 3 // header, column titles, status line
	if m.searching {
		chrome++
	}
	return max(m.height-chrome, 1)
}

func (m *Model) clampCursor() {
	n := m.doc.Len()
	if m.row >= n {
		m.row = n - 1
	}
	if m.row < 0 {
		m.row = 0
	}
	m.ensureVisible()
}

func (m *Model) ensureVisible() {
	h := m.gridHeight()
	if m.row < m.offset {
		m.offset = m.row
	}
	if m.row >= m.offset+h {
		m.offset = m.row - h + 1
	}
	if maxOffset := max(m.doc.Len()-h, 0); m.offset > maxOffset {
		m.offset = maxOffset
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m *Model) handleNavigation(msg tea.KeyMsg) {
	page := m.gridHeight()
	switch {
	case key.Matches(msg, m.keys.Up):
		m.row--
	case key.Matches(msg, m.keys.Down):
		m.row++
	case key.Matches(msg, m.keys.Top):
		m.row = 0
	case key.Matches(msg, m.keys.Bottom):
		m.row = m.doc.Len() - 1
	case key.Matches(msg, m.keys.PageUp):
		m.row -= page
	case key.Matches(msg, m.keys.PageDown):
		m.row += page
	case key.Matches(msg, m.keys.Left):
		m.col = max(m.col-1, 0)
	case key.Matches(msg, m.keys.Right):
		m.col = min(m.col+1, len(displayColumns)-1)
	case key.Matches(msg, m.keys.NextCell):
		m.col = (m.col + 1) % len(displayColumns)
	case key.Matches(msg, m.keys.PrevCell):
		m.col = (m.col + len(displayColumns) - 1) % len(displayColumns)
	default:
		return
	}
	m.clampCursor()
}

// startEdit opens the cell editor on the cell under the cursor.
func (m Model) startEdit() (tea.Model, tea.Cmd) {
	rec, ok := m.doc.Row(m.row)
	if !ok {
		return m, nil
	}
	m.editing = true
	m.editor.SetValue(rec.Get(m.currentColumn()))
	m.editor.CursorEnd()
	m.editor.Width = max(m.layoutWidths()[m.col]-1, 1)
	return m, m.editor.Focus()
}

func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.editing = false
		m.editor.Blur()
		return m, nil
	case tea.KeyEnter, tea.KeyTab:
		m.commitEdit()
		if msg.Type == tea.KeyTab {
			m.col = (m.col + 1) % len(displayColumns)
			return m.startEdit()
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return m, cmd
}

func (m *Model) commitEdit() {
	m.editing = false
	m.editor.Blur()

	col := m.currentColumn()
	changed, err := m.doc.UpdateColumn(m.row, col, m.editor.Value())
	if err != nil {
		m.setStatus(statusError, fmt.Sprintf("Edit failed: %v", err))
		return
	}
	if changed {
		m.setStatus(statusInfo, columnTitles[col]+" updated")
	}
}

// openSearch shows the search bar and focuses it.
func (m Model) openSearch() (tea.Model, tea.Cmd) {
	m.searching = true
	m.searchFocused = true
	m.search.CursorEnd()
	m.clampCursor()
	return m, m.search.Focus()
}

func (m *Model) closeSearch() {
	m.searching = false
	m.searchFocused = false
	m.search.Blur()
	m.search.SetValue("")
	m.doc.Search("")
	m.clampCursor()
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeSearch()
		return m, nil
	case tea.KeyEnter, tea.KeyDown, tea.KeyTab:
		// Keep the results and hand the keyboard back to the grid.
		m.searchFocused = false
		m.search.Blur()
		return m, nil
	}

	prev := m.search.Value()
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if value := m.search.Value(); value != prev {
		m.doc.Search(value)
		m.row, m.offset = 0, 0
	}
	return m, cmd
}

// renderMain renders the header, grid and status line.
func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderColumnTitles())
	b.WriteString("\n")
	b.WriteString(m.renderRows())
	if m.searching {
		b.WriteString(m.renderSearchBar())
		b.WriteString("\n")
	}
	b.WriteString(m.renderStatus())
	return b.String()
}

func (m Model) renderColumnTitles() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)
	widths := m.layoutWidths()

	cells := make([]string, len(displayColumns))
	for i, c := range displayColumns {
		style := styles.ColumnTitle
		if i == m.col {
			style = style.Underline(true)
		}
		cells[i] = style.Render(fitCell(columnTitles[c], widths[i]))
	}
	return bg.FillLine(bg.Spaces(1)+bg.Join(cells, " "), m.width)
}

func (m Model) renderRows() string {
	styles := m.theme.Styles()
	widths := m.layoutWidths()
	height := m.gridHeight()

	var b strings.Builder
	if m.doc.Len() == 0 {
		msg := "No cards yet. Press a to add one."
		if m.doc.Needle() != "" {
			msg = "No cards match the search."
		}
		bg := NewBgStyle(m.theme.Background)
		b.WriteString(bg.FillLine(bg.Spaces(1)+bg.Render(msg, styles.MutedText), m.width))
		b.WriteString("\n")
		height--
	}

	for line := range height {
		pos := m.offset + line
		if pos >= m.doc.Len() {
			b.WriteString(NewBgStyle(m.theme.Background).FillLine("", m.width))
			b.WriteString("\n")
			continue
		}
		b.WriteString(m.renderRow(pos, widths, styles))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderRow(pos int, widths []int, styles Styles) string {
	rec, _ := m.doc.Row(pos)

	rowStyle, bgColor := styles.Row, m.theme.Background
	switch {
	case pos == m.row:
		rowStyle, bgColor = styles.RowFocus, m.theme.FocusBg
	case pos%2 == 1:
		rowStyle, bgColor = styles.RowAlt, m.theme.SurfaceAlt
	}
	bg := NewBgStyle(bgColor)

	cells := make([]string, len(displayColumns))
	for i, c := range displayColumns {
		if pos == m.row && i == m.col {
			if m.editing {
				cells[i] = lipgloss.NewStyle().Width(widths[i]).MaxWidth(widths[i]).Render(m.editor.View())
				continue
			}
			cells[i] = styles.Selected.Render(fitCell(rec.Get(c), widths[i]))
			continue
		}
		cells[i] = rowStyle.Render(fitCell(rec.Get(c), widths[i]))
	}
	return bg.FillLine(bg.Spaces(1)+bg.Join(cells, " "), m.width)
}

func (m Model) renderSearchBar() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)
	hint := "enter: browse results  esc: close"
	if !m.searchFocused {
		hint = "/: refine  esc: close"
	}
	line := bg.Spaces(1) + m.search.View() + bg.Spaces(2) + bg.Render(hint, styles.FaintText)
	return bg.FillLine(line, m.width)
}
