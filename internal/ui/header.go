package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the file name, its directory and the document badges.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	title := m.doc.Title()
	if title == "" {
		title = "untitled"
	}

	var right []string
	if m.externalChange {
		right = append(right, bg.Render("changed on disk", styles.DangerText))
	}
	if m.doc.IsDirty() {
		right = append(right, styles.Badge(badgeModified).Render(badgeModified))
	}
	if m.doc.Needle() != "" {
		right = append(right, styles.Badge(badgeSearch).Render(badgeSearch))
	}
	right = append(right, bg.Render(m.countLabel(), styles.MutedText))
	rightText := bg.Join(right, " ") + bg.Spaces(1)

	left := bg.Spaces(1) +
		bg.Render("Tesserama", styles.AccentText.Bold(true)) +
		bg.Render(" │ ", styles.FaintText) +
		bg.Render(title, styles.Text.Bold(true))

	room := m.width - lipgloss.Width(left) - lipgloss.Width(rightText) - 2
	if dir := m.doc.Subtitle(); dir != "" && room > 4 {
		left += bg.Spaces(2) + bg.Render(truncateMiddle(dir, room), styles.MutedText)
	}

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(rightText), 1)
	return bg.FillLine(left+bg.Spaces(gap)+rightText, m.width)
}

func (m Model) countLabel() string {
	total := m.doc.Store().Len()
	if m.doc.Needle() != "" {
		return fmt.Sprintf("%d of %d cards", m.doc.Len(), total)
	}
	if total == 1 {
		return "1 card"
	}
	return fmt.Sprintf("%d cards", total)
}

// renderStatus renders the last message, or key hints when there is none.
func (m Model) renderStatus() string {
	styles := m.theme.Styles()
	bg := NewBgStyle(m.theme.Surface)

	var left string
	switch {
	case m.status != "":
		style := styles.Text
		switch m.statusKind {
		case statusSuccess:
			style = styles.SuccessText
		case statusWarning:
			style = styles.WarningText
		case statusError:
			style = styles.DangerText
		}
		left = bg.Render(m.status, style)
	case m.editing:
		left = bg.Render("enter: save cell  tab: next cell  esc: cancel", styles.MutedText)
	default:
		hints := make([]string, 0, len(m.keys.ShortHelp()))
		for _, b := range m.keys.ShortHelp() {
			h := b.Help()
			hints = append(hints, bg.Render(h.Key, styles.WarningText)+bg.Spaces(1)+bg.Render(strings.ToLower(h.Desc), styles.MutedText))
		}
		left = bg.Join(hints, "  ")
	}

	position := ""
	if n := m.doc.Len(); n > 0 {
		position = bg.Render(fmt.Sprintf("%s  %d/%d", columnTitles[m.currentColumn()], m.row+1, n), styles.FaintText)
	}

	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(position)-2, 1)
	return bg.FillLine(bg.Spaces(1)+left+bg.Spaces(gap)+position+bg.Spaces(1), m.width)
}
