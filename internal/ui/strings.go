package ui

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// fitCell renders value into exactly width terminal cells: line breaks are
// flattened, wide text is cut with an ellipsis and short text is padded.
func fitCell(value string, width int) string {
	if width <= 0 {
		return ""
	}
	value = strings.Join(strings.Fields(value), " ")
	if runewidth.StringWidth(value) > width {
		value = runewidth.Truncate(value, width, "…")
	}
	return runewidth.FillRight(value, width)
}

// truncateMiddle shortens value by dropping runes from its middle so both
// ends stay readable. Used for file paths in the header.
func truncateMiddle(value string, limit int) string {
	value = strings.TrimSpace(value)
	if limit <= 0 || runewidth.StringWidth(value) <= limit {
		return value
	}
	if limit <= 3 {
		return runewidth.Truncate(value, limit, "")
	}

	runes := []rune(value)
	keep := limit - 1
	prefix := keep / 2
	suffix := keep - prefix

	head := runewidth.Truncate(value, prefix, "")
	tail := ""
	for i := len(runes) - 1; i >= 0; i-- {
		candidate := string(runes[i:])
		if runewidth.StringWidth(candidate) > suffix {
			break
		}
		tail = candidate
	}
	return head + "…" + tail
}
