// Package textutil prepares remote-controlled text for terminal display.
package textutil

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const DefaultTabWidth = 4

// ExpandTabs replaces tabs with spaces respecting terminal column width.
func ExpandTabs(text string, tabWidth int) string {
	if tabWidth <= 0 || !strings.ContainsRune(text, '\t') {
		return text
	}

	var b strings.Builder
	column := 0
	for _, r := range text {
		if r == '\t' {
			spaces := tabWidth - (column % tabWidth)
			for i := 0; i < spaces; i++ {
				b.WriteByte(' ')
			}
			column += spaces
			continue
		}
		b.WriteRune(r)
		w := runewidth.RuneWidth(r)
		if w < 1 {
			w = 1
		}
		column += w
	}
	return b.String()
}

// DisplayWidth reports the printable width of text accounting for wide runes.
func DisplayWidth(text string) int {
	width := 0
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w <= 0 {
			w = 1
		}
		width += w
	}
	return width
}

// SanitizeTerminalText neutralizes control characters so file names and
// preview content fetched from the store cannot inject terminal escape
// sequences.
func SanitizeTerminalText(text string) string {
	clean := true
	for _, r := range text {
		if isControlRune(r) {
			clean = false
			break
		}
	}
	if clean {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\n' || r == '\r':
			b.WriteByte(' ')
		case isControlRune(r):
			b.WriteByte('?')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isControlRune(r rune) bool {
	if r == '\t' {
		return false
	}
	return (r >= 0 && r < 0x20) || r == 0x7f || isFormattingRune(r)
}

// isFormattingRune matches bidi and zero-width formatting characters that can
// visually spoof adjacent text.
func isFormattingRune(r rune) bool {
	switch r {
	case 0x00AD, 0x061C, 0x180E, 0xFEFF:
		return true
	}
	if r >= 0x200B && r <= 0x200F {
		return true
	}
	if r >= 0x2028 && r <= 0x202E {
		return true
	}
	if r >= 0x2060 && r <= 0x206F {
		return true
	}
	return false
}
