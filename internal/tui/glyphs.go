package tui

import (
	"os"
	"strings"
)

// Some terminal fonts render the Unicode affordances poorly; ASCII is the
// fallback.
type glyphSet int

const (
	glyphSetUnicode glyphSet = iota
	glyphSetASCII
)

func parseGlyphSet(configured string) glyphSet {
	v := strings.TrimSpace(os.Getenv("OUTLINER_TUI_GLYPHS"))
	if v == "" {
		v = configured
	}
	if strings.EqualFold(strings.TrimSpace(v), "ascii") {
		return glyphSetASCII
	}
	return glyphSetUnicode
}

func (g glyphSet) handle() string {
	if g == glyphSetASCII {
		return "::"
	}
	return "⠿"
}

func (g glyphSet) twisty(collapsed bool) string {
	switch {
	case g == glyphSetASCII && collapsed:
		return ">"
	case g == glyphSetASCII:
		return "v"
	case collapsed:
		return "▸"
	default:
		return "▾"
	}
}

func (g glyphSet) bullet() string {
	if g == glyphSetASCII {
		return "*"
	}
	return "•"
}

func (g glyphSet) ellipsis() string {
	if g == glyphSetASCII {
		return "..."
	}
	return "…"
}
