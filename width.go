package bitty

import "github.com/unilibs/uniwidth"

// RuneWidthInCells returns the number of terminal columns a codepoint
// occupies: 2 for wide characters (CJK ideographs, fullwidth forms, most
// emoji), 1 for ordinary characters, 0 for combining marks and other
// zero-width codepoints.
func RuneWidthInCells(r rune) int {
	return uniwidth.RuneWidth(r)
}

// DefaultFontMetrics wraps uniwidth's codepoint-width tables behind the
// FontMetrics interface, with fixed pixel cell dimensions. A real
// application typically supplies its own FontMetrics backed by an actual
// loaded font; this implementation is useful for headless use and tests.
type DefaultFontMetrics struct {
	CellWPx, CellHPx uint32
}

// NewDefaultFontMetrics returns a FontMetrics with the given fixed cell
// pixel dimensions.
func NewDefaultFontMetrics(cellWidthPx, cellHeightPx uint32) *DefaultFontMetrics {
	return &DefaultFontMetrics{CellWPx: cellWidthPx, CellHPx: cellHeightPx}
}

func (m *DefaultFontMetrics) CellWidthPx() uint32  { return m.CellWPx }
func (m *DefaultFontMetrics) CellHeightPx() uint32 { return m.CellHPx }

// WidthInCells returns 1 or 2, per uniwidth's rune width table. Zero-width
// codepoints are reported as width 1 here: the terminal dispatcher only
// calls this for codepoints that actually advance the cursor, so a
// combining mark reaching this far is treated as occupying its own cell
// rather than silently vanishing.
func (m *DefaultFontMetrics) WidthInCells(r rune) uint32 {
	w := uniwidth.RuneWidth(r)
	if w == 2 {
		return 2
	}
	return 1
}
