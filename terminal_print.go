package bitty

// InterpretPtyInput feeds one byte read from the PTY into the terminal's
// state machine. It is the sole entry point for PTY output: the caller
// (normally the event loop draining an EventQueue's DataFromTty events)
// must call it once per byte, in order, with no buffering of its own.
func (t *Terminal) InterpretPtyInput(b byte) {
	if t.parsingEscapeCode {
		t.lastEscapeSeq = append(t.lastEscapeSeq, b)

		switch t.escapeParser.EatByte(b) {
		case EatNone:
			return

		case EatError:
			t.parsingEscapeCode = false
			t.reportUnparsedSequence()
			return

		case EatAccept:
			t.parsingEscapeCode = false
			if result, ok := t.escapeParser.Result(); ok {
				t.dispatchEscapeRule(result)
			}
			return

		case EatAcceptButLastByteIsExtra:
			t.parsingEscapeCode = false
			if result, ok := t.escapeParser.Result(); ok {
				t.dispatchEscapeRule(result)
			}
			t.InterpretPtyInput(b)
			return
		}
		return
	}

	if b == 0x1b {
		t.parsingEscapeCode = true
		t.lastEscapeSeq = t.lastEscapeSeq[:0]
		return
	}

	r, ok := t.utf8Decoder.Feed(b)
	if !ok {
		return
	}
	t.handleRune(r)
}

// handleRune processes one fully-decoded codepoint: either a control
// function handled directly by the core, or a printable glyph.
func (t *Terminal) handleRune(r rune) {
	switch r {
	case '\r':
		t.CarriageReturn()
	case '\n', '\v', '\f':
		t.LineFeed()
	case '\b':
		t.backspace()
	case '\t':
		t.tab()
	case '\a':
		// Bell has no core-level effect; an owner wanting an audible or
		// visual bell listens for it via the PTY reader's own byte stream.
	default:
		if r < 0x20 {
			return
		}
		t.printRune(r)
	}
}

// tab advances the cursor 4 columns. Like printRune's advance, this is
// unclamped: an overflowing cursor is resolved by the next printRune's
// wrap check rather than by tab itself.
func (t *Terminal) tab() {
	for i := 0; i < 4; i++ {
		t.GoForwardX(1)
	}
}

// backspace moves the cursor left one column. With reverse wraparound
// enabled, backspacing at the left margin moves to the end of the
// previous line instead of stopping.
func (t *Terminal) backspace() {
	t.GoBackX(1)
}

// printRune writes one displayable codepoint at the cursor and advances
// it by exactly one column, regardless of how many cells the glyph
// occupies. A glyph that would overflow the right margin triggers an
// autowrap (carriage return + line feed) before being drawn, unless
// autowrap is disabled, in which case the cursor instead clamps to the
// last column of the scroll region and the glyph is drawn there. A wide
// glyph occupies width consecutive cells, each carrying the same
// DisplayedCode and SegmentCount so a renderer can recover which cells
// belong together. Printing a literal space over the tail of a wide
// glyph is suppressed rather than splitting it.
func (t *Terminal) printRune(r rune) {
	segments := uint16(1)
	if r >= 256 {
		if w := t.metrics.WidthInCells(r); w > 0 {
			segments = uint16(w)
		}
	}

	if r == ' ' {
		if prev, ok := t.buf.Get(subSatU32(t.cursorX, 1), t.cursorY, false); ok {
			if prev.SegmentCount > 1 && prev.SegmentIndex != prev.SegmentCount-1 {
				return
			}
		}
	}

	if t.cursorX >= t.scrollArea.Right {
		if !t.forwardWraparound {
			t.cursorX = subSatU32(t.scrollArea.Right, 1)
		} else {
			t.CarriageReturn()
			t.LineFeed()
		}
	}

	for seg := uint16(0); seg < segments; seg++ {
		cell := NewCell(r, t.currentCellFlags, seg, segments)
		t.setColoredCellAt(t.cursorX+uint32(seg), t.cursorY, NewColoredCell(cell, t.currentFg, t.currentBg))
	}
	t.GoForwardX(1)
}

func (t *Terminal) setCellAt(x, y uint32, cell Cell) bool {
	return t.buf.Set(x, y, NewColoredCell(cell, t.currentFg, t.currentBg), false)
}

func (t *Terminal) setColoredCellAt(x, y uint32, cell ColoredCell) bool {
	return t.buf.Set(x, y, cell, false)
}

// CarriageReturn moves the cursor to the left edge of the scroll region.
func (t *Terminal) CarriageReturn() {
	t.cursorX = t.scrollArea.Left
}

// LineFeed moves the cursor down one row. When the cursor is already on
// the scroll region's bottom margin, it scrolls instead: on the normal
// buffer with the default (full-window) region this grows scrollback
// history, otherwise it shifts only the region's own content up by one
// line. When LNM is set, it also performs a carriage return (so "\n"
// alone behaves like "\r\n").
func (t *Terminal) LineFeed() {
	if t.cursorY+1 < t.scrollArea.Bottom {
		t.cursorY++
	} else {
		t.scrollNormalOrShiftUp(1, true)
	}
	if t.lnmFlag {
		t.cursorX = t.scrollArea.Left
	}
}

// ReverseIndex moves the cursor up one row, scrolling the scroll region
// down by one line if it is already at the top margin. It is the inverse
// of LineFeed, used by ESC M.
func (t *Terminal) ReverseIndex() {
	if t.cursorY > t.scrollArea.Top {
		t.cursorY--
	} else {
		t.scrollNormalOrShiftDown(1, false)
	}
}

// GoForwardX advances the cursor by n columns with no clamp. printRune and
// tab rely on this going one column past the right margin when a line is
// full: the overflow is what printRune's wrap check on the next call
// detects to trigger autowrap. Escape-sequence-driven forward motion (CUF)
// uses moveCursorForward instead, which clamps to the right margin.
func (t *Terminal) GoForwardX(n uint32) {
	t.cursorX = addSatU32(t.cursorX, n)
}

// moveCursorForward implements CUF (ESC [ Ps C): move right n columns,
// clamped to the last column of the buffer.
func (t *Terminal) moveCursorForward(n uint32) {
	t.cursorX = min(addSatU32(t.cursorX, n), t.buf.Width()-1)
}

// GoBackX moves the cursor back n columns for backspace. With reverse
// wraparound enabled, backspacing off the scroll region's left margin
// wraps to the end of the previous line instead of stopping; otherwise
// it clamps to the margin. Escape-sequence-driven leftward motion (CUB)
// uses moveCursorBack instead, which never wraps.
func (t *Terminal) GoBackX(n uint32) {
	for ; n > 0; n-- {
		if t.cursorX == t.scrollArea.Left {
			if t.reverseWraparound && t.cursorY > 0 {
				t.cursorX = subSatU32(t.scrollArea.Right, 1)
				t.cursorY--
			}
			continue
		}
		t.cursorX--
	}
}

// shiftRegionUp moves area's content up by n lines in place, discarding
// the top n lines and filling the bottom n with empty cells.
func (t *Terminal) shiftRegionUp(area Rect[uint32], n uint32) {
	if n == 0 || area.Height() == 0 {
		return
	}
	if n >= area.Height() {
		t.buf.FillArea(area, t.getEmptyCell())
		return
	}
	t.buf.CopyArea(
		Rect[uint32]{Left: area.Left, Top: area.Top + n, Right: area.Right, Bottom: area.Bottom},
		Rect[uint32]{Left: area.Left, Top: area.Top, Right: area.Right, Bottom: area.Bottom - n},
	)
	t.buf.FillArea(Rect[uint32]{Left: area.Left, Top: area.Bottom - n, Right: area.Right, Bottom: area.Bottom}, t.getEmptyCell())
}

// shiftRegionDown moves area's content down by n lines in place,
// discarding the bottom n lines and filling the top n with empty cells.
func (t *Terminal) shiftRegionDown(area Rect[uint32], n uint32) {
	if n == 0 || area.Height() == 0 {
		return
	}
	if n >= area.Height() {
		t.buf.FillArea(area, t.getEmptyCell())
		return
	}
	t.buf.CopyArea(
		Rect[uint32]{Left: area.Left, Top: area.Top, Right: area.Right, Bottom: area.Bottom - n},
		Rect[uint32]{Left: area.Left, Top: area.Top + n, Right: area.Right, Bottom: area.Bottom},
	)
	t.buf.FillArea(Rect[uint32]{Left: area.Left, Top: area.Top, Right: area.Right, Bottom: area.Top + n}, t.getEmptyCell())
}

// scrollNormalOrShiftUp is the shared path behind LineFeed's scroll-at-
// bottom-margin case and Pan down (SU): on the normal buffer with the
// default full-window scroll region, it grows scrollback history via
// CellBuffer.ScrollByNCells; otherwise it shifts only the scroll
// region's own content up by n lines, discarding what scrolls off top.
func (t *Terminal) scrollNormalOrShiftUp(n uint32, expand bool) {
	if t.IsUsingNormalBuffer() && t.scrollArea == t.getDefaultScrollArea() {
		t.buf.ScrollByNCells(int32(n), expand)
		return
	}
	t.shiftRegionUp(t.scrollArea, n)
}

// scrollNormalOrShiftDown is the shared path behind ReverseIndex's
// scroll-at-top-margin case and Pan up (SD): on the normal buffer with
// the default full-window scroll region, it consumes scrollback history
// via CellBuffer.ScrollByNCells(-n, ...); otherwise it shifts only the
// scroll region's own content down by n lines, discarding what scrolls
// off the bottom.
func (t *Terminal) scrollNormalOrShiftDown(n uint32, expand bool) {
	if t.IsUsingNormalBuffer() && t.scrollArea == t.getDefaultScrollArea() {
		t.buf.ScrollByNCells(-int32(n), expand)
		return
	}
	t.shiftRegionDown(t.scrollArea, n)
}
