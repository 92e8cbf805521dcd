package bitty

import "fmt"

// FontMetrics is the external collaborator providing cell pixel dimensions
// and per-codepoint display width. The core never rasterizes glyphs itself.
type FontMetrics interface {
	CellWidthPx() uint32
	CellHeightPx() uint32
	// WidthInCells returns how many terminal columns the codepoint occupies
	// (1 or 2).
	WidthInCells(codepoint rune) uint32
}

// CellBuffer is a contiguous grid of ColoredCell with history (scrollback)
// above the visible window. `height` is the total row count including
// history; `visibleHeight` is the window onto it actually rendered.
//
// Two independent scroll positions exist: scrollInCells, the terminal's own
// notion of which row is "the top of the screen" (moved by escape sequences
// that pan the view), and userScrollInPixels, a pixel-granular offset the
// user controls directly (e.g. via a scrollbar or wheel) for reviewing
// history without disturbing the program's view.
type CellBuffer struct {
	metrics FontMetrics

	data []ColoredCell

	width         uint32
	height        uint32
	visibleHeight uint32

	dirtyMask []bool

	transform Mat4

	userScrollInPixels int32
	scrollInCells      int32

	defaultFg, defaultBg Color

	// maxHistoryCells caps how many rows of scrollback ScrollByNCells will
	// grow the buffer to before it starts discarding the oldest rows. Zero
	// means unbounded growth.
	maxHistoryCells uint32
}

// SetMaxHistoryCells caps scrollback growth to n rows; 0 means unbounded.
// Lowering the cap below the buffer's current history immediately trims
// the oldest rows rather than waiting for the next scroll.
func (b *CellBuffer) SetMaxHistoryCells(n uint32) {
	b.maxHistoryCells = n
	b.trimHistory()
}

// NewCellBuffer allocates a buffer of width x height cells, of which
// visibleHeight rows (starting at the bottom) are the visible window.
func NewCellBuffer(metrics FontMetrics, width, height, visibleHeight uint32, defaultFg, defaultBg Color) *CellBuffer {
	b := &CellBuffer{
		metrics:       metrics,
		width:         width,
		height:        height,
		visibleHeight: visibleHeight,
		transform:     Identity4(),
		defaultFg:     defaultFg,
		defaultBg:     defaultBg,
	}
	b.data = make([]ColoredCell, width*height)
	b.dirtyMask = make([]bool, width*visibleHeight)
	return b
}

// Width returns the number of columns.
func (b *CellBuffer) Width() uint32 { return b.width }

// Height returns the total row count, including history.
func (b *CellBuffer) Height() uint32 { return b.height }

// VisibleHeight returns the number of rows actually displayed.
func (b *CellBuffer) VisibleHeight() uint32 { return b.visibleHeight }

// HistorySizeInCells returns the number of rows of scrollback above the
// visible window.
func (b *CellBuffer) HistorySizeInCells() uint32 { return b.height - b.visibleHeight }

// ScrollInCells returns the terminal's own scroll offset.
func (b *CellBuffer) ScrollInCells() uint32 { return uint32(b.scrollInCells) }

// UserScrollInCells returns the user-controlled scroll offset, in cells.
func (b *CellBuffer) UserScrollInCells() uint32 {
	return CeilDiv(uint32(b.userScrollInPixels), b.metrics.CellHeightPx())
}

// UserScrolledUp reports whether the user's view differs from the
// terminal's own scroll position (i.e. the user is reviewing history).
func (b *CellBuffer) UserScrolledUp() bool {
	return b.UserScrollInCells() != b.ScrollInCells()
}

// Transform returns the 4x4 transform matrix carried for the renderer.
func (b *CellBuffer) Transform() Mat4 { return b.transform }

// SetTransform replaces the transform matrix.
func (b *CellBuffer) SetTransform(m Mat4) { b.transform = m }

func (b *CellBuffer) rowOffset(useUserScroll bool) uint32 {
	if useUserScroll {
		return b.UserScrollInCells()
	}
	return b.ScrollInCells()
}

// Get returns the cell at visible position (x,y), or false if out of range.
func (b *CellBuffer) Get(x, y uint32, useUserScroll bool) (ColoredCell, bool) {
	Y := y + b.rowOffset(useUserScroll)
	if x < b.width && Y < b.height {
		return b.data[x+b.width*Y], true
	}
	return ColoredCell{}, false
}

// Set writes a cell at visible position (x,y) and marks it dirty. Returns
// false if out of range.
func (b *CellBuffer) Set(x, y uint32, cell ColoredCell, useUserScroll bool) bool {
	Y := y + b.rowOffset(useUserScroll)
	if x >= b.width || y >= b.visibleHeight {
		return false
	}
	b.data[x+b.width*Y] = cell
	b.dirtyMask[x+b.width*y] = true
	return true
}

func (b *CellBuffer) markAllDirty() {
	for i := range b.dirtyMask {
		b.dirtyMask[i] = true
	}
}

func (b *CellBuffer) resetUpdates() {
	for i := range b.dirtyMask {
		b.dirtyMask[i] = false
	}
}

// UserScrollByNPixels adjusts the user's scroll offset by n pixels, clamped
// to [0, history*cellHeight], and marks the whole view dirty since every
// visible row may now show different content.
func (b *CellBuffer) UserScrollByNPixels(n int32) {
	maxPixels := int32(b.HistorySizeInCells() * b.metrics.CellHeightPx())
	want := b.userScrollInPixels + n
	if want < 0 {
		want = 0
	}
	if want > maxPixels {
		want = maxPixels
	}
	b.userScrollInPixels = want
	b.markAllDirty()
}

// ResetUserScroll snaps the user's view back to the terminal's own scroll
// position.
func (b *CellBuffer) ResetUserScroll() {
	b.userScrollInPixels = b.scrollInCells * int32(b.metrics.CellHeightPx())
	b.markAllDirty()
}

// ResetScroll snaps the terminal's own scroll position to the tail
// (bottom) of the buffer.
func (b *CellBuffer) ResetScroll() {
	b.scrollInCells = int32(b.HistorySizeInCells())
}

// ScrollByNCells moves the terminal's own view by n rows (positive is
// forward/down). If allowBufExpansion is false and the move would run past
// the available history, the scroll resets to the tail instead of growing
// the buffer.
func (b *CellBuffer) ScrollByNCells(n int32, allowBufExpansion bool) {
	wasScrolledUp := b.UserScrolledUp()
	newScroll := b.scrollInCells + n
	if newScroll < 0 {
		newScroll = 0
	}

	if !allowBufExpansion && uint32(newScroll) > b.HistorySizeInCells() {
		b.ResetScroll()
		if !wasScrolledUp {
			b.ResetUserScroll()
		}
		return
	}

	addedCells := int32(uint32(newScroll) - b.HistorySizeInCells())
	if addedCells != 0 {
		b.height += uint32(addedCells)
		grown := make([]ColoredCell, b.width*b.height)
		copy(grown, b.data)
		b.data = grown
	}

	b.scrollInCells = newScroll
	b.trimHistory()

	if !wasScrolledUp {
		b.UserScrollByNPixels(n * int32(b.metrics.CellHeightPx()))
	}
}

// trimHistory discards the oldest rows once history exceeds
// maxHistoryCells (a no-op when it is 0, i.e. unbounded), shifting both
// scroll positions down by however many rows were dropped so neither the
// terminal's own view nor the user's jumps to a different logical row.
func (b *CellBuffer) trimHistory() {
	if b.maxHistoryCells == 0 {
		return
	}
	excess := int32(b.HistorySizeInCells()) - int32(b.maxHistoryCells)
	if excess <= 0 {
		return
	}
	n := uint32(excess)

	copy(b.data, b.data[n*b.width:])
	b.data = b.data[:uint32(len(b.data))-n*b.width]
	b.height -= n

	b.scrollInCells = int32(subSatU32(uint32(b.scrollInCells), n))
	b.userScrollInPixels -= int32(n * b.metrics.CellHeightPx())
	if b.userScrollInPixels < 0 {
		b.userScrollInPixels = 0
	}
}

// CopyArea copies cells from src to dest within the visible window,
// choosing a copy direction that is safe for overlapping ranges. Returns
// false if either rectangle is invalid, or if their dimensions disagree
// after clamping.
func (b *CellBuffer) CopyArea(src, dest Rect[uint32]) bool {
	if !src.IsValid() || !dest.IsValid() {
		return false
	}

	bufRect := Rect[uint32]{Left: 0, Top: 0, Right: b.Width(), Bottom: b.VisibleHeight()}

	dest.Clamp(bufRect)
	src.CopyWidthAndHeight(dest)
	src.Clamp(bufRect)

	if !src.IsValid() || !dest.IsValid() || src.Width() != dest.Width() || src.Height() != dest.Height() {
		return false
	}

	offset := b.width * b.ScrollInCells()
	bufW := b.Width()
	w, h := src.Width(), dest.Height()

	for y := uint32(0); y < h; y++ {
		b.setDirtyRange(dest.Left+bufW*(dest.Top+y), w)
	}

	if src.Top > dest.Top {
		for y := uint32(0); y < h; y++ {
			srcStart := offset + src.Left + bufW*(src.Top+y)
			dstStart := offset + dest.Left + bufW*(dest.Top+y)
			copy(b.data[dstStart:dstStart+w], b.data[srcStart:srcStart+w])
		}
	} else {
		for y := uint32(0); y < h; y++ {
			srcStart := offset + src.Left + bufW*(src.Bottom-y-1)
			dstStart := offset + dest.Left + bufW*(dest.Bottom-y-1)
			copy(b.data[dstStart:dstStart+w], b.data[srcStart:srcStart+w])
		}
	}

	return true
}

// setDirtyRange marks `count` consecutive dirty-mask slots starting at
// `start`, where start is an absolute index into the visible (un-scrolled)
// width*visibleHeight dirty mask.
func (b *CellBuffer) setDirtyRange(start, count uint32) {
	for i := uint32(0); i < count; i++ {
		b.dirtyMask[start+i] = true
	}
}

// FillLine writes value across [left, min(right,width)) on visible row y.
func (b *CellBuffer) FillLine(left, right, y uint32, value ColoredCell) bool {
	if right > b.width {
		right = b.width
	}
	if left > right {
		return false
	}
	if y >= b.visibleHeight {
		return false
	}

	offset := b.width * (y + b.ScrollInCells())
	b.setDirtyRange(y*b.width+left, right-left)
	for x := left; x < right; x++ {
		b.data[offset+x] = value
	}
	return true
}

// FillArea writes value over area, clamped to the visible window.
func (b *CellBuffer) FillArea(area Rect[uint32], value ColoredCell) bool {
	if !area.IsValid() {
		return false
	}

	bufRect := Rect[uint32]{Left: 0, Top: 0, Right: b.Width(), Bottom: b.VisibleHeight()}
	area.Clamp(bufRect)
	if !bufRect.IsValid() {
		return false
	}

	bufW := b.Width()
	offset := b.width * b.ScrollInCells()

	for y := area.Top; y < area.Bottom; y++ {
		for x := area.Left; x < area.Right; x++ {
			b.data[offset+x+bufW*y] = value
		}
		b.setDirtyRange(area.Left+bufW*y, area.Right-area.Left)
	}
	return true
}

// Resize changes the buffer's column and visible-row counts. A zero
// dimension is a programming error: the caller must never request one.
// Resize returns (deltaWidth, deltaVisibleHeight) so the owning Terminal
// can patch its cursor position and scroll region accordingly.
func (b *CellBuffer) Resize(width, height uint32) (int32, int32, error) {
	if width == b.width && height == b.visibleHeight {
		return 0, 0, nil
	}
	if width == 0 || height == 0 {
		return 0, 0, fmt.Errorf("bitty: CellBuffer.Resize to zero dimension")
	}

	deltaW := int32(width) - int32(b.width)
	deltaVH := int32(height) - int32(b.visibleHeight)

	wasAtTail := !b.UserScrolledUp() && b.ScrollInCells() == b.HistorySizeInCells()

	if deltaVH > 0 && wasAtTail {
		b.height += uint32(deltaVH)
		grown := make([]ColoredCell, b.width*b.height)
		copy(grown, b.data)
		b.data = grown
	}
	b.visibleHeight = height

	b.ScrollByNCells(-deltaVH, false)

	if width > b.width {
		newPitch := b.width
		if newPitch == 0 {
			newPitch = 1
		}
		for newPitch < width {
			newPitch *= 2
		}

		grown := make([]ColoredCell, newPitch*b.height)
		oldPitch := b.width
		for y := int64(b.height) - 1; y >= 0; y-- {
			srcStart := uint32(y) * oldPitch
			dstStart := uint32(y) * newPitch
			copy(grown[dstStart:dstStart+oldPitch], b.data[srcStart:srcStart+oldPitch])
		}
		b.data = grown
		b.width = newPitch
	}

	b.dirtyMask = make([]bool, b.width*b.visibleHeight)
	b.markAllDirty()

	return deltaW, deltaVH, nil
}

// ProcessUpdates invokes fn(x, y, cell) for every dirty visible cell whose
// DisplayedCode is non-zero, in row-major order, then clears the dirty
// mask. Cells that fell outside the (scrolled) grid are skipped.
func (b *CellBuffer) ProcessUpdates(fn func(x, y uint32, cell ColoredCell)) {
	scroll := b.UserScrollInCells()

	for i, dirty := range b.dirtyMask {
		if !dirty {
			continue
		}
		x := uint32(i) % b.width
		y := uint32(i) / b.width

		if y+scroll >= b.height {
			continue
		}

		cell := b.data[uint32(i)+scroll*b.width]
		if cell.DisplayedCode != 0 {
			fn(x, y, cell)
		}
	}

	b.resetUpdates()
}

// EnumerateNonEmptyCells invokes fn(visibleIndex) for every visible cell
// whose DisplayedCode is non-zero, using the user's current scroll
// position.
func (b *CellBuffer) EnumerateNonEmptyCells(fn func(visibleIndex uint32)) {
	base := b.UserScrollInCells() * b.width
	count := b.visibleHeight * b.width
	for k := uint32(0); k < count; k++ {
		if b.data[base+k].DisplayedCode != 0 {
			fn(k)
		}
	}
}
