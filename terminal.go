package bitty

import (
	"log"
)

// defaultColumns and defaultRows are the initial grid dimensions before any
// window-size notification arrives from the PTY's owner.
const (
	defaultColumns = 80
	defaultRows    = 24
)

// MouseTrackingFormat selects how reportMouseEvent encodes a mouse report.
type MouseTrackingFormat int

const (
	MouseFormatNormal MouseTrackingFormat = iota
	MouseFormatX10Compat
	MouseFormatUTF8
	MouseFormatSGR
	MouseFormatURXVT
	MouseFormatSGRPixels
)

// MouseTrackingMode selects which mouse events are reported at all. The
// values are ordered: higher modes report a superset of lower ones' events.
type MouseTrackingMode int

const (
	MouseTrackingNone MouseTrackingMode = iota
	MouseTrackingButtonEvents
	MouseTrackingMotionIfDown
	MouseTrackingAllEvents
)

// Modifiers is a bitmask of held keyboard modifier keys, reported by the
// EventSource alongside mouse and key events.
type Modifiers uint8

const (
	ModShift Modifiers = 1 << iota
	ModControl
	ModAlt
	ModSuper
)

// PtyWriter is the narrow interface the core uses to write bytes back to
// the child process: mouse reports, plus anything a caller passes to
// WriteToPty. A ptyio.Pty exposes Write rather than WritePty, so it needs a
// small adapter (cmd/bittyterm has one).
type PtyWriter interface {
	WritePty(p []byte) (int, error)
}

// Option configures a Terminal during construction.
type Option func(*Terminal)

// WithSize sets the initial grid dimensions, in cells.
func WithSize(width, height uint32) Option {
	return func(t *Terminal) {
		if width > 0 {
			t.initWidth = width
		}
		if height > 0 {
			t.initHeight = height
		}
	}
}

// WithPtyWriter sets where the terminal writes responses (mouse reports)
// and user input. Without one, writes are discarded.
func WithPtyWriter(w PtyWriter) Option {
	return func(t *Terminal) {
		t.writer = w
	}
}

// WithDebug enables logging of unrecognized and unhandled escape sequences
// via the standard log package, matching rule 3 and 4 of the error
// handling design: these are not fatal, only diagnostic.
func WithDebug(enabled bool) Option {
	return func(t *Terminal) {
		t.debug = enabled
	}
}

// WithFontMetrics supplies the FontMetrics collaborator used for
// wide-glyph segmentation and pixel-based scroll math. Defaults to
// DefaultFontMetrics(9, 18) if not given.
func WithFontMetrics(m FontMetrics) Option {
	return func(t *Terminal) {
		t.metrics = m
	}
}

// Terminal is the core dispatcher: it owns two CellBuffers (normal and
// alternate screen), cursor and attribute state, and drives the
// EscapeParser and Utf8Decoder over bytes fed one at a time via
// InterpretPtyInput.
//
// Per the concurrency model, a Terminal's methods are intended to run from
// a single owning goroutine (the event loop); unlike the teacher's
// Terminal, this type carries no internal mutex. The PTY reader goroutine
// never touches a Terminal directly — it only enqueues EventDataFromTty
// onto an EventQueue, which is the one object actually shared across
// goroutines.
type Terminal struct {
	metrics FontMetrics
	writer  PtyWriter
	debug   bool

	initWidth, initHeight uint32

	normalBuf, alternateBuf, buf *CellBuffer

	escapeParser EscapeParser
	utf8Decoder  Utf8Decoder

	saved                         savedCursor
	normalCursorX, normalCursorY  uint32
	escSeqErrorCounter            int

	currentFg, currentBg, defaultFg, defaultBg Color
	currentCellFlags                           CellFlags

	cursorStyle                     CursorStyle
	isCursorVisible, lnmFlag        bool
	reverseWraparound, forwardWraparound bool

	mouseFormat MouseTrackingFormat
	mouseMode   MouseTrackingMode
	mouseDown   bool
	mousePosX, mousePosY uint32
	mouseMods, mouseBtn  uint32

	scrollArea Rect[uint32]

	cursorX, cursorY uint32

	lastEscapeSeq     []byte
	parsingEscapeCode bool
}

// New constructs a Terminal ready to receive PTY input. The initial grid is
// 80x24 unless overridden by WithSize.
func New(opts ...Option) *Terminal {
	t := &Terminal{
		initWidth:  defaultColumns,
		initHeight: defaultRows,
		isCursorVisible:     true,
		reverseWraparound:   true,
		forwardWraparound:   true,
		cursorStyle:         CursorStyleBar,
	}

	for _, opt := range opts {
		opt(t)
	}

	if t.metrics == nil {
		t.metrics = NewDefaultFontMetrics(9, 18)
	}

	t.defaultFg = NewColor(255, 255, 255, 255)
	t.defaultBg = NewColor(255, 0, 0, 0)
	t.currentFg = t.defaultFg
	t.currentBg = t.defaultBg

	w, h := t.initWidth, t.initHeight
	t.scrollArea = Rect[uint32]{Left: 0, Top: 0, Right: w, Bottom: h}
	t.normalBuf = NewCellBuffer(t.metrics, w, h, h, t.defaultFg, t.defaultBg)
	t.alternateBuf = NewCellBuffer(t.metrics, w, h, h, t.defaultFg, t.defaultBg)
	t.buf = t.normalBuf

	return t
}

// CurrentBuffer returns the active CellBuffer (normal or alternate).
func (t *Terminal) CurrentBuffer() *CellBuffer { return t.buf }

// IsUsingNormalBuffer reports whether the normal (scrollback-capable)
// buffer is currently active.
func (t *Terminal) IsUsingNormalBuffer() bool { return t.buf == t.normalBuf }

func (t *Terminal) getDefaultScrollArea() Rect[uint32] {
	return Rect[uint32]{Left: 0, Top: 0, Right: t.buf.Width(), Bottom: t.buf.VisibleHeight()}
}

// SwitchToAlternateBuffer activates the alternate (full-screen-app) buffer,
// preserving the normal buffer's cursor for when it is switched back to.
func (t *Terminal) SwitchToAlternateBuffer() {
	if t.buf == t.alternateBuf {
		return
	}
	t.buf = t.alternateBuf
	t.normalCursorX, t.normalCursorY = t.cursorX, t.cursorY
	t.cursorX, t.cursorY = 0, 0
	t.buf.FillArea(t.getDefaultScrollArea(), t.getDefaultEmptyCell())
}

// SwitchToNormalBuffer activates the normal buffer, restoring its saved
// cursor position.
func (t *Terminal) SwitchToNormalBuffer() {
	if t.buf == t.normalBuf {
		return
	}
	t.buf = t.normalBuf
	t.SetCursor(t.normalCursorX, t.normalCursorY)
	t.buf.markAllDirty()
}

// TryScrollBufferUp scrolls the user's view up (into history) by pixels,
// only while the normal buffer is active.
func (t *Terminal) TryScrollBufferUp(pixels uint32) bool {
	if t.buf != t.normalBuf {
		return false
	}
	t.buf.UserScrollByNPixels(-int32(pixels))
	return true
}

// TryScrollBufferDown scrolls the user's view down (toward the tail) by
// pixels, only while the normal buffer is active.
func (t *Terminal) TryScrollBufferDown(pixels uint32) bool {
	if t.buf != t.normalBuf {
		return false
	}
	t.buf.UserScrollByNPixels(int32(pixels))
	return true
}

// TryResetUserScroll snaps the user's view back to the tail, only while
// the normal buffer is active.
func (t *Terminal) TryResetUserScroll() bool {
	if t.buf != t.normalBuf {
		return false
	}
	t.buf.ResetUserScroll()
	return true
}

// IsUserScrolledUp reports whether the user is reviewing history, only
// while the normal buffer is active.
func (t *Terminal) IsUserScrolledUp() bool {
	return t.buf == t.normalBuf && t.buf.UserScrolledUp()
}

// CursorX returns the cursor's column.
func (t *Terminal) CursorX() uint32 { return t.cursorX }

// CursorY returns the cursor's row.
func (t *Terminal) CursorY() uint32 { return t.cursorY }

// IsCursorVisible reports whether the cursor should be rendered.
func (t *Terminal) IsCursorVisible() bool { return t.isCursorVisible }

// IsLNMSet reports whether line-feed/new-line mode is active (LF also
// returns the cursor to column 0).
func (t *Terminal) IsLNMSet() bool { return t.lnmFlag }

// IsReverseWraparoundEnabled reports whether backspace at the left margin
// wraps to the previous line.
func (t *Terminal) IsReverseWraparoundEnabled() bool { return t.reverseWraparound }

// IsAutowrapEnabled reports whether printing past the right margin wraps
// to the next line.
func (t *Terminal) IsAutowrapEnabled() bool { return t.forwardWraparound }

// CursorStyle returns the style the cursor should be rendered in.
func (t *Terminal) CursorStyle() CursorStyle { return t.cursorStyle }

func (t *Terminal) setCursorVisibility(flag bool) { t.isCursorVisible = flag }
func (t *Terminal) resetFgColor()                 { t.currentFg = t.defaultFg }
func (t *Terminal) resetBgColor()                 { t.currentBg = t.defaultBg }
func (t *Terminal) setReverseWraparound(flag bool) { t.reverseWraparound = flag }
func (t *Terminal) setAutowrap(flag bool)          { t.forwardWraparound = flag }
func (t *Terminal) setLNM(flag bool)               { t.lnmFlag = flag }
func (t *Terminal) setFgColor(c Color)             { t.currentFg = c }
func (t *Terminal) setBgColor(c Color)             { t.currentBg = c }

func (t *Terminal) setCellFlags(flags CellFlags)    { t.currentCellFlags |= flags }
func (t *Terminal) resetCellFlags(flags CellFlags)  { t.currentCellFlags &^= flags }
func (t *Terminal) toggleCellFlags(flags CellFlags) { t.currentCellFlags ^= flags }

// SetCursor moves the cursor to an absolute position. Unlike column/row
// setters, this performs no clamping: callers are expected to have already
// clamped per the relevant rule's semantics.
func (t *Terminal) SetCursor(x, y uint32) {
	t.cursorX = x
	t.cursorY = y
}

func (t *Terminal) setCursorX(x uint32) { t.SetCursor(x, t.cursorY) }
func (t *Terminal) setCursorY(y uint32) { t.SetCursor(t.cursorX, y) }

// WriteToPty writes bytes to the child process, if a PtyWriter was
// configured. Errors are logged, not propagated: a response the child
// never sees is not a core failure.
func (t *Terminal) WriteToPty(b []byte) {
	if t.writer == nil {
		return
	}
	if _, err := t.writer.WritePty(b); err != nil && t.debug {
		log.Printf("bitty: write to pty failed: %v", err)
	}
}

func (t *Terminal) getEmptyCell() ColoredCell {
	return emptyColoredCell(t.currentFg, t.currentBg)
}

func (t *Terminal) getDefaultEmptyCell() ColoredCell {
	return emptyColoredCell(t.defaultFg, t.defaultBg)
}

func (t *Terminal) reportUnhandledSequence() {
	if t.debug {
		log.Printf("bitty: unhandled escape sequence #%d: \\e%s", t.escSeqErrorCounter, t.lastEscapeSeq)
	}
	t.escSeqErrorCounter++
}

func (t *Terminal) reportUnparsedSequence() {
	if t.debug {
		log.Printf("bitty: unparsed escape sequence #%d: \\e%s...", t.escSeqErrorCounter, t.lastEscapeSeq)
	}
	t.escSeqErrorCounter++
}

// SetWindowSize resizes both of the terminal's buffers to width x height
// cells and patches the cursor and scroll region to stay within bounds.
// Owners of a real PTY should also relay the new size via TIOCSWINSZ.
func (t *Terminal) SetWindowSize(width, height uint32) error {
	for _, buf := range []*CellBuffer{t.normalBuf, t.alternateBuf} {
		if _, _, err := buf.Resize(width, height); err != nil {
			return err
		}
	}

	if t.cursorX >= width && width > 0 {
		t.cursorX = width - 1
	}
	if t.cursorY >= height && height > 0 {
		t.cursorY = height - 1
	}

	t.scrollArea = Rect[uint32]{Left: 0, Top: 0, Right: width, Bottom: height}
	return nil
}
