package bitty

// mouse.go encodes pointer events into the byte sequences xterm-family
// terminals emit to the child process, in each of the tracking formats a
// real shell might negotiate via DECSET 1000-1016.

const (
	mouseButtonRelease uint32 = 3
	mouseWheelUp       uint32 = 64
	mouseWheelDown     uint32 = 65
)

func modifierBits(mods Modifiers) uint32 {
	var bits uint32
	if mods&ModShift != 0 {
		bits |= 0x04
	}
	if mods&ModSuper != 0 {
		bits |= 0x08
	}
	if mods&ModControl != 0 {
		bits |= 0x10
	}
	return bits
}

// reportMouseEvent encodes and writes one pointer event to the PTY,
// according to the currently negotiated MouseTrackingFormat. btn is the
// X10-style button number (0=left, 1=middle, 2=right, 3=release,
// 64/65=wheel up/down); isDown distinguishes press from release for the
// legacy formats that pack it into the button code instead of carrying it
// explicitly.
func (t *Terminal) reportMouseEvent(btn uint32, isDown, isMotion bool, mods Modifiers, x, y uint32) {
	if t.mouseMode == MouseTrackingNone {
		return
	}
	if isMotion && t.mouseMode < MouseTrackingMotionIfDown {
		return
	}
	if isMotion && t.mouseMode == MouseTrackingMotionIfDown && !t.mouseDown {
		return
	}

	code := btn | modifierBits(mods)
	if isMotion {
		code |= 0x20
	}

	switch t.mouseFormat {
	case MouseFormatSGR, MouseFormatSGRPixels:
		final := byte('M')
		if !isDown && btn != mouseWheelUp && btn != mouseWheelDown {
			final = 'm'
		}
		t.WriteToPty([]byte(sgrMouseSequence(code, x+1, y+1, final)))

	case MouseFormatURXVT:
		t.WriteToPty([]byte(urxvtMouseSequence(code+32, x+1, y+1)))

	case MouseFormatUTF8:
		t.WriteToPty(utf8MouseSequence(code, x, y))

	default: // Normal / X10 compatibility
		reportCode := code
		if !isDown && t.mouseFormat != MouseFormatX10Compat {
			reportCode = mouseButtonRelease | modifierBits(mods)
		}
		t.WriteToPty(normalMouseSequence(reportCode, x, y))
	}
}

func sgrMouseSequence(code, x, y uint32, final byte) string {
	return "\x1b[<" + itoa(code) + ";" + itoa(x) + ";" + itoa(y) + string(final)
}

func urxvtMouseSequence(code, x, y uint32) string {
	return "\x1b[" + itoa(code) + ";" + itoa(x) + ";" + itoa(y) + "M"
}

// normalMouseSequence emits the original X10 3-byte form: ESC [ M Cb Cx Cy,
// each of Cb/Cx/Cy biased by 32 so the result stays in printable range.
// Coordinates beyond 223 cannot be represented and are clamped.
func normalMouseSequence(code, x, y uint32) []byte {
	clampByte := func(v uint32) byte {
		if v > 223 {
			v = 223
		}
		return byte(v + 32)
	}
	return []byte{0x1b, '[', 'M', clampByte(code), clampByte(x + 1), clampByte(y + 1)}
}

// utf8MouseSequence is the same as normalMouseSequence but encodes
// coordinates above 95 as a 2-byte UTF-8 sequence instead of clamping,
// per the 1005 mouse mode extension.
func utf8MouseSequence(code, x, y uint32) []byte {
	buf := []byte{0x1b, '[', 'M', byte(code + 32)}
	buf = appendUtf8Coordinate(buf, x+1)
	buf = appendUtf8Coordinate(buf, y+1)
	return buf
}

func appendUtf8Coordinate(buf []byte, v uint32) []byte {
	v += 32
	if v < 128 {
		return append(buf, byte(v))
	}
	return append(buf, byte(0xC0|(v>>6)), byte(0x80|(v&0x3F)))
}

func itoa(v uint32) string {
	if v == 0 {
		return "0"
	}
	var digits [10]byte
	i := len(digits)
	for v > 0 {
		i--
		digits[i] = byte('0' + v%10)
		v /= 10
	}
	return string(digits[i:])
}

// HandleMouseButton reports a button press or release at (x,y) and
// tracks mouseDown for motion-reporting decisions.
func (t *Terminal) HandleMouseButton(btn uint32, isDown bool, mods Modifiers, x, y uint32) {
	t.mouseDown = isDown
	t.mouseBtn = btn
	t.mousePosX, t.mousePosY = x, y
	t.reportMouseEvent(btn, isDown, false, mods, x, y)
}

// HandleMousePos reports pointer motion at (x,y), subject to the current
// MouseTrackingMode (only reported at all under MouseTrackingMotionIfDown
// or MouseTrackingAllEvents).
func (t *Terminal) HandleMousePos(mods Modifiers, x, y uint32) {
	if x == t.mousePosX && y == t.mousePosY {
		return
	}
	t.mousePosX, t.mousePosY = x, y
	t.reportMouseEvent(t.mouseBtn, t.mouseDown, true, mods, x, y)
}

// HandleMouseScroll reports a wheel event at (x,y); deltaUp selects the
// wheel-up (true) or wheel-down (false) button code.
func (t *Terminal) HandleMouseScroll(deltaUp bool, mods Modifiers, x, y uint32) {
	btn := mouseWheelDown
	if deltaUp {
		btn = mouseWheelUp
	}
	t.reportMouseEvent(btn, true, false, mods, x, y)
}
