package bitty

// colorTable256 is the fixed 256-entry indexed color palette used to resolve
// SGR 38/48;5;N sequences. Index layout:
//
//	0        black
//	1-7      standard ANSI colors (intensity 0xCC)
//	8        bright black (gray)
//	9-15     bright ANSI colors (intensity 0xFF)
//	16-231   6x6x6 RGB color cube
//	232-255  24-step grayscale ramp
//
// Indices 4 and 12 (blue / bright blue) are special-cased to values that
// read better on typical displays than the literal 3-bit decode would give.
var colorTable256 = buildColorTable256()

// coordToRGBChannel maps a 0-5 cube coordinate to its 8-bit channel value.
var coordToRGBChannel = [6]int{0, 95, 95 + 40, 95 + 80, 95 + 120, 95 + 160}

func buildColorTable256() [256]Color {
	var colors [256]Color

	colors[0] = NewColor(255, 0x22, 0x22, 0x22)
	colors[8] = NewColor(255, 0x66, 0x66, 0x66)

	colors[0b0100] = NewColor(255, 0, 0x88, 0xCC)
	colors[0b1100] = NewColor(255, 0, 0xAA, 0xEE)

	for _, i := range [6]uint32{1, 2, 3, 5, 6, 7} {
		colors[i+0] = Decode3BitColor(i&0b111, 0xCC)
		colors[i+8] = Decode3BitColor(i&0b111, 0xFF)
	}

	for i := 0; i < 216; i++ {
		idx := i
		b := coordToRGBChannel[idx%6]
		idx /= 6
		g := coordToRGBChannel[idx%6]
		idx /= 6
		r := coordToRGBChannel[idx%6]
		colors[i+16] = NewColor(255, uint8(r), uint8(g), uint8(b))
	}

	var intensity float32
	for i := 0; i < 24; i++ {
		v := uint8(intensity + 0.5)
		colors[i+232] = NewColor(255, v, v, v)
		intensity += 255.0 / 24
	}

	return colors
}

// ColorFromIndex256 resolves an SGR 256-color palette index to a Color.
func ColorFromIndex256(index uint8) Color {
	return colorTable256[index]
}

// DefaultForeground is the color used when no SGR foreground has been set.
var DefaultForeground = NewColor(255, 255, 255, 255)

// DefaultBackground is the color used when no SGR background has been set.
var DefaultBackground = NewColor(255, 0, 0, 0)
