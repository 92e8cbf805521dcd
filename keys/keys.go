// Package keys translates a pressed key and its modifiers into the byte
// sequence the PTY's child process expects to read, the main-thread half
// of the PTY protocol in spec.md §6.
package keys

import bitty "github.com/bitty-term/bitty"

// CursorKeyMode selects between the normal and DECCKM "application cursor
// keys" encodings for the arrow keys. Most full-screen programs (vim,
// less) request application mode on entry and normal mode on exit; the
// source is silent on exactly how this is tracked, so Encode takes it as
// an explicit parameter rather than hidden state.
type CursorKeyMode int

const (
	CursorKeysNormal CursorKeyMode = iota
	CursorKeysApplication
)

var arrowBytes = map[bitty.KeyCode]byte{
	bitty.KeyUp:    'A',
	bitty.KeyDown:  'B',
	bitty.KeyRight: 'C',
	bitty.KeyLeft:  'D',
}

// Encode returns the bytes to write to the PTY for a non-printable key
// press under the given cursor-key mode. mods does not change the result.
// Printable characters should go through EncodeRune instead; Encode
// returns nil for a KeyCode it doesn't recognize.
func Encode(key bitty.KeyCode, mods bitty.Modifiers, mode CursorKeyMode) []byte {
	switch key {
	case bitty.KeyEnter:
		return []byte("\r")
	case bitty.KeyBackspace:
		return []byte("\b")
	case bitty.KeyTab:
		return []byte("\t")
	case bitty.KeyEscape:
		return []byte("\x1b")
	case bitty.KeyUp, bitty.KeyDown, bitty.KeyRight, bitty.KeyLeft:
		final := arrowBytes[key]
		if mode == CursorKeysApplication {
			return []byte{0x1b, 'O', final}
		}
		return []byte{0x1b, '[', final}
	}
	return nil
}

// EncodeRune returns the bytes for a printable keystroke: a Ctrl
// combination with a letter collapses to the corresponding C0 control
// byte (0x01..0x1A for Ctrl+A..Z), matching how a real terminal's line
// discipline interprets Ctrl+letter; anything else is passed through as
// its UTF-8 encoding.
func EncodeRune(r rune, mods bitty.Modifiers) []byte {
	if mods&bitty.ModControl != 0 {
		upper := r
		if upper >= 'a' && upper <= 'z' {
			upper -= 'a' - 'A'
		}
		if upper >= 'A' && upper <= 'Z' {
			return []byte{byte(upper - 'A' + 1)}
		}
	}
	return []byte(string(r))
}
