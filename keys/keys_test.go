package keys

import (
	"bytes"
	"testing"

	bitty "github.com/bitty-term/bitty"
)

func TestEncodeBasicKeys(t *testing.T) {
	cases := []struct {
		key  bitty.KeyCode
		want string
	}{
		{bitty.KeyEnter, "\r"},
		{bitty.KeyBackspace, "\b"},
		{bitty.KeyTab, "\t"},
		{bitty.KeyEscape, "\x1b"},
	}
	for _, c := range cases {
		got := Encode(c.key, 0, CursorKeysNormal)
		if !bytes.Equal(got, []byte(c.want)) {
			t.Errorf("Encode(%v) = %q, want %q", c.key, got, c.want)
		}
	}
}

func TestEncodeArrowsNormalMode(t *testing.T) {
	cases := []struct {
		key  bitty.KeyCode
		want string
	}{
		{bitty.KeyUp, "\x1b[A"},
		{bitty.KeyDown, "\x1b[B"},
		{bitty.KeyRight, "\x1b[C"},
		{bitty.KeyLeft, "\x1b[D"},
	}
	for _, c := range cases {
		got := Encode(c.key, 0, CursorKeysNormal)
		if !bytes.Equal(got, []byte(c.want)) {
			t.Errorf("Encode(%v, normal) = %q, want %q", c.key, got, c.want)
		}
	}
}

func TestEncodeArrowsApplicationMode(t *testing.T) {
	got := Encode(bitty.KeyUp, 0, CursorKeysApplication)
	want := []byte("\x1bOA")
	if !bytes.Equal(got, want) {
		t.Errorf("Encode(KeyUp, application) = %q, want %q", got, want)
	}
}

func TestEncodeUnknownKeyReturnsNil(t *testing.T) {
	if got := Encode(bitty.KeyF1, 0, CursorKeysNormal); got != nil {
		t.Errorf("expected nil for unhandled key, got %q", got)
	}
}

func TestEncodeRuneCtrlLetterProducesControlByte(t *testing.T) {
	got := EncodeRune('a', bitty.ModControl)
	if !bytes.Equal(got, []byte{0x01}) {
		t.Errorf("Ctrl+A = %v, want [0x01]", got)
	}
	got = EncodeRune('Z', bitty.ModControl)
	if !bytes.Equal(got, []byte{0x1A}) {
		t.Errorf("Ctrl+Z = %v, want [0x1A]", got)
	}
}

func TestEncodeRunePrintablePassesThroughAsUTF8(t *testing.T) {
	got := EncodeRune('é', 0)
	if !bytes.Equal(got, []byte("é")) {
		t.Errorf("EncodeRune('é') = %q, want %q", got, "é")
	}
}

func TestEncodeRuneCtrlNonLetterPassesThrough(t *testing.T) {
	got := EncodeRune('1', bitty.ModControl)
	if !bytes.Equal(got, []byte("1")) {
		t.Errorf("Ctrl+1 = %q, want passthrough %q", got, "1")
	}
}
