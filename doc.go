// Package bitty is a headless terminal emulator core: it turns bytes read
// from a PTY into a grid of colored, styled cells, and turns input events
// back into the bytes a real terminal would send. It draws nothing itself;
// a Renderer owned by the caller walks the dirty cells a CellBuffer
// reports after each batch of input.
//
// # Quick start
//
//	term := bitty.New(bitty.WithSize(80, 24))
//	for _, b := range []byte("\x1b[31mHello\x1b[0m") {
//		term.InterpretPtyInput(b)
//	}
//
//	term.CurrentBuffer().ProcessUpdates(func(x, y uint32, cell bitty.ColoredCell) {
//		// redraw cell at (x, y)
//	})
//
// # Architecture
//
//   - [Terminal]: drives the escape-sequence DFA and cursor/attribute
//     state machine one byte at a time via [Terminal.InterpretPtyInput].
//   - [CellBuffer]: the contiguous cell grid with scrollback history and
//     a dirty mask sized to the visible window.
//   - [EscapeParser] and [Dfa]: the incremental recognizer behind
//     InterpretPtyInput, built once from a closed 33-rule grammar table.
//   - [EventQueue]: the one piece of state actually shared across
//     goroutines — everything else belongs to whichever goroutine owns
//     the Terminal.
//
// # Buffers
//
// Terminal maintains a normal buffer (with scrollback) and an alternate
// buffer (used by full-screen applications such as vim or htop, with
// none). Applications switch between them via CSI ?1047/1049h and l;
// [Terminal.IsUsingNormalBuffer] reports which is active.
//
// # Concurrency
//
// Terminal carries no internal lock: every method is meant to run on a
// single owning goroutine, typically an event loop draining an
// [EventQueue]. A PTY reader goroutine and any input-producing goroutine
// (mouse, keyboard, resize) only ever call [EventQueue.Enqueue]; the
// owning goroutine is the sole caller of [EventQueue.Process] and
// [Terminal.InterpretPtyInput].
//
// # Colors and attributes
//
// Cell foreground and background are a 32-bit ARGB [Color], not
// [image/color.Color] — the core never needs color-model conversion, only
// SGR-driven channel packing and the fixed 256-entry indexed palette (see
// [ColorFromIndex256]).
//
// # Scope
//
// This package implements cursor movement, SGR, erase/insert/delete,
// scroll regions, mouse reporting, and UTF-8/wide-glyph handling. It does
// not rasterize glyphs (that is the job of the [FontMetrics] collaborator
// and an external Renderer), does not decode Sixel or Kitty inline
// images, and does not implement OSC window-title/clipboard/hyperlink
// sequences beyond consuming and logging them.
package bitty
