// Command bittyterm is a minimal headless driver: it spawns the
// configured shell behind a PTY, feeds its output through a Terminal,
// and relays the Terminal's own writes (mouse reports) back to the PTY.
// It has no renderer; it exists to exercise the wiring between bitty,
// ptyio, and config the way a real terminal
// frontend would sit on top of them.
package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	bitty "github.com/bitty-term/bitty"
	"github.com/bitty-term/bitty/config"
	"github.com/bitty-term/bitty/ptyio"
)

const (
	initialCols = 80
	initialRows = 24
)

// ptyWriter adapts a ptyio.Pty to bitty.PtyWriter, whose method is named
// for what the Terminal uses it for rather than mirroring io.Writer.
type ptyWriter struct{ pty ptyio.Pty }

func (w ptyWriter) WritePty(p []byte) (int, error) { return w.pty.Write(p) }

// forwardStdin copies raw keystrokes from stdin to the PTY until stdin
// closes or a write fails. Run in its own goroutine; it never touches
// Terminal state, so it needs no synchronization with the owner's loop.
func forwardStdin(pty ptyio.Pty) {
	buf := make([]byte, 4096)
	for {
		n, err := os.Stdin.Read(buf)
		if n > 0 {
			if _, werr := pty.Write(buf[:n]); werr != nil {
				return
			}
		}
		if err != nil {
			return
		}
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("bittyterm: loading config: %v", err)
	}

	pty, err := ptyio.Open(cfg.ShellPath, initialCols, initialRows)
	if err != nil {
		log.Fatalf("bittyterm: opening pty: %v", err)
	}
	defer pty.Close()

	// Raw stdin forwards every keystroke (including arrow-key and control
	// escape sequences) straight through to the shell exactly as typed;
	// this only applies when stdin is a real controlling terminal, not
	// when bittyterm's own output is piped or redirected.
	stdinFd := int(os.Stdin.Fd())
	if term.IsTerminal(stdinFd) {
		oldState, err := term.MakeRaw(stdinFd)
		if err != nil {
			log.Printf("bittyterm: could not enter raw mode: %v", err)
		} else {
			defer term.Restore(stdinFd, oldState)
			go forwardStdin(pty)
		}
	}

	term := bitty.New(
		bitty.WithSize(initialCols, initialRows),
		bitty.WithPtyWriter(ptyWriter{pty: pty}),
		bitty.WithDebug(os.Getenv("BITTY_DEBUG") != ""),
	)

	queue := &bitty.EventQueue{}
	reader, err := ptyio.NewReader(pty, queue)
	if err != nil {
		log.Fatalf("bittyterm: starting pty reader: %v", err)
	}
	defer reader.Stop()

	watcher, err := config.Watch(func(config.Config) {
		// A full frontend would push the new font/opacity settings to its
		// renderer here; the core's cell semantics don't depend on them.
	})
	if err != nil {
		log.Printf("bittyterm: config watch disabled: %v", err)
	} else {
		defer watcher.Close()
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		<-sig
		close(done)
	}()

	for {
		select {
		case <-done:
			return
		case <-reader.Wake:
			queue.Process(func(ev bitty.Event) {
				if ev.Kind != bitty.EventDataFromTty {
					return
				}
				for _, b := range ev.TtyBytes {
					term.InterpretPtyInput(b)
				}
			})
		}
	}
}
