// Package ptyio spawns a shell behind a pseudo-terminal and moves bytes
// between it and a Terminal's owning goroutine. It is the Go replacement
// for the source's terminal_unix.cc: posix_openpt/fork/execvp becomes
// creack/pty's Start, and the TIOCSCTTY/setsid dance it performs by hand
// is what that library already does internally.
package ptyio

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/creack/pty"
	"golang.org/x/sys/unix"
)

// Pty is the transport a Terminal reads PTY output from and writes
// keyboard/mouse-encoded bytes to. Open returns a unix implementation;
// other platforms would implement the same interface differently.
type Pty interface {
	Read(p []byte) (int, error)
	Write(p []byte) (int, error)
	SetSize(cols, rows int) error
	Close() error
}

// unixPty wraps the master end of a PTY and the child shell process it
// was allocated to.
type unixPty struct {
	master *os.File
	cmd    *exec.Cmd
}

// Open forks shellPath as a child attached to a freshly allocated PTY,
// sized cols x rows, with TERM=kitty set in its environment per the
// terminal's emulation target. The child's stdin, stdout, and stderr are
// all the PTY slave; it is not killed on Close, matching the concurrency
// model's "the child exits when its stdin closes" contract — it exits on
// its own once the master end (and so the slave) goes away.
func Open(shellPath string, cols, rows int) (Pty, error) {
	cmd := exec.Command(shellPath)
	cmd.Env = append(os.Environ(), "TERM=kitty")

	master, err := pty.StartWithSize(cmd, &pty.Winsize{
		Cols: uint16(cols),
		Rows: uint16(rows),
	})
	if err != nil {
		return nil, fmt.Errorf("ptyio: open %s: %w", shellPath, err)
	}

	return &unixPty{master: master, cmd: cmd}, nil
}

func (p *unixPty) Read(b []byte) (int, error)  { return p.master.Read(b) }
func (p *unixPty) Write(b []byte) (int, error) { return p.master.Write(b) }

// SetSize applies a TIOCSWINSZ-equivalent resize to the PTY. Resizing the
// CellBuffer and clamping the cursor are the Terminal's responsibility,
// not the transport's — SetWindowSize in terminal.go does both in the
// same order the source's SetWindowSize did.
func (p *unixPty) SetSize(cols, rows int) error {
	return pty.Setsize(p.master, &pty.Winsize{
		Cols: uint16(cols),
		Rows: uint16(rows),
	})
}

// Close releases the master fd. The child is not signaled; it receives
// EOF/SIGHUP on its controlling terminal once the slave is gone and exits
// on its own.
func (p *unixPty) Close() error {
	return p.master.Close()
}

// fd exposes the raw descriptor for Reader's poll loop. Not part of the
// Pty interface since only this package's own Reader needs it.
func (p *unixPty) fd() int {
	return int(p.master.Fd())
}

// isPollable reports whether err from unix.Poll represents a benign,
// retryable interruption rather than a real failure.
func isPollable(err error) bool {
	return err == unix.EINTR
}
