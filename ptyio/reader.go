package ptyio

import (
	"log"

	"golang.org/x/sys/unix"

	bitty "github.com/bitty-term/bitty"
)

// readChunkSize mirrors the source's kReadChunkSize: a single read never
// pulls in more than this many bytes, so one EventDataFromTty never grows
// unbounded.
const readChunkSize = 16 * 1024

// Reader runs the PTY-reading goroutine described in the concurrency
// model: it polls the PTY's fd alongside a cancellation pipe (the
// goroutine equivalent of the source's eventfd) and enqueues whatever it
// reads onto an EventQueue for the owning goroutine to drain.
type Reader struct {
	pty    *unixPty
	queue  *bitty.EventQueue
	cancel [2]int
	done   chan struct{}

	// Wake receives a value each time new events are enqueued, the
	// goroutine-channel equivalent of the source's glfwPostEmptyEvent()
	// call: the owner's event loop selects on it instead of spinning.
	// Buffered to size 1 so a reader that outruns the owner never blocks.
	Wake chan struct{}
}

// NewReader starts the read loop in its own goroutine. p must have come
// from Open. Stop must be called exactly once to release the goroutine
// and the cancellation pipe.
func NewReader(p Pty, queue *bitty.EventQueue) (*Reader, error) {
	up, ok := p.(*unixPty)
	if !ok {
		panic("ptyio: NewReader requires a Pty returned by Open")
	}

	var fds [2]int
	if err := unix.Pipe(fds[:]); err != nil {
		return nil, err
	}

	r := &Reader{
		pty:    up,
		queue:  queue,
		cancel: fds,
		done:   make(chan struct{}),
		Wake:   make(chan struct{}, 1),
	}
	go r.loop()
	return r, nil
}

// loop is the translation of terminal_unix.cc's poll(2) thread: block on
// either the PTY fd becoming readable or the cancellation pipe, read up
// to readChunkSize bytes on the former, and enqueue them as
// EventDataFromTty with a wakeup for the owner. It returns (and the
// goroutine exits) as soon as the cancellation pipe is readable.
func (r *Reader) loop() {
	defer close(r.done)

	fds := []unix.PollFd{
		{Fd: int32(r.pty.fd()), Events: unix.POLLIN},
		{Fd: int32(r.cancel[0]), Events: unix.POLLIN},
	}

	buf := make([]byte, readChunkSize)
	for {
		_, err := unix.Poll(fds, -1)
		if err != nil {
			if isPollable(err) {
				continue
			}
			log.Printf("ptyio: poll failed: %v", err)
			return
		}

		if fds[1].Revents&unix.POLLIN != 0 {
			return
		}

		if fds[0].Revents&unix.POLLIN != 0 {
			n, err := r.pty.Read(buf)
			if n > 0 {
				chunk := make([]byte, n)
				copy(chunk, buf[:n])
				r.queue.Enqueue(bitty.Event{Kind: bitty.EventDataFromTty, TtyBytes: chunk})
				select {
				case r.Wake <- struct{}{}:
				default:
				}
			}
			if err != nil {
				log.Printf("ptyio: read failed: %v", err)
				return
			}
		}
	}
}

// Stop signals the read loop to exit and waits for it to do so, then
// closes the cancellation pipe. It does not close the underlying Pty;
// the caller does that separately once both ends are torn down.
func (r *Reader) Stop() {
	var one [1]byte
	unix.Write(r.cancel[1], one[:])
	<-r.done
	unix.Close(r.cancel[0])
	unix.Close(r.cancel[1])
}
