package bitty

import "sync"

// EventKind distinguishes the variant carried by an Event.
type EventKind int

const (
	EventMouseScroll EventKind = iota
	EventMouseButton
	EventMousePos
	EventKeyInput
	EventCharInput
	EventWindowResized
	EventDataFromTty
)

// Event is a single occurrence destined for the Terminal's owning
// goroutine. Exactly the fields relevant to Kind are meaningful; the rest
// are zero. A tagged struct, rather than an interface per kind, keeps
// Enqueue allocation-free for the common cases.
type Event struct {
	Kind EventKind

	Modifiers Modifiers
	X, Y      uint32

	MouseButton uint32
	MouseDown   bool
	WheelUp     bool

	Key      KeyCode
	Char     rune
	Width    uint32
	Height   uint32
	TtyBytes []byte
}

// KeyCode identifies a non-printable key (arrows, function keys, etc.)
// reported via EventKeyInput. Printable characters arrive as
// EventCharInput instead.
type KeyCode int

const (
	KeyUnknown KeyCode = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert
	KeyDelete
	KeyBackspace
	KeyEnter
	KeyTab
	KeyEscape
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

// EventQueue is the single object shared across goroutines: the PTY
// reader and any input-producing goroutine (keyboard, mouse, window
// resize) enqueue onto it; the owning event loop is the only one that
// ever calls Process, draining it without holding the lock while user
// callbacks run.
type EventQueue struct {
	mu     sync.Mutex
	events []Event
}

// Enqueue appends ev for later delivery. Safe to call from any goroutine.
func (q *EventQueue) Enqueue(ev Event) {
	q.mu.Lock()
	q.events = append(q.events, ev)
	q.mu.Unlock()
}

// Process delivers every currently queued event to fn, in the order they
// were enqueued, then clears the queue. It holds the lock only long
// enough to swap out the backing slice, so fn may itself enqueue more
// events (e.g. a key handler writing to the pty, whose reader goroutine
// enqueues EventDataFromTty) without deadlocking.
func (q *EventQueue) Process(fn func(Event)) {
	q.mu.Lock()
	pending := q.events
	q.events = nil
	q.mu.Unlock()

	for _, ev := range pending {
		fn(ev)
	}
}
