package bitty

import (
	"sync"
	"testing"
)

func TestEventQueueProcessInOrder(t *testing.T) {
	var q EventQueue
	q.Enqueue(Event{Kind: EventCharInput, Char: 'a'})
	q.Enqueue(Event{Kind: EventCharInput, Char: 'b'})
	q.Enqueue(Event{Kind: EventCharInput, Char: 'c'})

	var got []rune
	q.Process(func(ev Event) {
		got = append(got, ev.Char)
	})

	want := []rune{'a', 'b', 'c'}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestEventQueueProcessDrainsQueue(t *testing.T) {
	var q EventQueue
	q.Enqueue(Event{Kind: EventWindowResized, Width: 80, Height: 24})

	q.Process(func(ev Event) {})

	var second []Event
	q.Process(func(ev Event) { second = append(second, ev) })
	if len(second) != 0 {
		t.Errorf("expected empty queue on second Process, got %v", second)
	}
}

func TestEventQueueConcurrentEnqueue(t *testing.T) {
	var q EventQueue
	var wg sync.WaitGroup
	const n = 100

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			q.Enqueue(Event{Kind: EventCharInput, Char: rune('a' + i%26)})
		}(i)
	}
	wg.Wait()

	count := 0
	q.Process(func(ev Event) { count++ })
	if count != n {
		t.Errorf("processed %d events, want %d", count, n)
	}
}

func TestEventQueueReentrantEnqueueDuringProcess(t *testing.T) {
	var q EventQueue
	q.Enqueue(Event{Kind: EventDataFromTty, TtyBytes: []byte("hi")})

	q.Process(func(ev Event) {
		q.Enqueue(Event{Kind: EventCharInput, Char: 'x'})
	})

	var second []Event
	q.Process(func(ev Event) { second = append(second, ev) })
	if len(second) != 1 || second[0].Char != 'x' {
		t.Errorf("expected the reentrant enqueue to survive to the next Process call, got %v", second)
	}
}
