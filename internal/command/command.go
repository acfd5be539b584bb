// Package command defines the navigation commands exchanged between the
// input and watch producers and the browser coordinator, and the ordered
// queue that carries them.
package command

import "sync"

// Command is a single navigation intent.
type Command int

const (
	// Noop is produced for unmapped keys so that every keystroke maps to
	// exactly one command.
	Noop Command = iota
	NextPage
	PreviousPage
	FirstPage
	LastPage
	NextDocument
	PreviousDocument
	Refresh
	Open
	Quit
)

// String returns the command name for logging.
func (c Command) String() string {
	switch c {
	case Noop:
		return "noop"
	case NextPage:
		return "next-page"
	case PreviousPage:
		return "previous-page"
	case FirstPage:
		return "first-page"
	case LastPage:
		return "last-page"
	case NextDocument:
		return "next-document"
	case PreviousDocument:
		return "previous-document"
	case Refresh:
		return "refresh"
	case Open:
		return "open"
	case Quit:
		return "quit"
	default:
		return "unknown"
	}
}

// Message is a command on the coordinator channel. Path is set only for
// Refresh and names the document the filesystem event belonged to, so the
// coordinator can drop events for a document that is no longer current.
type Message struct {
	Cmd  Command
	Path string
}

// Queue is the unbounded FIFO between the producers and the coordinator.
// Send never blocks, so producers keep running while the coordinator is
// mid-render, and a single pump goroutine drains the backlog into C in
// strict arrival order.
type Queue struct {
	mu      sync.Mutex
	pending []Message
	wake    chan struct{}
	out     chan Message
}

// NewQueue starts the pump goroutine. It is abandoned at process exit along
// with the producers; there is no explicit shutdown.
func NewQueue() *Queue {
	q := &Queue{
		wake: make(chan struct{}, 1),
		out:  make(chan Message),
	}
	go q.pump()
	return q
}

// Send enqueues a message and returns immediately.
func (q *Queue) Send(m Message) {
	q.mu.Lock()
	q.pending = append(q.pending, m)
	q.mu.Unlock()

	select {
	case q.wake <- struct{}{}:
	default:
	}
}

// C is the coordinator's end of the queue.
func (q *Queue) C() <-chan Message {
	return q.out
}

func (q *Queue) pump() {
	for range q.wake {
		for {
			q.mu.Lock()
			if len(q.pending) == 0 {
				q.mu.Unlock()
				break
			}
			m := q.pending[0]
			q.pending = q.pending[1:]
			q.mu.Unlock()
			q.out <- m
		}
	}
}
