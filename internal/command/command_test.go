package command

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueSendNeverBlocksProducer(t *testing.T) {
	q := NewQueue()

	// Nobody is consuming; a large backlog must not stall the producer.
	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			q.Send(Message{Cmd: NextPage})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		require.Fail(t, "Send blocked with no consumer")
	}
}

func TestQueuePreservesArrivalOrder(t *testing.T) {
	q := NewQueue()

	// Build a backlog before consuming, so later sends land while earlier
	// ones are still queued. A send made while the coordinator is busy must
	// never be overtaken by one made after it.
	sent := []Message{
		{Cmd: NextPage},
		{Cmd: PreviousPage},
		{Cmd: Quit},
	}
	for _, m := range sent {
		q.Send(m)
	}

	for i, want := range sent {
		select {
		case got := <-q.C():
			assert.Equal(t, want.Cmd, got.Cmd, "message %d out of order", i)
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for message %d", i)
		}
	}
}

func TestQueueOrderAcrossDrains(t *testing.T) {
	q := NewQueue()

	// Interleave consumption with production; order must hold whether a
	// message sat in the backlog or went straight through.
	for i := 0; i < 100; i++ {
		q.Send(Message{Cmd: NextPage, Path: pathFor(i)})
		if i%3 == 0 {
			msg := <-q.C()
			assert.Equal(t, pathFor(i/3), msg.Path)
		}
	}
}

func pathFor(i int) string {
	return string(rune('a'+i%26)) + ".pdf"
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "first-page", FirstPage.String())
	assert.Equal(t, "refresh", Refresh.String())
	assert.Equal(t, "unknown", Command(99).String())
}
