// Package input turns raw keyboard bytes into navigation commands and feeds
// them to the coordinator queue.
package input

import (
	"io"

	"github.com/rs/zerolog"

	"github.com/halcyonix/inkpdf/internal/command"
)

const (
	esc   = 0x1b
	ctrlC = 0x03
)

// Decode extracts the first keystroke from buf, returning its command and
// the number of bytes consumed. A consumed count of zero means buf holds
// only the prefix of an escape sequence and more input is needed before a
// keystroke can be recognized. Every complete keystroke maps to exactly one
// command; unmapped keys become command.Noop rather than being dropped.
func Decode(buf []byte) (command.Command, int) {
	if len(buf) == 0 {
		return command.Noop, 0
	}

	// Arrow keys arrive as ESC [ A-D (CSI) or ESC O A-D (SS3, application
	// cursor mode). Other three-byte sequences of those shapes are unmapped.
	if buf[0] == esc {
		if len(buf) == 1 {
			return command.Noop, 0
		}
		if buf[1] != '[' && buf[1] != 'O' {
			// A lone escape press followed by another key.
			return command.Noop, 1
		}
		if len(buf) < 3 {
			return command.Noop, 0
		}
		switch buf[2] {
		case 'A':
			return command.PreviousPage, 3
		case 'B':
			return command.NextPage, 3
		case 'C':
			return command.NextDocument, 3
		case 'D':
			return command.PreviousDocument, 3
		}
		return command.Noop, 3
	}

	switch buf[0] {
	case 'j':
		return command.NextPage, 1
	case 'k':
		return command.PreviousPage, 1
	case 'l':
		return command.NextDocument, 1
	case 'h':
		return command.PreviousDocument, 1
	case 'g':
		return command.FirstPage, 1
	case 'G':
		return command.LastPage, 1
	case 'r':
		return command.Refresh, 1
	case 'o':
		return command.Open, 1
	case 'q', ctrlC:
		return command.Quit, 1
	default:
		return command.Noop, 1
	}
}

// Reader is the keyboard producer. It owns nothing but the input stream and
// never blocks the coordinator.
type Reader struct {
	in  io.Reader
	out *command.Queue
	log zerolog.Logger
}

// NewReader wires a raw-mode input stream to the coordinator queue.
func NewReader(in io.Reader, out *command.Queue, log zerolog.Logger) *Reader {
	return &Reader{
		in:  in,
		out: out,
		log: log.With().Str("component", "input").Logger(),
	}
}

// Run reads until the stream errors, decoding the byte stream one keystroke
// at a time. A single read can carry several coalesced keystrokes (paste,
// autorepeat, bytes buffered during a render) and an escape sequence can be
// split across reads; each complete keystroke still yields exactly one
// command. The goroutine is abandoned at process exit; there is no explicit
// join.
func (r *Reader) Run() {
	var pending []byte
	buf := make([]byte, 64)
	for {
		n, err := r.in.Read(buf)
		if err != nil {
			r.log.Debug().Err(err).Msg("stdin closed, keyboard producer exiting")
			return
		}
		pending = append(pending, buf[:n]...)

		for {
			cmd, consumed := Decode(pending)
			if consumed == 0 {
				break
			}
			pending = pending[consumed:]
			r.out.Send(command.Message{Cmd: cmd})
		}
	}
}
