// Package term owns the process-wide terminal state: raw mode, cursor
// visibility, screen clearing, and the inline-image escape sequence.
package term

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

const (
	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
	clearScreen = "\x1b[2J"
	cursorHome  = "\x1b[1;1H"
)

// Guard holds the terminal in raw mode with the cursor hidden. Restore is
// idempotent and must run on every exit path so the shell gets its cooked
// terminal back.
type Guard struct {
	fd    int
	state *term.State
	out   io.Writer
	once  sync.Once
}

// Acquire puts the input terminal into raw mode and prepares the output
// stream for drawing.
func Acquire(in *os.File, out io.Writer) (*Guard, error) {
	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return nil, errors.New("stdin is not a terminal")
	}
	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("enter raw mode: %w", err)
	}
	_, _ = io.WriteString(out, hideCursor+clearScreen+cursorHome)
	return &Guard{fd: fd, state: state, out: out}, nil
}

// Restore returns the terminal to cooked mode and re-shows the cursor.
func (g *Guard) Restore() {
	g.once.Do(func() {
		_, _ = io.WriteString(g.out, showCursor+clearScreen+cursorHome)
		_ = term.Restore(g.fd, g.state)
	})
}

// Size returns the terminal dimensions in cells.
func Size(f *os.File) (cols, rows int, err error) {
	return term.GetSize(int(f.Fd()))
}

// MoveTo positions the cursor at the 1-based row and column.
func MoveTo(w io.Writer, row, col int) error {
	_, err := fmt.Fprintf(w, "\x1b[%d;%dH", row, col)
	return err
}

// Clear wipes the screen and homes the cursor.
func Clear(w io.Writer) error {
	_, err := io.WriteString(w, clearScreen+cursorHome)
	return err
}

// InlineImage is one image emission. Exactly one of WidthCells and
// HeightCells must be set; the terminal scales the other dimension itself,
// preserving aspect ratio.
type InlineImage struct {
	Data        []byte
	WidthCells  int
	HeightCells int
}

// WriteInlineImage emits the OSC 1337 inline-image sequence understood by
// iTerm2, WezTerm, and compatible emulators.
func WriteInlineImage(w io.Writer, img InlineImage) error {
	if (img.WidthCells > 0) == (img.HeightCells > 0) {
		return errors.New("inline image needs exactly one of width or height")
	}

	dim := fmt.Sprintf("width=%d", img.WidthCells)
	if img.HeightCells > 0 {
		dim = fmt.Sprintf("height=%d", img.HeightCells)
	}

	_, err := fmt.Fprintf(w, "\x1b]1337;File=inline=1;preserveAspectRatio=1;size=%d;%s:%s\a",
		len(img.Data), dim, base64.StdEncoding.EncodeToString(img.Data))
	return err
}
