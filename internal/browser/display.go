package browser

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/halcyonix/inkpdf/internal/document"
	"github.com/halcyonix/inkpdf/internal/term"
)

// chromeMargin reserves cells for the status line and breathing room around
// the image.
const chromeMargin = 2

var (
	statusStyle = lipgloss.NewStyle().Faint(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
)

// Status is the per-frame state shown under the page.
type Status struct {
	Path      string
	Page      int // zero-based
	PageCount int
	Err       string // non-empty when the last operation was contained
}

// Display renders one page plus its status to the terminal.
type Display interface {
	Show(page document.RenderedPage, st Status) error
}

type fit int

const (
	fitWidth fit = iota
	fitHeight
)

// fitFor picks the dimension to scale by. A portrait page on a landscape
// terminal fills the available height; every other combination fills the
// width. Equal dimensions count as landscape on both sides.
func fitFor(pageW, pageH, cols, rows int) fit {
	pageLandscape := pageW >= pageH
	termLandscape := cols >= rows
	if !pageLandscape && termLandscape {
		return fitHeight
	}
	return fitWidth
}

// TermDisplay writes frames to a terminal using the inline-image protocol.
type TermDisplay struct {
	out  io.Writer
	size func() (cols, rows int, err error)
}

// NewTermDisplay builds a display over the output stream. size is queried on
// every frame so window resizes take effect on the next navigation.
func NewTermDisplay(out io.Writer, size func() (cols, rows int, err error)) *TermDisplay {
	return &TermDisplay{out: out, size: size}
}

// Show clears the screen, emits the page image sized per fitFor, and draws
// the status line on the bottom row.
func (d *TermDisplay) Show(page document.RenderedPage, st Status) error {
	cols, rows, err := d.size()
	if err != nil {
		return fmt.Errorf("terminal size: %w", err)
	}

	img := term.InlineImage{Data: page.Data}
	if fitFor(page.Width, page.Height, cols, rows) == fitHeight {
		img.HeightCells = max(rows-chromeMargin, 1)
	} else {
		img.WidthCells = max(cols-chromeMargin, 1)
	}

	if err := term.Clear(d.out); err != nil {
		return err
	}
	if err := term.WriteInlineImage(d.out, img); err != nil {
		return err
	}
	if err := term.MoveTo(d.out, rows, 1); err != nil {
		return err
	}

	line := statusStyle.Render(fmt.Sprintf("%s  [%d/%d]", st.Path, st.Page+1, st.PageCount))
	if st.Err != "" {
		line += "  " + errorStyle.Render(st.Err)
	}
	_, err = io.WriteString(d.out, line)
	return err
}
