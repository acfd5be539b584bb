// Package browser runs the navigation state machine. The coordinator is the
// single consumer of the command channel and the only writer of the document
// list and session; producers never touch either.
package browser

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/halcyonix/inkpdf/internal/command"
	"github.com/halcyonix/inkpdf/internal/document"
)

// OpenFunc opens a session on path starting at startPage. The bootstrap
// supplies a closure that also re-arms the filesystem watch, keeping watch
// ownership out of the coordinator.
type OpenFunc func(path string, startPage int) (*document.Session, error)

// Launcher starts the external viewer process, fire and forget.
type Launcher interface {
	Start(ctx context.Context, cmd string, args ...string) error
}

// Coordinator consumes commands in arrival order and drives rendering.
// Renders happen synchronously inside command handling, so a command's frame
// is complete before the next command is observed.
type Coordinator struct {
	list     *document.List
	session  *document.Session
	open     OpenFunc
	display  Display
	launcher Launcher
	viewer   string
	cmds     <-chan command.Message
	log      zerolog.Logger

	// armed is the pending first-page double-tap flag. Any command other
	// than FirstPage clears it.
	armed bool
}

// New builds a coordinator over an already-open session for the list's
// current document.
func New(
	list *document.List,
	session *document.Session,
	open OpenFunc,
	display Display,
	launcher Launcher,
	viewer string,
	cmds <-chan command.Message,
	log zerolog.Logger,
) *Coordinator {
	return &Coordinator{
		list:     list,
		session:  session,
		open:     open,
		display:  display,
		launcher: launcher,
		viewer:   viewer,
		cmds:     cmds,
		log:      log.With().Str("component", "browser").Logger(),
	}
}

// Run displays the initial page, then consumes commands until Quit. It
// returns the path of the last-viewed document.
func (c *Coordinator) Run() string {
	c.show("")
	for msg := range c.cmds {
		if c.apply(msg) {
			break
		}
	}
	return c.session.Path
}

// Session exposes the live session for tests.
func (c *Coordinator) Session() *document.Session {
	return c.session
}

// apply executes one command and reports whether the loop should terminate.
func (c *Coordinator) apply(msg command.Message) bool {
	if msg.Cmd != command.FirstPage {
		c.armed = false
	}

	switch msg.Cmd {
	case command.NextPage:
		if c.session.CurrentPage < c.session.PageCount-1 {
			c.renderAndShow(c.session.CurrentPage + 1)
		}

	case command.PreviousPage:
		if c.session.CurrentPage > 0 {
			c.renderAndShow(c.session.CurrentPage - 1)
		}

	case command.FirstPage:
		if c.armed {
			c.armed = false
			c.renderAndShow(0)
		} else {
			c.armed = true
		}

	case command.LastPage:
		c.renderAndShow(c.session.PageCount - 1)

	case command.NextDocument:
		c.switchDocument(c.list.Advance, c.list.Retreat)

	case command.PreviousDocument:
		c.switchDocument(c.list.Retreat, c.list.Advance)

	case command.Refresh:
		c.refresh(msg.Path)

	case command.Open:
		c.openExternal()

	case command.Quit:
		return true

	case command.Noop:
	}
	return false
}

func (c *Coordinator) renderAndShow(index int) {
	if err := c.session.RenderPage(index); err != nil {
		c.log.Error().Err(err).Int("page", index).Msg("render failed")
		c.show("render failed")
		return
	}
	c.show("")
}

// switchDocument moves the list cursor with move and opens the new current
// document at page 0. If the open fails the cursor is rolled back with undo
// and the previous session stays live.
func (c *Coordinator) switchDocument(move, undo func() bool) {
	if !move() {
		return
	}
	path := c.list.Current()
	next, err := c.open(path, 0)
	if err != nil {
		undo()
		c.log.Error().Err(err).Str("path", path).Msg("document switch failed")
		c.show("open failed")
		return
	}
	_ = c.session.Close()
	c.session = next
	c.show("")
}

// refresh re-opens the current document at the page it was on; the open path
// clamps if the reloaded document got shorter. Events for a document that is
// no longer current are dropped. A failed reload keeps the previous session.
func (c *Coordinator) refresh(origin string) {
	if origin != "" && origin != c.list.Current() {
		c.log.Debug().Str("path", origin).Msg("stale refresh ignored")
		return
	}
	next, err := c.open(c.session.Path, c.session.CurrentPage)
	if err != nil {
		c.log.Warn().Err(err).Str("path", c.session.Path).Msg("reload failed, keeping previous session")
		c.show("reload failed")
		return
	}
	_ = c.session.Close()
	c.session = next
	c.show("")
}

func (c *Coordinator) openExternal() {
	if err := c.launcher.Start(context.Background(), c.viewer, c.session.Path); err != nil {
		c.log.Error().Err(err).Str("viewer", c.viewer).Msg("external viewer launch failed")
		c.show("open failed")
	}
}

func (c *Coordinator) show(errMsg string) {
	st := Status{
		Path:      c.session.Path,
		Page:      c.session.CurrentPage,
		PageCount: c.session.PageCount,
		Err:       errMsg,
	}
	if err := c.display.Show(c.session.Page, st); err != nil {
		c.log.Error().Err(err).Msg("display failed")
	}
}
