// Package watch emits a single Refresh command per settled burst of
// filesystem changes to the current document.
package watch

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/halcyonix/inkpdf/internal/command"
)

// Watcher watches one document file at a time. Editors typically save with a
// rename-over-temp dance, which removes an inode-level watch, so the parent
// directory is watched instead and events are filtered by path.
type Watcher struct {
	fsw    *fsnotify.Watcher
	out    *command.Queue
	settle time.Duration
	log    zerolog.Logger

	mu    sync.Mutex
	given string // path as handed to Retarget, echoed back on Refresh
	path  string // absolute form, used to filter directory events
	dir   string // directory currently added to fsw
}

// New creates a watcher targeting path. The settle duration is the debounce
// window: a burst of writes collapses into one Refresh sent after the burst
// goes quiet.
func New(path string, out *command.Queue, settle time.Duration, log zerolog.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:    fsw,
		out:    out,
		settle: settle,
		log:    log.With().Str("component", "watch").Logger(),
	}

	if err := w.Retarget(path); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Retarget switches the watch to a different document. Called by the run
// loop after document switches, never by the coordinator.
func (w *Watcher) Retarget(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()

	if dir != w.dir {
		if w.dir != "" {
			_ = w.fsw.Remove(w.dir)
		}
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
		w.dir = dir
	}
	w.given = path
	w.path = abs
	return nil
}

// Close stops the watcher; Run returns once the event channel closes.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run consumes filesystem events until the watcher is closed.
func (w *Watcher) Run() {
	w.run(w.fsw.Events, w.fsw.Errors)
}

// run is the debounce drain loop: the first relevant event arms a timer,
// further events during the window reset it, and exactly one Refresh is sent
// once the timer fires.
func (w *Watcher) run(events <-chan fsnotify.Event, errs <-chan error) {
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}

			w.log.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("document changed")

			timer := time.NewTimer(w.settle)
		drain:
			for {
				select {
				case e, ok := <-events:
					if !ok {
						timer.Stop()
						return
					}
					if !w.relevant(e) {
						continue
					}
					if !timer.Stop() {
						<-timer.C
					}
					timer.Reset(w.settle)
				case <-timer.C:
					break drain
				}
			}

			w.out.Send(command.Message{Cmd: command.Refresh, Path: w.document()})

		case err, ok := <-errs:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("filesystem watch error")
		}
	}
}

func (w *Watcher) document() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.given
}

func (w *Watcher) target() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.path
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return abs == w.target()
}
