package document

import "errors"

// List is the ordered set of document paths with a cursor. Navigation is
// clamped at both ends; there is no wraparound.
type List struct {
	paths   []string
	current int
}

// NewList builds a list over paths, starting at the first.
func NewList(paths []string) (*List, error) {
	if len(paths) == 0 {
		return nil, errors.New("document list is empty")
	}
	return &List{paths: paths}, nil
}

// Current returns the path under the cursor.
func (l *List) Current() string {
	return l.paths[l.current]
}

// Len returns the number of documents.
func (l *List) Len() int {
	return len(l.paths)
}

// Index returns the zero-based cursor position.
func (l *List) Index() int {
	return l.current
}

// Advance moves to the next path and reports whether a move occurred.
func (l *List) Advance() bool {
	if l.current == len(l.paths)-1 {
		return false
	}
	l.current++
	return true
}

// Retreat moves to the previous path and reports whether a move occurred.
func (l *List) Retreat() bool {
	if l.current == 0 {
		return false
	}
	l.current--
	return true
}
