// Package document models an open paginated document and the ordered set of
// documents being browsed. All mutation happens on the coordinator goroutine;
// nothing here is safe for concurrent use and nothing needs to be.
package document

import (
	"errors"
	"fmt"
)

// ErrEmptyDocument is returned when a document opens cleanly but has no pages.
var ErrEmptyDocument = errors.New("document has no pages")

// RenderedPage holds the encoded image for one page. Immutable once produced;
// a session replaces it wholesale on every navigation.
type RenderedPage struct {
	Data   []byte
	Width  int
	Height int
}

// Document is one open document handle.
type Document interface {
	PageCount() int
	// RenderPage rasterizes the page at index to an encoded image scaled to
	// targetHeight pixels. Index is zero-based and must be in range.
	RenderPage(index, targetHeight int) (RenderedPage, error)
	Close() error
}

// Rasterizer opens documents. Implementations live behind this interface so
// the coordinator and its tests never touch a rendering library directly.
type Rasterizer interface {
	Open(path string) (Document, error)
}

// Session owns one open document, its page cursor, and the currently
// rendered page.
type Session struct {
	Path         string
	CurrentPage  int
	PageCount    int
	Page         RenderedPage
	doc          Document
	targetHeight int
}

// OpenSession opens path and synchronously renders the start page. startPage
// is clamped into [0, pageCount-1]; a reload that shortened the document
// therefore lands on the new last page rather than failing.
func OpenSession(r Rasterizer, path string, startPage, targetHeight int) (*Session, error) {
	doc, err := r.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	count := doc.PageCount()
	if count == 0 {
		_ = doc.Close()
		return nil, fmt.Errorf("%s: %w", path, ErrEmptyDocument)
	}

	if startPage < 0 {
		startPage = 0
	}
	if startPage > count-1 {
		startPage = count - 1
	}

	page, err := doc.RenderPage(startPage, targetHeight)
	if err != nil {
		_ = doc.Close()
		return nil, fmt.Errorf("render %s page %d: %w", path, startPage, err)
	}

	return &Session{
		Path:         path,
		CurrentPage:  startPage,
		PageCount:    count,
		Page:         page,
		doc:          doc,
		targetHeight: targetHeight,
	}, nil
}

// RenderPage re-renders the page at index and moves the cursor there. The
// caller enforces bounds. On failure the cursor and current page are left
// untouched so the previous valid frame stays displayed.
func (s *Session) RenderPage(index int) error {
	page, err := s.doc.RenderPage(index, s.targetHeight)
	if err != nil {
		return fmt.Errorf("render %s page %d: %w", s.Path, index, err)
	}
	s.Page = page
	s.CurrentPage = index
	return nil
}

// Close releases the underlying document handle.
func (s *Session) Close() error {
	return s.doc.Close()
}
