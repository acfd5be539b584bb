package document

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDoc struct {
	pages     int
	renderErr map[int]error
	closed    bool
}

func (d *fakeDoc) PageCount() int { return d.pages }

func (d *fakeDoc) RenderPage(index, targetHeight int) (RenderedPage, error) {
	if err := d.renderErr[index]; err != nil {
		return RenderedPage{}, err
	}
	return RenderedPage{
		Data:   []byte(fmt.Sprintf("page-%d", index)),
		Width:  1080,
		Height: targetHeight,
	}, nil
}

func (d *fakeDoc) Close() error {
	d.closed = true
	return nil
}

type fakeRasterizer struct {
	docs    map[string]*fakeDoc
	openErr map[string]error
}

func (r *fakeRasterizer) Open(path string) (Document, error) {
	if err := r.openErr[path]; err != nil {
		return nil, err
	}
	doc, ok := r.docs[path]
	if !ok {
		return nil, fmt.Errorf("no such document: %s", path)
	}
	return doc, nil
}

func TestOpenSession(t *testing.T) {
	rast := &fakeRasterizer{docs: map[string]*fakeDoc{
		"a.pdf": {pages: 5},
	}}

	s, err := OpenSession(rast, "a.pdf", 0, 1920)
	require.NoError(t, err)

	assert.Equal(t, "a.pdf", s.Path)
	assert.Equal(t, 0, s.CurrentPage)
	assert.Equal(t, 5, s.PageCount)
	assert.Equal(t, []byte("page-0"), s.Page.Data)
	assert.Equal(t, 1920, s.Page.Height)
}

func TestOpenSession_ClampsStartPage(t *testing.T) {
	rast := &fakeRasterizer{docs: map[string]*fakeDoc{
		"a.pdf": {pages: 3},
	}}

	s, err := OpenSession(rast, "a.pdf", 10, 1920)
	require.NoError(t, err)
	assert.Equal(t, 2, s.CurrentPage)

	s, err = OpenSession(rast, "a.pdf", -1, 1920)
	require.NoError(t, err)
	assert.Equal(t, 0, s.CurrentPage)
}

func TestOpenSession_Empty(t *testing.T) {
	doc := &fakeDoc{pages: 0}
	rast := &fakeRasterizer{docs: map[string]*fakeDoc{"empty.pdf": doc}}

	_, err := OpenSession(rast, "empty.pdf", 0, 1920)
	require.ErrorIs(t, err, ErrEmptyDocument)
	assert.True(t, doc.closed, "handle must be released on failure")
}

func TestOpenSession_OpenError(t *testing.T) {
	boom := errors.New("not a pdf")
	rast := &fakeRasterizer{openErr: map[string]error{"junk.pdf": boom}}

	_, err := OpenSession(rast, "junk.pdf", 0, 1920)
	require.ErrorIs(t, err, boom)
}

func TestOpenSession_FirstRenderFails(t *testing.T) {
	doc := &fakeDoc{pages: 2, renderErr: map[int]error{0: errors.New("corrupt page")}}
	rast := &fakeRasterizer{docs: map[string]*fakeDoc{"a.pdf": doc}}

	_, err := OpenSession(rast, "a.pdf", 0, 1920)
	require.Error(t, err)
	assert.True(t, doc.closed)
}

func TestSession_RenderPage(t *testing.T) {
	rast := &fakeRasterizer{docs: map[string]*fakeDoc{
		"a.pdf": {pages: 4},
	}}
	s, err := OpenSession(rast, "a.pdf", 0, 1920)
	require.NoError(t, err)

	require.NoError(t, s.RenderPage(3))
	assert.Equal(t, 3, s.CurrentPage)
	assert.Equal(t, []byte("page-3"), s.Page.Data)
}

func TestSession_RenderFailureLeavesStateUntouched(t *testing.T) {
	doc := &fakeDoc{pages: 4, renderErr: map[int]error{2: errors.New("bad stream")}}
	rast := &fakeRasterizer{docs: map[string]*fakeDoc{"a.pdf": doc}}

	s, err := OpenSession(rast, "a.pdf", 1, 1920)
	require.NoError(t, err)

	require.Error(t, s.RenderPage(2))
	assert.Equal(t, 1, s.CurrentPage, "cursor must not advance on failed render")
	assert.Equal(t, []byte("page-1"), s.Page.Data, "previous page must stay displayed")
}
