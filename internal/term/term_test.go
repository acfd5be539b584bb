package term

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteInlineImage_Width(t *testing.T) {
	var buf bytes.Buffer
	data := []byte("fake-png-bytes")

	require.NoError(t, WriteInlineImage(&buf, InlineImage{Data: data, WidthCells: 80}))

	want := fmt.Sprintf("\x1b]1337;File=inline=1;preserveAspectRatio=1;size=%d;width=80:%s\a",
		len(data), base64.StdEncoding.EncodeToString(data))
	assert.Equal(t, want, buf.String())
}

func TestWriteInlineImage_Height(t *testing.T) {
	var buf bytes.Buffer
	data := []byte{0x89, 'P', 'N', 'G'}

	require.NoError(t, WriteInlineImage(&buf, InlineImage{Data: data, HeightCells: 22}))

	out := buf.String()
	assert.Contains(t, out, "height=22:")
	assert.NotContains(t, out, "width=")
	assert.Contains(t, out, "size=4;")
}

func TestWriteInlineImage_ExactlyOneDimension(t *testing.T) {
	var buf bytes.Buffer

	assert.Error(t, WriteInlineImage(&buf, InlineImage{Data: []byte("x")}))
	assert.Error(t, WriteInlineImage(&buf, InlineImage{Data: []byte("x"), WidthCells: 1, HeightCells: 1}))
	assert.Zero(t, buf.Len(), "nothing may be written on invalid input")
}

func TestMoveTo(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, MoveTo(&buf, 24, 1))
	assert.Equal(t, "\x1b[24;1H", buf.String())
}

func TestClear(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Clear(&buf))
	assert.Equal(t, "\x1b[2J\x1b[1;1H", buf.String())
}
