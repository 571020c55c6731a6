package prompt

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rdr(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("  ~/Pictures/cat.png \n"), "Path?", &out)
	require.NoError(t, err)
	assert.Equal(t, "~/Pictures/cat.png", got)
	assert.Equal(t, "Path?\n> ", out.String())
}

func TestGetSimpleText_EOFAfterInput(t *testing.T) {
	var out bytes.Buffer
	got, err := GetSimpleText(rdr("lastline"), "Path?", &out)
	require.NoError(t, err)
	assert.Equal(t, "lastline", got)
}

func TestGetSimpleText_EOFWithoutInput(t *testing.T) {
	var out bytes.Buffer
	_, err := GetSimpleText(rdr(""), "Path?", &out)
	require.ErrorIs(t, err, io.EOF)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestGetSimpleText_WriteError(t *testing.T) {
	_, err := GetSimpleText(rdr("x\n"), "Path?", failingWriter{})
	require.ErrorIs(t, err, io.ErrClosedPipe)
}

func TestIsTerminal(t *testing.T) {
	orig := isTerminal
	t.Cleanup(func() { isTerminal = orig })

	var gotFd int
	isTerminal = func(fd int) bool { gotFd = fd; return true }

	assert.True(t, IsTerminal(os.Stdout))
	assert.Equal(t, int(os.Stdout.Fd()), gotFd)
	assert.False(t, IsTerminal(&bytes.Buffer{}), "non-files are never terminals")
}
