package pkg

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

func TestMultiLogWriter_Write(t *testing.T) {
	sb1 := &strings.Builder{}
	sb1.WriteString("already-here ")
	sb2 := &strings.Builder{}

	mw := NewMultiLogWriter(sb1, sb2)
	for _, line := range []string{"level=info msg=one\n", "level=warn msg=two\n"} {
		n, err := mw.Write([]byte(line))
		require.NoError(t, err)
		assert.Equal(t, len(line), n)
	}

	assert.Equal(t, "already-here level=info msg=one\nlevel=warn msg=two\n", sb1.String())
	assert.Equal(t, "level=info msg=one\nlevel=warn msg=two\n", sb2.String())
}

func TestMultiLogWriter_FailingWriters(t *testing.T) {
	sb := &strings.Builder{}
	mw := NewMultiLogWriter(failingWriter{}, sb, shortWriter{})

	msg := "level=error msg=disk full\n"
	n, err := mw.Write([]byte(msg))
	require.Error(t, err)
	assert.Equal(t, len(msg), n)
	assert.Equal(t, msg, sb.String(), "healthy writers still get the line")

	errs := multierr.Errors(err)
	require.Len(t, errs, 2)
	assert.EqualError(t, errs[0], "log writer 0: disk full")
	assert.ErrorIs(t, errs[1], io.ErrShortWrite)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

type shortWriter struct{}

func (shortWriter) Write(p []byte) (int, error) {
	return len(p) / 2, nil
}
