package pkg

import (
	"fmt"
	"io"

	"go.uber.org/multierr"
)

// MultiLogWriter duplicates log output to every writer. A failing writer does not
// stop the others; all failures are returned together.
type MultiLogWriter struct {
	writers []io.Writer
}

func NewMultiLogWriter(writers ...io.Writer) *MultiLogWriter {
	return &MultiLogWriter{writers: writers}
}

func (mw *MultiLogWriter) Write(p []byte) (int, error) {
	var err error
	for i, w := range mw.writers {
		n, wErr := w.Write(p)
		if wErr == nil && n < len(p) {
			wErr = io.ErrShortWrite
		}
		if wErr != nil {
			err = multierr.Append(err, fmt.Errorf("log writer %d: %w", i, wErr))
		}
	}
	return len(p), err
}
