package engine

import (
	"bufio"
	"errors"
	"io"
)

// LineReader supplies the engine's ',' operator with one line at a time.
// A line keeps its terminator. At end of input ReadLine returns whatever
// was left together with io.EOF.
type LineReader interface {
	ReadLine() ([]byte, error)
}

type lineReader struct {
	r *bufio.Reader
}

// NewLineReader wraps a plain, non-interactive source.
func NewLineReader(r io.Reader) LineReader {
	return &lineReader{r: bufio.NewReader(r)}
}

func (l *lineReader) ReadLine() ([]byte, error) {
	line, err := l.r.ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return line, err
}
