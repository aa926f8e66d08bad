package text

import (
	"bufio"
	"bytes"
	"errors"
	"io"

	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/document"
)

// MaxLineLength bounds the bytes buffered for a single line.
const MaxLineLength = 1024 * 1024

// Source reads plain text line by line. The content of every line is a text
// unit and its terminator a structure unit, so line breaks survive
// annotation.
type Source struct {
	scanner *bufio.Scanner
	offset  int64
	pending *document.Unit
}

func NewSource(r io.Reader) *Source {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineLength)
	scanner.Split(scanLinesWithTerminator)
	return &Source{scanner: scanner}
}

func (s *Source) Next() (document.Unit, error) {
	if s.pending != nil {
		unit := *s.pending
		s.pending = nil
		s.offset += int64(len(unit.Data))
		return unit, nil
	}

	if !s.scanner.Scan() {
		err := s.scanner.Err()
		if err == nil {
			return document.Unit{}, io.EOF
		} else if errors.Is(err, bufio.ErrTooLong) {
			return document.Unit{}, &document.FormatError{Offset: s.offset, Err: err}
		}
		return document.Unit{}, &document.IOError{Side: document.SourceSide, Err: err}
	}

	line := make([]byte, len(s.scanner.Bytes()))
	copy(line, s.scanner.Bytes())

	content := bytes.TrimRight(line, "\r\n")
	if len(content) < len(line) {
		s.pending = &document.Unit{Kind: document.Structure, Data: line[len(content):]}
	}
	if len(content) == 0 {
		return s.Next()
	}
	s.offset += int64(len(content))
	return document.Unit{Kind: document.Text, Data: content}, nil
}

// scanLinesWithTerminator is bufio.ScanLines without dropping the line
// terminator.
func scanLinesWithTerminator(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		return i + 1, data[:i+1], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
