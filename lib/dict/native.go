package dict

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/lexicon"
)

const maxLineLength = 1024 * 1024

var errStopped = errors.New("reader stopped")

func NewNativeReader() nativeReader {
	return nativeReader{}
}

type nativeReader struct{}

func (p nativeReader) ReadDefinitions(r io.Reader, stop <-chan struct{}) (chan lexicon.Definition, chan error) {
	entries := make(chan lexicon.Definition)
	errors := make(chan error)
	go func() {
		err := readJSONLines(r, func(line []byte) error {
			var def lexicon.Definition
			if err := json.Unmarshal(line, &def); err != nil {
				return err
			}
			select {
			case entries <- def:
				return nil
			case <-stop:
				return errStopped
			}
		})
		sendErr(err, stop, errors)
	}()
	return entries, errors
}

func (p nativeReader) ReadLemmas(r io.Reader, stop <-chan struct{}) (chan Lemma, chan error) {
	entries := make(chan Lemma)
	errors := make(chan error)
	go func() {
		err := readJSONLines(r, func(line []byte) error {
			var lemma Lemma
			if err := json.Unmarshal(line, &lemma); err != nil {
				return err
			}
			select {
			case entries <- lemma:
				return nil
			case <-stop:
				return errStopped
			}
		})
		sendErr(err, stop, errors)
	}()
	return entries, errors
}

func readJSONLines(r io.Reader, onLine func([]byte) error) error {
	scn := bufio.NewScanner(r)
	scn.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	line := 0
	for scn.Scan() {
		line++
		b := bytes.TrimSpace(scn.Bytes())
		if len(b) == 0 {
			continue
		}
		if err := onLine(b); err == errStopped {
			return err
		} else if err != nil {
			return &RowError{Line: line, Err: err}
		}
	}
	if err := scn.Err(); err != nil {
		return &RowError{Line: line + 1, Err: err}
	}
	return nil
}

// sendErr delivers the final error of a reader goroutine unless the consumer
// has already gone away.
func sendErr(err error, stop <-chan struct{}, errors chan error) {
	if err == errStopped {
		return
	}
	select {
	case errors <- err:
	case <-stop:
	}
}
