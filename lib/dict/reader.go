package dict

import (
	"fmt"
	"io"

	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/lexicon"
)

type Format string

const (
	// WordwiseDictionaryFormat is CSV with a header row. Definitions have the
	// columns id, term, pronunciation, long gloss, short gloss, usage examples
	// and difficulty. Lemmas have the columns lemma and form.
	WordwiseDictionaryFormat Format = "wordwise"
	// NativeDictionaryFormat is one JSON object per line.
	NativeDictionaryFormat Format = "native"
)

// Lemma maps an inflected Form to its base form.
type Lemma struct {
	Form  string `json:"form"`
	Lemma string `json:"lemma"`
}

// RowError is sent on the error channel when a row cannot be parsed.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error {
	return e.Err
}

// DefinitionReader streams definitions. Closing stop makes the reader
// goroutine give up early. The error channel receives exactly one value,
// nil at the end of the input.
type DefinitionReader interface {
	ReadDefinitions(r io.Reader, stop <-chan struct{}) (chan lexicon.Definition, chan error)
}

type LemmaReader interface {
	ReadLemmas(r io.Reader, stop <-chan struct{}) (chan Lemma, chan error)
}

func NewDefinitionReader(format Format) (DefinitionReader, error) {
	switch format {
	case WordwiseDictionaryFormat:
		return NewWordwiseReader(), nil
	case NativeDictionaryFormat:
		return NewNativeReader(), nil
	default:
		return nil, fmt.Errorf("unsupported dictionary format %v", format)
	}
}

func NewLemmaReader(format Format) (LemmaReader, error) {
	switch format {
	case WordwiseDictionaryFormat:
		return NewWordwiseReader(), nil
	case NativeDictionaryFormat:
		return NewNativeReader(), nil
	default:
		return nil, fmt.Errorf("unsupported dictionary format %v", format)
	}
}

// ReadDefinitionsWithCallback reads r according to format and executes
// onEntry for each definition.
func ReadDefinitionsWithCallback(r io.Reader, format Format, onEntry func(lexicon.Definition) error) error {
	reader, err := NewDefinitionReader(format)
	if err != nil {
		return err
	}

	stop := make(chan struct{})
	defer close(stop)
	entries, errors := reader.ReadDefinitions(r, stop)

	for {
		select {
		case err := <-errors:
			return err
		case entry := <-entries:
			if err := onEntry(entry); err != nil {
				return err
			}
		}
	}
}

// ReadLemmasWithCallback reads r according to format and executes onEntry
// for each lemma.
func ReadLemmasWithCallback(r io.Reader, format Format, onEntry func(Lemma) error) error {
	reader, err := NewLemmaReader(format)
	if err != nil {
		return err
	}

	stop := make(chan struct{})
	defer close(stop)
	entries, errors := reader.ReadLemmas(r, stop)

	for {
		select {
		case err := <-errors:
			return err
		case entry := <-entries:
			if err := onEntry(entry); err != nil {
				return err
			}
		}
	}
}
