package document

import "fmt"

type Side string

const (
	SourceSide Side = "source"
	SinkSide   Side = "sink"
)

// IOError means the source could not be read or the sink could not be
// written.
type IOError struct {
	Side Side
	Name string
	Err  error
}

func (e *IOError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s %s: %v", e.Side, e.Name, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Side, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// FormatError means the source contains input it cannot classify.
type FormatError struct {
	Name   string
	Offset int64
	Err    error
}

func (e *FormatError) Error() string {
	name := e.Name
	if name == "" {
		name = "document"
	}
	return fmt.Sprintf("malformed %s at byte %d: %v", name, e.Offset, e.Err)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
