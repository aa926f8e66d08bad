package lexicon

import (
	"errors"
	"fmt"
)

type ErrorKind int

const (
	// NotFound means the backing data for the language does not exist.
	NotFound ErrorKind = iota + 1
	// ParseError means the backing data exists but is malformed.
	ParseError
	// Unavailable means a remote backend could not be reached.
	Unavailable
)

func (k ErrorKind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case ParseError:
		return "parse error"
	case Unavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// LoadError is returned by every Loader. Line is set for parse errors in line
// oriented sources.
type LoadError struct {
	Kind     ErrorKind
	Language string
	Source   string
	Line     int
	Err      error
}

func (e *LoadError) Error() string {
	msg := fmt.Sprintf("lexicon %q: %s", e.Language, e.Kind)
	if e.Source != "" {
		msg += fmt.Sprintf(" in %s", e.Source)
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// IsKind reports whether err is a LoadError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var loadErr *LoadError
	return errors.As(err, &loadErr) && loadErr.Kind == kind
}
