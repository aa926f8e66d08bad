package text

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/document"
)

func TestSource(t *testing.T) {
	input := "utter nonsense\r\n\nsociable\nno newline"
	src := NewSource(strings.NewReader(input))

	var units []document.Unit
	for {
		unit, err := src.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		units = append(units, unit)
	}

	assert.Equal(t, []document.Unit{
		{Kind: document.Text, Data: []byte("utter nonsense")},
		{Kind: document.Structure, Data: []byte("\r\n")},
		{Kind: document.Structure, Data: []byte("\n")},
		{Kind: document.Text, Data: []byte("sociable")},
		{Kind: document.Structure, Data: []byte("\n")},
		{Kind: document.Text, Data: []byte("no newline")},
	}, units)
}

func TestSource_LineTooLong(t *testing.T) {
	src := NewSource(strings.NewReader("short\n" + strings.Repeat("a", MaxLineLength+1)))

	var err error
	for err == nil {
		_, err = src.Next()
	}
	var formatErr *document.FormatError
	require.True(t, errors.As(err, &formatErr), "unexpected error %v", err)
	assert.Equal(t, int64(len("short\n")), formatErr.Offset)
}
