package text

import (
	"bytes"
	"unicode"
	"unicode/utf8"

	"github.com/blevesearch/segment"
)

// Token is a whitespace delimited piece of text. Offset is the position of its
// first rune in the tokenized string.
type Token struct {
	Text   string `json:"token"`
	Offset uint32 `json:"offset"`
}

// Tokenize splits s on whitespace and calls onToken for each token found.
// Punctuation stays attached to its token, so "some-text," is a single token.
func Tokenize(s string, onToken func(Token) error) error {
	segmenter := segment.NewWordSegmenterDirect([]byte(s))
	buffer := bytes.NewBuffer([]byte{})

	var position, tokenStart uint32

	flush := func() error {
		if buffer.Len() == 0 {
			return nil
		}
		err := onToken(Token{Text: buffer.String(), Offset: tokenStart})
		buffer.Reset()
		return err
	}

	for segmenter.Segment() {
		segmentBytes := segmenter.Bytes()

		// Segments never split a rune, but a segment may mix whitespace with
		// other runes (a combining mark attaches to the preceding space).
		for len(segmentBytes) > 0 {
			r, size := utf8.DecodeRune(segmentBytes)
			if unicode.IsSpace(r) {
				if err := flush(); err != nil {
					return err
				}
			} else {
				if buffer.Len() == 0 {
					tokenStart = position
				}
				buffer.Write(segmentBytes[:size])
			}
			position++
			segmentBytes = segmentBytes[size:]
		}
	}
	if err := segmenter.Err(); err != nil {
		return err
	}

	return flush()
}

// Fields returns the text of every token in s.
func Fields(s string) ([]string, error) {
	var fields []string
	err := Tokenize(s, func(token Token) error {
		fields = append(fields, token.Text)
		return nil
	})
	return fields, err
}
