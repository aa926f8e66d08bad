package text

import (
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeKey returns the form used for lexicon keys and probes. NFC keeps
// composed and decomposed accents equal without folding full-width
// punctuation the way NFKC would.
func NormalizeKey(key string) string {
	return norm.NFC.String(key)
}

// IsBlank reports whether s is empty or only whitespace.
func IsBlank(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
