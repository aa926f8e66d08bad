package annotate

import (
	"strings"
	"unicode"
)

// PreserveEdges wraps transform so that the leading and trailing whitespace
// of its input survives. Text split by markup would otherwise lose the space
// between a word and the neighbouring element.
func PreserveEdges(transform func(string) string) func(string) string {
	return func(s string) string {
		core := strings.TrimFunc(s, unicode.IsSpace)
		if core == "" {
			return s
		}
		start := strings.Index(s, core)
		return s[:start] + transform(core) + s[start+len(core):]
	}
}
