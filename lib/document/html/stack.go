package html

// htmlStack counts the disallowed elements currently open. Documents in the
// wild are not always balanced, so an end tag only closes an element of the
// same name that is actually open.
type htmlStack struct {
	open  map[string]int
	depth int
}

func (s *htmlStack) push(name string) {
	if _, ok := disallowedNodes[name]; !ok || voidElements[name] {
		return
	}
	if s.open == nil {
		s.open = map[string]int{}
	}
	s.open[name]++
	s.depth++
}

func (s *htmlStack) pop(name string) {
	if s.open[name] == 0 {
		return
	}
	s.open[name]--
	s.depth--
}

func (s *htmlStack) disallowed() bool {
	return s.depth > 0
}

// Elements which never have an end tag.
var voidElements = map[string]bool{
	"area":   true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"source": true,
}

// Elements whose content the tokenizer returns as a single raw text token.
var rawTextElements = map[string]bool{
	"iframe":    true,
	"noembed":   true,
	"noframes":  true,
	"noscript":  true,
	"plaintext": true,
	"script":    true,
	"style":     true,
	"textarea":  true,
	"title":     true,
	"xmp":       true,
}
