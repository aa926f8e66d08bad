package gloss

import (
	"strings"

	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/lexicon"
)

// Glosses only ever appear as element content, so quotes are left as is.
var markupEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

// Ruby renders glosses as HTML ruby annotations:
//
//	<ruby>core<rt>gloss</rt></ruby>
type Ruby struct{}

func (Ruby) Format(def *lexicon.Definition, surface string, detail Detail, pronunciation bool) string {
	core, prefix, suffix := split(surface)

	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString("<ruby>")
	b.WriteString(core)
	b.WriteString("<rt>")
	b.WriteString(markupEscaper.Replace(Text(def, detail, pronunciation)))
	b.WriteString("</rt></ruby>")
	b.WriteString(suffix)
	return b.String()
}

// Bracket renders glosses inline for plain text: "core [gloss]".
type Bracket struct{}

func (Bracket) Format(def *lexicon.Definition, surface string, detail Detail, pronunciation bool) string {
	core, prefix, suffix := split(surface)
	return prefix + core + " [" + Text(def, detail, pronunciation) + "]" + suffix
}
