package gloss

import (
	"strconv"
	"strings"
	"sync"

	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/lexicon"
)

type Note struct {
	Number int    `json:"number"`
	Term   string `json:"term"`
	Gloss  string `json:"gloss"`
}

// Footnote replaces glosses with numbered markers and keeps the notes for
// the caller to render afterwards. Numbers follow the order of Format calls.
type Footnote struct {
	mu    sync.Mutex
	notes []Note
}

func NewFootnote() *Footnote {
	return &Footnote{}
}

func (f *Footnote) Format(def *lexicon.Definition, surface string, detail Detail, pronunciation bool) string {
	core, prefix, suffix := split(surface)

	f.mu.Lock()
	n := len(f.notes) + 1
	f.notes = append(f.notes, Note{Number: n, Term: def.Term, Gloss: Text(def, detail, pronunciation)})
	f.mu.Unlock()

	return prefix + core + "<sup>[" + strconv.Itoa(n) + "]</sup>" + suffix
}

// Notes returns a copy of the notes collected so far.
func (f *Footnote) Notes() []Note {
	f.mu.Lock()
	defer f.mu.Unlock()
	notes := make([]Note, len(f.notes))
	copy(notes, f.notes)
	return notes
}

func (f *Footnote) Reset() {
	f.mu.Lock()
	f.notes = nil
	f.mu.Unlock()
}

// HTML renders the collected notes as an ordered list.
func (f *Footnote) HTML() string {
	notes := f.Notes()
	if len(notes) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<aside class="gloss-notes"><ol>`)
	for _, note := range notes {
		b.WriteString(`<li value="`)
		b.WriteString(strconv.Itoa(note.Number))
		b.WriteString(`">`)
		b.WriteString(markupEscaper.Replace(note.Term))
		b.WriteString(": ")
		b.WriteString(markupEscaper.Replace(note.Gloss))
		b.WriteString("</li>")
	}
	b.WriteString("</ol></aside>")
	return b.String()
}
