/*
 * Copyright 2022 Medicines Discovery Catapult
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *     http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package annotate finds dictionary terms in running text and replaces them
// with their glossed rendering.
package annotate

import (
	"errors"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/blocklist"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/gloss"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/lexicon"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/text"
)

// Match is the result of one scan step. Definition is nil when the surface
// is emitted unchanged.
type Match struct {
	Surface    string
	Tokens     int
	Definition *lexicon.Definition
}

type Option func(*Annotator)

// WithBlocklist vetoes resolved terms which the blocklist does not allow.
func WithBlocklist(bl *blocklist.Blocklist) Option {
	return func(a *Annotator) {
		a.blocklist = bl
	}
}

// WithObserver registers a function called for every annotation made. It
// may be called from several goroutines at once.
func WithObserver(observe func(*lexicon.Definition)) Option {
	return func(a *Annotator) {
		a.observe = observe
	}
}

// Annotator is safe for concurrent use if its formatter is.
type Annotator struct {
	lexicon   *lexicon.Lexicon
	formatter gloss.Formatter
	opts      Options
	blocklist *blocklist.Blocklist
	observe   func(*lexicon.Definition)

	annotations uint64
}

func New(lex *lexicon.Lexicon, formatter gloss.Formatter, opts Options, options ...Option) (*Annotator, error) {
	if lex == nil {
		return nil, errors.New("annotator needs a lexicon")
	}
	if formatter == nil {
		return nil, errors.New("annotator needs a formatter")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	a := &Annotator{lexicon: lex, formatter: formatter, opts: opts}
	for _, option := range options {
		option(a)
	}
	return a, nil
}

func (a *Annotator) Lexicon() *lexicon.Lexicon {
	return a.lexicon
}

func (a *Annotator) Formatter() gloss.Formatter {
	return a.formatter
}

func (a *Annotator) Options() Options {
	return a.opts
}

// Annotations returns the number of glosses emitted so far.
func (a *Annotator) Annotations() uint64 {
	return atomic.LoadUint64(&a.annotations)
}

// AnnotateText splits s on whitespace and glosses the longest term found at
// each position. Whitespace runs in the output are collapsed to single spaces.
func (a *Annotator) AnnotateText(s string) string {
	tokens, err := text.Fields(s)
	if err != nil {
		log.Debug().Err(err).Int("bytes", len(s)).Msg("segmenter failed, splitting on whitespace")
		tokens = strings.Fields(s)
	}

	out := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); {
		match := a.Match(tokens[i:])
		if match.Definition != nil {
			out = append(out, a.formatter.Format(match.Definition, match.Surface, a.opts.MaxDefinitionDetail, a.opts.IncludePronunciation))
			atomic.AddUint64(&a.annotations, 1)
			if a.observe != nil {
				a.observe(match.Definition)
			}
		} else {
			out = append(out, match.Surface)
		}
		i += match.Tokens
	}
	return strings.TrimRight(strings.Join(out, " "), " ")
}

// Match finds the longest lexicon term at the start of tokens. A phrase which
// is in the lexicon but resolves to nothing still consumes its tokens.
func (a *Annotator) Match(tokens []string) Match {
	if len(tokens) == 0 {
		return Match{}
	}

	longest := 0
	var surface string
	end := a.opts.MaxPhraseLength
	if end > len(tokens) {
		end = len(tokens)
	}
	for j := 1; j <= end; j++ {
		candidate := strings.Join(tokens[:j], " ")
		core, _, _ := text.Clean(candidate, true)
		if a.lexicon.Contains(core) {
			longest = j
			surface = candidate
		}
	}

	if longest == 0 {
		return Match{Surface: tokens[0], Tokens: 1, Definition: a.Resolve(tokens[0])}
	}
	return Match{Surface: surface, Tokens: longest, Definition: a.Resolve(surface)}
}

// Resolve returns the definition glossed for surface, or nil. Single words
// which are not terms themselves fall back to the lemma table. A term below
// the difficulty threshold is never resolved through its lemma.
func (a *Annotator) Resolve(surface string) *lexicon.Definition {
	core, _, _ := text.Clean(surface, true)
	if core == "" {
		return nil
	}

	def, ok := a.lexicon.Definition(core)
	if ok {
		if def.Difficulty < a.opts.MinDifficulty {
			def = nil
		}
	} else if !strings.Contains(core, " ") {
		def = a.resolveLemma(core)
	}

	if def != nil && a.blocklist != nil && !a.blocklist.Allowed(def.Term) {
		return nil
	}
	return def
}

func (a *Annotator) resolveLemma(form string) *lexicon.Definition {
	lemma, ok := a.lexicon.Lemma(form)
	if !ok {
		return nil
	}
	def, ok := a.lexicon.Definition(lemma)
	if !ok || def.Difficulty < a.opts.MinDifficulty {
		return nil
	}
	return def
}
