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

// Package lexicon holds the in-memory dictionary used for annotation: a map of
// terms to definitions and a map of inflected forms to their lemma. A Lexicon
// is built once and never written to again, so it can be shared between
// goroutines without locking.
package lexicon

import (
	"context"

	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/text"
)

// Definition is one dictionary entry for a headword or fixed phrase.
type Definition struct {
	Term          string `json:"term"`
	Pronunciation string `json:"pronunciation"`
	LongGloss     string `json:"long_gloss"`
	ShortGloss    string `json:"short_gloss"`
	UsageExamples string `json:"usage_examples"`
	Difficulty    int    `json:"difficulty"`
}

// Loader yields the lexicon for a language.
type Loader interface {
	Load(ctx context.Context, language string) (*Lexicon, error)
}

type Lexicon struct {
	language    string
	definitions map[string]*Definition
	lemmas      map[string]string
}

func (l *Lexicon) Language() string {
	return l.language
}

// Definition returns the entry stored under term. Callers must not modify it.
func (l *Lexicon) Definition(term string) (*Definition, bool) {
	def, ok := l.definitions[text.NormalizeKey(term)]
	return def, ok
}

// Contains reports whether term is a key of the definitions map.
func (l *Lexicon) Contains(term string) bool {
	_, ok := l.definitions[text.NormalizeKey(term)]
	return ok
}

// Lemma returns the base form of an inflected single word.
func (l *Lexicon) Lemma(form string) (string, bool) {
	lemma, ok := l.lemmas[text.NormalizeKey(form)]
	return lemma, ok
}

func (l *Lexicon) Len() int {
	return len(l.definitions)
}

func (l *Lexicon) LemmaLen() int {
	return len(l.lemmas)
}

// Builder collects entries for a Lexicon. It is not safe for concurrent use.
type Builder struct {
	language    string
	definitions map[string]*Definition
	lemmas      map[string]string
	duplicates  int
}

func NewBuilder(language string) *Builder {
	return &Builder{
		language:    language,
		definitions: make(map[string]*Definition),
		lemmas:      make(map[string]string),
	}
}

// AddDefinition stores def under its term. A later entry for the same term
// replaces the earlier one.
func (b *Builder) AddDefinition(def Definition) {
	key := text.NormalizeKey(def.Term)
	if _, ok := b.definitions[key]; ok {
		b.duplicates++
	}
	def.Term = key
	b.definitions[key] = &def
}

func (b *Builder) AddLemma(form, lemma string) {
	b.lemmas[text.NormalizeKey(form)] = text.NormalizeKey(lemma)
}

// Duplicates is the number of definitions which replaced an earlier entry.
func (b *Builder) Duplicates() int {
	return b.duplicates
}

// Build returns the finished Lexicon. The builder must not be used afterwards.
func (b *Builder) Build() *Lexicon {
	l := &Lexicon{
		language:    b.language,
		definitions: b.definitions,
		lemmas:      b.lemmas,
	}
	b.definitions = nil
	b.lemmas = nil
	return l
}

// New is a convenience for building a Lexicon from literal entries.
func New(language string, definitions []Definition, lemmas map[string]string) *Lexicon {
	b := NewBuilder(language)
	for _, def := range definitions {
		b.AddDefinition(def)
	}
	for form, lemma := range lemmas {
		b.AddLemma(form, lemma)
	}
	return b.Build()
}
