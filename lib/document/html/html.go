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

package html

import (
	"errors"
	"io"
	"unicode/utf8"

	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/document"
	"golang.org/x/net/html"
)

// DefaultMaxBuf bounds the bytes buffered for a single token.
const DefaultMaxBuf = 4 * 1024 * 1024

// Text under these elements is never shown as prose, or must not be
// rewritten.
var disallowedNodes = map[string]struct{}{
	"area":      {},
	"audio":     {},
	"code":      {},
	"head":      {},
	"iframe":    {},
	"input":     {},
	"link":      {},
	"math":      {},
	"meta":      {},
	"noembed":   {},
	"noframes":  {},
	"noscript":  {},
	"plaintext": {},
	"pre":       {},
	"rp":        {},
	"rt":        {},
	"ruby":      {},
	"script":    {},
	"source":    {},
	"style":     {},
	"svg":       {},
	"textarea":  {},
	"title":     {},
	"video":     {},
	"xmp":       {},
}

// Source classifies an HTML or XHTML document. Markup, comments, doctypes
// and text under disallowed nodes are structure. Character references are
// split out of the surrounding text as structure of their own.
type Source struct {
	name      string
	tokenizer *html.Tokenizer
	stack     htmlStack
	offset    int64
	pending   []document.Unit
	err       error
}

type Option func(*Source)

func WithMaxBuf(n int) Option {
	return func(s *Source) {
		s.tokenizer.SetMaxBuf(n)
	}
}

// WithName sets the name used in errors.
func WithName(name string) Option {
	return func(s *Source) {
		s.name = name
	}
}

func NewSource(r io.Reader, options ...Option) *Source {
	s := &Source{tokenizer: html.NewTokenizer(r)}
	s.tokenizer.SetMaxBuf(DefaultMaxBuf)
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *Source) Next() (document.Unit, error) {
	for len(s.pending) == 0 {
		if s.err != nil {
			return document.Unit{}, s.err
		}
		s.read()
	}
	unit := s.pending[0]
	s.pending = s.pending[1:]
	s.offset += int64(len(unit.Data))
	return unit, nil
}

// read tokenizes one more token into pending, or sets err.
func (s *Source) read() {
	tokenType := s.tokenizer.Next()
	if tokenType == html.ErrorToken {
		err := s.tokenizer.Err()
		switch {
		case err == io.EOF:
			s.err = io.EOF
		case errors.Is(err, html.ErrBufferExceeded):
			s.err = &document.FormatError{Name: s.name, Offset: s.offset, Err: err}
		default:
			s.err = &document.IOError{Side: document.SourceSide, Name: s.name, Err: err}
		}
		return
	}

	// The slice returned by Raw is only valid until the next call to Next.
	raw := make([]byte, len(s.tokenizer.Raw()))
	copy(raw, s.tokenizer.Raw())

	switch tokenType {
	case html.TextToken:
		if !utf8.Valid(raw) {
			s.err = &document.FormatError{Name: s.name, Offset: s.offset, Err: errors.New("invalid UTF-8 in text")}
			return
		}
		if s.stack.disallowed() {
			s.structure(raw)
			return
		}
		s.pending = append(s.pending, splitReferences(raw)...)
	case html.StartTagToken:
		tn, _ := s.tokenizer.TagName()
		s.stack.push(string(tn))
		s.structure(raw)
	case html.SelfClosingTagToken:
		// The tokenizer reads raw text after <script/> as it does after
		// <script>, up to the matching end tag.
		tn, _ := s.tokenizer.TagName()
		if rawTextElements[string(tn)] {
			s.stack.push(string(tn))
		}
		s.structure(raw)
	case html.EndTagToken:
		tn, _ := s.tokenizer.TagName()
		s.stack.pop(string(tn))
		s.structure(raw)
	default:
		s.structure(raw)
	}
}

func (s *Source) structure(raw []byte) {
	if len(raw) > 0 {
		s.pending = append(s.pending, document.Unit{Kind: document.Structure, Data: raw})
	}
}
