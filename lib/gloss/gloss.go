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

// Package gloss renders a matched surface string together with its
// definition.
package gloss

import (
	"fmt"
	"strings"

	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/lexicon"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/text"
)

// Detail selects which gloss of a definition is shown.
type Detail int

const (
	Short Detail = 1
	Long  Detail = 2
)

func (d Detail) Valid() bool {
	return d >= Short && d <= Long
}

func (d Detail) String() string {
	if d <= Short {
		return "short"
	}
	return "long"
}

// Formatter wraps the core of surface with the gloss of def. Any decoration
// around the core is emitted unchanged outside the wrapper.
type Formatter interface {
	Format(def *lexicon.Definition, surface string, detail Detail, pronunciation bool) string
}

// Text returns the gloss shown for def.
func Text(def *lexicon.Definition, detail Detail, pronunciation bool) string {
	gloss := def.LongGloss
	if detail <= Short {
		gloss = def.ShortGloss
	}
	if pronunciation && def.Pronunciation != "" {
		return def.Pronunciation + " " + gloss
	}
	return gloss
}

const (
	RubyFormatter     = "ruby"
	BracketFormatter  = "bracket"
	FootnoteFormatter = "footnote"
)

// Names lists the formatters known to ByName.
var Names = []string{RubyFormatter, BracketFormatter, FootnoteFormatter}

// ByName returns a new formatter. An empty name selects ruby annotations.
func ByName(name string) (Formatter, error) {
	switch strings.ToLower(name) {
	case RubyFormatter, "":
		return Ruby{}, nil
	case BracketFormatter:
		return Bracket{}, nil
	case FootnoteFormatter:
		return NewFootnote(), nil
	default:
		return nil, fmt.Errorf("unknown formatter %q, expected one of %v", name, Names)
	}
}

func split(surface string) (core, prefix, suffix string) {
	return text.Clean(surface, false)
}
