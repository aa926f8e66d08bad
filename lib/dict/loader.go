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

package dict

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/rs/zerolog/log"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/lexicon"
)

var languagePattern = regexp.MustCompile(`^[A-Za-z]{2,3}([-_][A-Za-z0-9]{1,8})*$`)

// checkEvery is how many entries are read between context checks.
const checkEvery = 4096

// ValidLanguage reports whether language is a usable language identifier,
// e.g. "en" or "zh-Hant".
func ValidLanguage(language string) bool {
	return languagePattern.MatchString(language)
}

// FileLoader loads lexicons from dictionary files in Dir.
type FileLoader struct {
	Dir    string
	Format Format
}

func NewFileLoader(dir string, format Format) FileLoader {
	return FileLoader{Dir: dir, Format: format}
}

// Paths returns the definition and lemma files for language.
func (l FileLoader) Paths(language string) (definitions, lemmas string) {
	ext := "csv"
	if l.Format == NativeDictionaryFormat {
		ext = "jsonl"
	}
	definitions = filepath.Join(l.Dir, fmt.Sprintf("wordwise-dict.%s.%s", language, ext))
	lemmas = filepath.Join(l.Dir, fmt.Sprintf("lemmatization-%s.%s", language, ext))
	return definitions, lemmas
}

func (l FileLoader) Load(ctx context.Context, language string) (*lexicon.Lexicon, error) {
	if !ValidLanguage(language) {
		return nil, &lexicon.LoadError{
			Kind:     lexicon.NotFound,
			Language: language,
			Err:      errors.New("invalid language identifier"),
		}
	}

	definitionsPath, lemmasPath := l.Paths(language)
	builder := lexicon.NewBuilder(language)

	read := 0
	err := l.readFile(ctx, language, definitionsPath, func(f *os.File) error {
		return ReadDefinitionsWithCallback(f, l.Format, func(def lexicon.Definition) error {
			builder.AddDefinition(def)
			read++
			if read%checkEvery == 0 {
				return ctx.Err()
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	err = l.readFile(ctx, language, lemmasPath, func(f *os.File) error {
		return ReadLemmasWithCallback(f, l.Format, func(lemma Lemma) error {
			builder.AddLemma(lemma.Form, lemma.Lemma)
			read++
			if read%checkEvery == 0 {
				return ctx.Err()
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	if builder.Duplicates() > 0 {
		log.Warn().Str("language", language).Int("duplicates", builder.Duplicates()).Msg("duplicate terms in dictionary")
	}
	lex := builder.Build()
	log.Info().
		Str("language", language).
		Str("path", definitionsPath).
		Int("definitions", lex.Len()).
		Int("lemmas", lex.LemmaLen()).
		Msg("lexicon loaded")
	return lex, nil
}

func (l FileLoader) readFile(ctx context.Context, language, path string, read func(*os.File) error) error {
	f, err := os.Open(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("could not open dictionary")
		return &lexicon.LoadError{Kind: lexicon.NotFound, Language: language, Source: path, Err: err}
	}
	defer f.Close()

	if err := read(f); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return err
		}
		loadErr := &lexicon.LoadError{Kind: lexicon.ParseError, Language: language, Source: path, Err: err}
		var rowErr *RowError
		if errors.As(err, &rowErr) {
			loadErr.Line = rowErr.Line
			loadErr.Err = rowErr.Err
		}
		return loadErr
	}
	return nil
}
