package remote

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/dict"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/lexicon"
)

// Loader reads a whole lexicon from a Client into memory.
type Loader struct {
	Client Client
	Name   string
}

func NewLoader(client Client, name string) Loader {
	return Loader{Client: client, Name: name}
}

func (l Loader) Load(ctx context.Context, language string) (*lexicon.Lexicon, error) {
	if !dict.ValidLanguage(language) {
		return nil, l.loadError(lexicon.NotFound, language, errors.New("invalid language identifier"))
	}
	if !l.Client.Ready() {
		return nil, l.loadError(lexicon.Unavailable, language, errors.New("store is not ready"))
	}

	builder := lexicon.NewBuilder(language)
	err := l.Client.ScanDefinitions(ctx, language, func(def lexicon.Definition) error {
		builder.AddDefinition(def)
		return nil
	})
	if err != nil {
		return nil, l.mapError(ctx, language, err)
	}

	err = l.Client.ScanLemmas(ctx, language, func(lemma dict.Lemma) error {
		builder.AddLemma(lemma.Form, lemma.Lemma)
		return nil
	})
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, l.mapError(ctx, language, err)
	}

	lex := builder.Build()
	if lex.Len() == 0 {
		return nil, l.loadError(lexicon.NotFound, language, ErrNotFound)
	}
	log.Info().
		Str("language", language).
		Str("store", l.Name).
		Int("definitions", lex.Len()).
		Int("lemmas", lex.LemmaLen()).
		Msg("lexicon loaded")
	return lex, nil
}

func (l Loader) mapError(ctx context.Context, language string, err error) error {
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return err
	}
	var decodeErr *DecodeError
	switch {
	case errors.Is(err, ErrNotFound):
		return l.loadError(lexicon.NotFound, language, err)
	case errors.As(err, &decodeErr):
		return l.loadError(lexicon.ParseError, language, err)
	default:
		return l.loadError(lexicon.Unavailable, language, err)
	}
}

func (l Loader) loadError(kind lexicon.ErrorKind, language string, err error) error {
	return &lexicon.LoadError{Kind: kind, Language: language, Source: l.Name, Err: err}
}
