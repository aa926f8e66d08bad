package dict

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/lexicon"
)

const resources = "../../testdata/resources"

func TestFileLoader_Load(t *testing.T) {
	lex, err := NewFileLoader(resources, WordwiseDictionaryFormat).Load(context.Background(), "en")
	require.NoError(t, err)

	assert.Equal(t, "en", lex.Language())
	assert.Equal(t, 11, lex.Len())
	assert.True(t, lex.Contains("in someone's pocket"))

	def, ok := lex.Definition("versatile")
	require.True(t, ok)
	assert.Equal(t, "able to do different things", def.ShortGloss)
	assert.Equal(t, 4, def.Difficulty)

	lemma, ok := lex.Lemma("pictorials")
	require.True(t, ok)
	assert.Equal(t, "pictorial", lemma)
}

func TestFileLoader_LoadNative(t *testing.T) {
	lex, err := NewFileLoader(resources, NativeDictionaryFormat).Load(context.Background(), "en")
	require.NoError(t, err)

	assert.Equal(t, 2, lex.Len())
	assert.Equal(t, 2, lex.LemmaLen())
	def, ok := lex.Definition("ribose")
	require.True(t, ok)
	assert.Equal(t, 3, def.Difficulty)
}

func TestFileLoader_LoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		dir      string
		language string
		kind     lexicon.ErrorKind
		line     int
	}{
		{name: "unknown language", dir: resources, language: "xx", kind: lexicon.NotFound},
		{name: "invalid language", dir: resources, language: "../en", kind: lexicon.NotFound},
		{name: "empty language", dir: resources, language: "", kind: lexicon.NotFound},
		{name: "bad difficulty", dir: "testdata", language: "bad", kind: lexicon.ParseError, line: 3},
		{name: "missing columns", dir: "testdata", language: "short", kind: lexicon.ParseError, line: 2},
		{name: "missing lemma file", dir: "testdata", language: "nolemma", kind: lexicon.NotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFileLoader(tt.dir, WordwiseDictionaryFormat).Load(context.Background(), tt.language)
			require.Error(t, err)
			assert.True(t, lexicon.IsKind(err, tt.kind), "unexpected error %v", err)

			loadErr, ok := err.(*lexicon.LoadError)
			require.True(t, ok)
			assert.Equal(t, tt.language, loadErr.Language)
			assert.Equal(t, tt.line, loadErr.Line)
		})
	}
}

func TestFileLoader_Paths(t *testing.T) {
	defs, lemmas := NewFileLoader("dicts", WordwiseDictionaryFormat).Paths("en")
	assert.Equal(t, "dicts/wordwise-dict.en.csv", defs)
	assert.Equal(t, "dicts/lemmatization-en.csv", lemmas)

	defs, lemmas = NewFileLoader("dicts", NativeDictionaryFormat).Paths("zh-Hant")
	assert.Equal(t, "dicts/wordwise-dict.zh-Hant.jsonl", defs)
	assert.Equal(t, "dicts/lemmatization-zh-Hant.jsonl", lemmas)
}

func TestValidLanguage(t *testing.T) {
	for _, lang := range []string{"en", "eng", "zh-Hant", "pt_BR"} {
		assert.True(t, ValidLanguage(lang), lang)
	}
	for _, lang := range []string{"", "e", "english", "en/..", "../en", "en-"} {
		assert.False(t, ValidLanguage(lang), lang)
	}
}
