package dict

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/lexicon"
)

func TestReadDefinitionsWithCallback_Wordwise(t *testing.T) {
	input := `id,word,phoneme,full_def,short_def,example_sentences,hint_lvl
1,pictorial,/pɪkˈtɔriəl/,of or relating to painting or drawing,relating to a drawing,"a pictorial record, of sorts",1
2,in someone's pocket,,under the control of someone,under someone's control,, 1 
`
	var got []lexicon.Definition
	err := ReadDefinitionsWithCallback(strings.NewReader(input), WordwiseDictionaryFormat, func(def lexicon.Definition) error {
		got = append(got, def)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []lexicon.Definition{
		{
			Term:          "pictorial",
			Pronunciation: "/pɪkˈtɔriəl/",
			LongGloss:     "of or relating to painting or drawing",
			ShortGloss:    "relating to a drawing",
			UsageExamples: "a pictorial record, of sorts",
			Difficulty:    1,
		},
		{
			Term:       "in someone's pocket",
			LongGloss:  "under the control of someone",
			ShortGloss: "under someone's control",
			Difficulty: 1,
		},
	}, got)
}

func TestReadDefinitionsWithCallback_Native(t *testing.T) {
	input := `{"term":"ribose","long_gloss":"a pentose sugar","short_gloss":"a type of sugar","difficulty":3}

{"term":"utter","short_gloss":"complete and total","difficulty":1}
`
	var got []string
	err := ReadDefinitionsWithCallback(strings.NewReader(input), NativeDictionaryFormat, func(def lexicon.Definition) error {
		got = append(got, def.Term)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"ribose", "utter"}, got)
}

func TestReadDefinitionsWithCallback_Errors(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
		line   int
	}{
		{
			name:   "bad difficulty",
			format: WordwiseDictionaryFormat,
			input:  "id,word,phoneme,full_def,short_def,example_sentences,hint_lvl\n1,a,,b,c,,1\n2,d,,e,f,,hard\n",
			line:   3,
		},
		{
			name:   "missing columns",
			format: WordwiseDictionaryFormat,
			input:  "id,word,phoneme,full_def,short_def,example_sentences,hint_lvl\n1,a,/a/\n",
			line:   2,
		},
		{
			name:   "bad json",
			format: NativeDictionaryFormat,
			input:  "{\"term\":\"a\",\"difficulty\":1}\n{\"term\":\n",
			line:   2,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ReadDefinitionsWithCallback(strings.NewReader(tt.input), tt.format, func(lexicon.Definition) error {
				return nil
			})
			var rowErr *RowError
			require.True(t, errors.As(err, &rowErr), "expected a row error, got %v", err)
			assert.Equal(t, tt.line, rowErr.Line)
		})
	}
}

func TestReadDefinitionsWithCallback_StopsOnCallbackError(t *testing.T) {
	input := `{"term":"a","difficulty":1}
{"term":"b","difficulty":1}
{"term":"c","difficulty":1}
`
	boom := errors.New("boom")
	calls := 0
	err := ReadDefinitionsWithCallback(strings.NewReader(input), NativeDictionaryFormat, func(lexicon.Definition) error {
		calls++
		return boom
	})
	assert.Equal(t, boom, err)
	assert.Equal(t, 1, calls)
}

func TestReadLemmasWithCallback(t *testing.T) {
	tests := []struct {
		format Format
		input  string
	}{
		{WordwiseDictionaryFormat, "lemma,form\npictorial,pictorials\nribose,riboses\n"},
		{NativeDictionaryFormat, "{\"form\":\"pictorials\",\"lemma\":\"pictorial\"}\n{\"form\":\"riboses\",\"lemma\":\"ribose\"}\n"},
	}
	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			var got []Lemma
			err := ReadLemmasWithCallback(strings.NewReader(tt.input), tt.format, func(lemma Lemma) error {
				got = append(got, lemma)
				return nil
			})
			require.NoError(t, err)
			assert.Equal(t, []Lemma{{Form: "pictorials", Lemma: "pictorial"}, {Form: "riboses", Lemma: "ribose"}}, got)
		})
	}
}

func TestNewDefinitionReader_UnknownFormat(t *testing.T) {
	_, err := NewDefinitionReader("mobi")
	assert.Error(t, err)
	_, err = NewLemmaReader("mobi")
	assert.Error(t, err)
}
