package annotate

import (
	"fmt"

	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/gloss"
)

// DefaultMaxPhraseLength is the number of tokens a phrase may span.
const DefaultMaxPhraseLength = 5

type Options struct {
	MaxDefinitionDetail  gloss.Detail `mapstructure:"max_definition_detail" json:"max_definition_detail"`
	IncludePronunciation bool         `mapstructure:"include_pronunciation" json:"include_pronunciation"`
	MinDifficulty        int          `mapstructure:"min_difficulty" json:"min_difficulty"`
	MaxPhraseLength      int          `mapstructure:"max_phrase_length" json:"max_phrase_length"`
}

func DefaultOptions() Options {
	return Options{
		MaxDefinitionDetail: gloss.Short,
		MinDifficulty:       1,
		MaxPhraseLength:     DefaultMaxPhraseLength,
	}
}

// Validate rejects options no annotator can be built with. A zero
// MaxPhraseLength is replaced by the default.
func (o *Options) Validate() error {
	if !o.MaxDefinitionDetail.Valid() {
		return fmt.Errorf("max definition detail must be between %d and %d, got %d", gloss.Short, gloss.Long, o.MaxDefinitionDetail)
	}
	if o.MaxPhraseLength == 0 {
		o.MaxPhraseLength = DefaultMaxPhraseLength
	}
	if o.MaxPhraseLength < 1 {
		return fmt.Errorf("max phrase length must be positive, got %d", o.MaxPhraseLength)
	}
	return nil
}
