package remote_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/gen/mocks"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/dict"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/lexicon/remote"
)

const definitions = `id,word,phoneme,full_def,short_def,example_sentences,hint_lvl
1,pictorial,,of or relating to painting or drawing,relating to a drawing,,1
2,ribose,,a pentose sugar,a type of sugar,,3
3,utter,,absolute,complete and total,,1
`

// newPipeline returns a pipeline mock which counts queued entries until
// ExecSet is called.
func newPipeline() (*mocks.SetPipeline, *int) {
	pipe := &mocks.SetPipeline{}
	queued, execs := 0, 0
	pipe.On("SetDefinition", "en", mock.Anything).Run(func(mock.Arguments) { queued++ }).Return(nil)
	pipe.On("SetLemma", "en", mock.Anything).Run(func(mock.Arguments) { queued++ }).Return(nil)
	pipe.On("Size").Return(func() int { return queued })
	pipe.On("ExecSet").Run(func(mock.Arguments) {
		queued = 0
		execs++
	}).Return(nil)
	return pipe, &execs
}

func TestImporter_ImportDefinitions(t *testing.T) {
	pipe, execs := newPipeline()
	client := &mocks.Client{}
	client.On("NewSetPipeline", 2).Return(pipe)

	n, err := remote.NewImporter(client, 2).ImportDefinitions(context.Background(), "en", strings.NewReader(definitions), dict.WordwiseDictionaryFormat)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, 2, *execs)
	pipe.AssertNumberOfCalls(t, "SetDefinition", 3)
}

func TestImporter_ImportLemmas(t *testing.T) {
	pipe, execs := newPipeline()
	client := &mocks.Client{}
	client.On("NewSetPipeline", 1000).Return(pipe)

	input := "{\"form\":\"riboses\",\"lemma\":\"ribose\"}\n{\"form\":\"zips\",\"lemma\":\"zip\"}\n"
	n, err := remote.NewImporter(client, 0).ImportLemmas(context.Background(), "en", strings.NewReader(input), dict.NativeDictionaryFormat)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, *execs)
	pipe.AssertCalled(t, "SetLemma", "en", dict.Lemma{Form: "zips", Lemma: "zip"})
}

func TestImporter_ExecError(t *testing.T) {
	pipe := &mocks.SetPipeline{}
	pipe.On("SetDefinition", "en", mock.Anything).Return(nil)
	pipe.On("Size").Return(1)
	pipe.On("ExecSet").Return(errors.New("connection reset"))
	client := &mocks.Client{}
	client.On("NewSetPipeline", 1).Return(pipe)

	n, err := remote.NewImporter(client, 1).ImportDefinitions(context.Background(), "en", strings.NewReader(definitions), dict.WordwiseDictionaryFormat)
	assert.EqualError(t, err, "connection reset")
	assert.Equal(t, 1, n)
}
