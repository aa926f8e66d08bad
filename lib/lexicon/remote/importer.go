package remote

import (
	"context"
	"io"

	"github.com/rs/zerolog/log"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/dict"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/lexicon"
)

// Importer uploads dictionary files to a store in batches.
type Importer struct {
	Client    Client
	BatchSize int
}

func NewImporter(client Client, batchSize int) Importer {
	if batchSize <= 0 {
		batchSize = 1000
	}
	return Importer{Client: client, BatchSize: batchSize}
}

// ImportDefinitions uploads every definition in r and returns how many were
// sent.
func (i Importer) ImportDefinitions(ctx context.Context, language string, r io.Reader, format dict.Format) (int, error) {
	pipe := i.Client.NewSetPipeline(i.BatchSize)
	total := 0
	err := dict.ReadDefinitionsWithCallback(r, format, func(def lexicon.Definition) error {
		if err := pipe.SetDefinition(language, def); err != nil {
			return err
		}
		total++
		return i.flushFull(ctx, pipe, language, total)
	})
	if err != nil {
		return total, err
	}
	return total, i.flush(pipe, language, total)
}

// ImportLemmas uploads every lemma in r and returns how many were sent.
func (i Importer) ImportLemmas(ctx context.Context, language string, r io.Reader, format dict.Format) (int, error) {
	pipe := i.Client.NewSetPipeline(i.BatchSize)
	total := 0
	err := dict.ReadLemmasWithCallback(r, format, func(lemma dict.Lemma) error {
		if err := pipe.SetLemma(language, lemma); err != nil {
			return err
		}
		total++
		return i.flushFull(ctx, pipe, language, total)
	})
	if err != nil {
		return total, err
	}
	return total, i.flush(pipe, language, total)
}

func (i Importer) flushFull(ctx context.Context, pipe SetPipeline, language string, total int) error {
	if pipe.Size() < i.BatchSize {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return i.flush(pipe, language, total)
}

func (i Importer) flush(pipe SetPipeline, language string, total int) error {
	if pipe.Size() == 0 {
		return nil
	}
	if err := pipe.ExecSet(); err != nil {
		return err
	}
	log.Info().Str("language", language).Int("entries", total).Msg("batch uploaded")
	return nil
}
