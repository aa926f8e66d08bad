package main

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/dict"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/lexicon/remote"
)

// config structure
type lexiconImporterConfig struct {
	lib.BaseConfig `mapstructure:",squash"`

	Lexicon struct {
		Language string      `mapstructure:"language"`
		Dir      string      `mapstructure:"dir"`
		Format   dict.Format `mapstructure:"format"`
	}
	remote.Config `mapstructure:",squash"`
	PipelineSize  int `mapstructure:"pipeline_size"`
	// ReadyTimeout bounds the wait for the backend to come up.
	ReadyTimeout time.Duration `mapstructure:"ready_timeout"`
}

var config lexiconImporterConfig

func init() {
	// initialise config with defaults.
	err := lib.InitializeConfig("./config/lexicon-importer.yml", map[string]interface{}{
		"log_level":     "info",
		"backend":       remote.RedisBackend,
		"pipeline_size": 1000,
		"ready_timeout": "2m",
		"lexicon": map[string]interface{}{
			"language": "en",
			"dir":      "resources",
			"format":   dict.WordwiseDictionaryFormat,
		},
		"redis": map[string]interface{}{
			"host": "localhost",
			"port": 6379,
		},
		"elasticsearch": map[string]interface{}{
			"host":  "localhost",
			"port":  9200,
			"index": "gloss",
		},
	}, &config)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}

func main() {
	client, err := remote.NewClient(config.Config)
	if err != nil {
		log.Fatal().Err(err).Send()
	}

	ctx, cancel := lib.HandleInterrupt(context.Background())
	defer cancel()
	if err := waitReady(ctx, client, config.ReadyTimeout); err != nil {
		log.Fatal().Err(err).Str("backend", config.Backend).Msg("backend is not ready")
	}

	language := config.Lexicon.Language
	if !dict.ValidLanguage(language) {
		log.Fatal().Str("language", language).Msg("invalid language identifier")
	}
	definitions, lemmas := dict.NewFileLoader(config.Lexicon.Dir, config.Lexicon.Format).Paths(language)
	importer := remote.NewImporter(client, config.PipelineSize)

	start := time.Now()
	n, err := upload(definitions, func(r io.Reader) (int, error) {
		return importer.ImportDefinitions(ctx, language, r, config.Lexicon.Format)
	})
	if err != nil {
		log.Fatal().Err(err).Str("path", definitions).Msg("could not upload definitions")
	}
	log.Info().Str("language", language).Int("definitions", n).Msg("definitions uploaded")

	n, err = upload(lemmas, func(r io.Reader) (int, error) {
		return importer.ImportLemmas(ctx, language, r, config.Lexicon.Format)
	})
	if os.IsNotExist(err) {
		log.Warn().Str("path", lemmas).Msg("no lemma file, skipping lemmas")
	} else if err != nil {
		log.Fatal().Err(err).Str("path", lemmas).Msg("could not upload lemmas")
	} else {
		log.Info().Str("language", language).Int("lemmas", n).Msg("lemmas uploaded")
	}
	log.Info().Dur("elapsed", time.Since(start)).Msg("import complete")
}

func upload(path string, load func(io.Reader) (int, error)) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return load(f)
}

func waitReady(ctx context.Context, client remote.Client, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()
	for !client.Ready() {
		log.Info().Msg("backend is not ready, waiting...")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}
