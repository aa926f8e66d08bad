package main

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/job"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/rewrite"
)

type glossConfig struct {
	lib.BaseConfig `mapstructure:",squash"`

	Input      string               `mapstructure:"input"`
	Output     string               `mapstructure:"output"`
	Format     string               `mapstructure:"format"`
	Lexicon    job.LexiconConfig    `mapstructure:"lexicon"`
	Annotation job.AnnotationConfig `mapstructure:"annotation"`
	Job        job.Config           `mapstructure:"job"`
}

var config glossConfig

func init() {
	pflag.String("input", "", "The document to annotate. May also be given as the first argument.")
	pflag.String("output", "", "Where to write the annotated document. Defaults to <input>.glossed.<ext>.")
	pflag.String("format", "", "The document format: html, text or epub. Detected from the input extension by default.")
	pflag.String("lexicon.language", "", "The language of the lexicon to load.")
	pflag.String("lexicon.dir", "", "The directory holding the dictionary files.")
	pflag.String("annotation.formatter", "", "How glosses are rendered: ruby, bracket or footnote.")
	pflag.Int("annotation.min_difficulty", 0, "Only terms at least this difficult are glossed.")
	pflag.Bool("job.keep_partial", false, "Keep the partial output of a failed run.")
}

func initConfig() {
	if err := lib.InitializeConfig("./config/gloss.yml", job.DefaultConfig(), &config); err != nil {
		log.Fatal().Err(err).Send()
	}
	if config.Input == "" {
		config.Input = pflag.Arg(0)
	}
	if config.Output == "" {
		config.Output = pflag.Arg(1)
	}
}

func main() {
	initConfig()
	if config.Input == "" {
		log.Fatal().Msg("no input document given")
	}
	if config.Output == "" {
		config.Output = job.DefaultOutput(config.Input)
	}

	var format job.Format
	var err error
	if config.Format != "" {
		format, err = job.ParseFormat(config.Format)
	} else {
		format, err = job.DetectFormat(config.Input)
	}
	if err != nil {
		log.Fatal().Err(err).Str("input", config.Input).Send()
	}

	ctx, cancel := lib.HandleInterrupt(context.Background())
	defer cancel()

	loader, err := job.NewLoader(config.Lexicon)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
	start := time.Now()
	annotator, err := job.NewAnnotator(ctx, loader, config.Lexicon.Language, config.Annotation.Formatter, config.Lexicon.Blocklist, config.Annotation.Options, nil)
	if err != nil {
		log.Fatal().Err(err).Str("language", config.Lexicon.Language).Msg("could not load lexicon")
	}
	log.Info().
		Str("language", config.Lexicon.Language).
		Int("definitions", annotator.Lexicon().Len()).
		Dur("elapsed", time.Since(start)).
		Msg("lexicon loaded")

	j := job.Job{
		Annotator: annotator,
		Config:    config.Job,
		Progress:  progressLogger(time.Second),
	}
	if _, err := j.Run(ctx, config.Input, config.Output, format); err != nil {
		log.Error().Err(err).Msg("annotation failed")
		os.Exit(1)
	}
}

// progressLogger logs progress at most once per interval.
func progressLogger(interval time.Duration) rewrite.ProgressSink {
	var last time.Time
	return rewrite.ProgressFunc(func(p rewrite.Progress) {
		if time.Since(last) < interval {
			return
		}
		last = time.Now()
		event := log.Info().Int64("units", p.Units).Int64("bytes", p.Bytes)
		if p.Total > 0 {
			event = event.Float64("done", p.Fraction())
		}
		event.Msg("progress")
	})
}
