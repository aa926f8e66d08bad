package job

import (
	"context"
	"fmt"

	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/annotate"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/blocklist"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/dict"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/gloss"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/lexicon"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/lexicon/remote"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/metrics"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/rewrite"
)

const FileBackend = "file"

type LexiconConfig struct {
	Language      string                     `mapstructure:"language"`
	Dir           string                     `mapstructure:"dir"`
	Format        dict.Format                `mapstructure:"format"`
	Backend       string                     `mapstructure:"backend"`
	Blocklist     string                     `mapstructure:"blocklist"`
	Redis         remote.RedisConfig         `mapstructure:"redis"`
	Elasticsearch remote.ElasticsearchConfig `mapstructure:"elasticsearch"`
}

// AnnotationConfig is the "annotation" config section.
type AnnotationConfig struct {
	annotate.Options `mapstructure:",squash"`
	Formatter        string `mapstructure:"formatter"`
}

// DefaultConfig holds the defaults shared by every command, keyed the way
// lib.InitializeConfig expects.
func DefaultConfig() map[string]interface{} {
	opts := annotate.DefaultOptions()
	rw := rewrite.DefaultOptions()
	return map[string]interface{}{
		"log_level": "info",
		"lexicon": map[string]interface{}{
			"language": "en",
			"dir":      "resources",
			"format":   string(dict.WordwiseDictionaryFormat),
			"backend":  FileBackend,
			"redis": map[string]interface{}{
				"host": "localhost",
				"port": 6379,
			},
			"elasticsearch": map[string]interface{}{
				"host":  "localhost",
				"port":  9200,
				"index": "gloss",
			},
		},
		"annotation": map[string]interface{}{
			"max_definition_detail": int(opts.MaxDefinitionDetail),
			"include_pronunciation": opts.IncludePronunciation,
			"min_difficulty":        opts.MinDifficulty,
			"max_phrase_length":     opts.MaxPhraseLength,
			"formatter":             gloss.RubyFormatter,
		},
		"job": map[string]interface{}{
			"batch_size":   rw.BatchSize,
			"workers":      rw.Workers,
			"report_every": rw.ReportEvery,
			"keep_partial": false,
		},
	}
}

// NewLoader returns the loader for the configured backend.
func NewLoader(conf LexiconConfig) (lexicon.Loader, error) {
	switch conf.Backend {
	case FileBackend, "":
		return dict.NewFileLoader(conf.Dir, conf.Format), nil
	case remote.RedisBackend, remote.ElasticsearchBackend:
		client, err := remote.NewClient(remote.Config{Backend: conf.Backend, Redis: conf.Redis, Elasticsearch: conf.Elasticsearch})
		if err != nil {
			return nil, err
		}
		return remote.NewLoader(client, conf.Backend), nil
	default:
		return nil, fmt.Errorf("unknown lexicon backend %q", conf.Backend)
	}
}

// NewAnnotator loads the lexicon for language and builds an annotator with
// the named formatter.
func NewAnnotator(ctx context.Context, loader lexicon.Loader, language, formatter, blocklistPath string, opts annotate.Options, m *metrics.Metrics) (*annotate.Annotator, error) {
	lex, err := loader.Load(ctx, language)
	if err != nil {
		return nil, err
	}
	return Annotator(lex, formatter, blocklistPath, opts, m)
}

// Annotator builds an annotator over an already loaded lexicon.
func Annotator(lex *lexicon.Lexicon, formatter, blocklistPath string, opts annotate.Options, m *metrics.Metrics) (*annotate.Annotator, error) {
	f, err := gloss.ByName(formatter)
	if err != nil {
		return nil, err
	}

	var options []annotate.Option
	if blocklistPath != "" {
		bl, err := blocklist.Load(blocklistPath)
		if err != nil {
			return nil, err
		}
		options = append(options, annotate.WithBlocklist(bl))
	}
	if m != nil {
		m.ObserveLexicon(lex)
		options = append(options, annotate.WithObserver(m.AnnotationObserver(lex.Language())))
	}
	return annotate.New(lex, f, opts, options...)
}
