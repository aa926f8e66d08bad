package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/blocklist"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/gloss"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/job"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/lexicon"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/metrics"
)

// config structure
type glossAPIConfig struct {
	lib.BaseConfig `mapstructure:",squash"`

	Server struct {
		HttpPort        int           `mapstructure:"http_port"`
		ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	}
	// Languages are loaded at startup. Empty means lexicon.language only.
	Languages  []string             `mapstructure:"languages"`
	Lexicon    job.LexiconConfig    `mapstructure:"lexicon"`
	Annotation job.AnnotationConfig `mapstructure:"annotation"`
	Job        job.Config           `mapstructure:"job"`
}

var config glossAPIConfig

func initConfig() {
	defaults := job.DefaultConfig()
	defaults["server"] = map[string]interface{}{
		"http_port":        8080,
		"shutdown_timeout": "10s",
	}
	if err := lib.InitializeConfig("./config/gloss-api.yml", defaults, &config); err != nil {
		log.Fatal().Err(err).Send()
	}
	if err := config.Annotation.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid annotation config")
	}
	if _, err := gloss.ByName(config.Annotation.Formatter); err != nil {
		log.Fatal().Err(err).Msg("invalid annotation config")
	}
}

func loadLexicons(ctx context.Context, m *metrics.Metrics) map[string]*lexicon.Lexicon {
	loader, err := job.NewLoader(config.Lexicon)
	if err != nil {
		log.Fatal().Err(err).Send()
	}

	languages := config.Languages
	if len(languages) == 0 {
		languages = []string{config.Lexicon.Language}
	}
	lexicons := make(map[string]*lexicon.Lexicon, len(languages))
	for _, language := range languages {
		lex, err := loader.Load(ctx, language)
		if err != nil {
			log.Fatal().Err(err).Str("language", language).Msg("could not load lexicon")
		}
		m.ObserveLexicon(lex)
		lexicons[language] = lex
		log.Info().Str("language", language).Int("definitions", lex.Len()).Int("lemmas", lex.LemmaLen()).Msg("lexicon loaded")
	}
	return lexicons
}

func main() {
	initConfig()
	ctx, cancel := lib.HandleInterrupt(context.Background())
	defer cancel()

	registry := prometheus.NewRegistry()
	registry.MustRegister(prometheus.NewGoCollector(), prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	c := controller{
		lexicons:   loadLexicons(ctx, m),
		language:   config.Lexicon.Language,
		annotation: config.Annotation,
		job:        config.Job,
		metrics:    m,
	}
	if config.Lexicon.Blocklist != "" {
		bl, err := blocklist.Load(config.Lexicon.Blocklist)
		if err != nil {
			log.Fatal().Err(err).Send()
		}
		c.blocklist = bl
	}

	r := gin.New()
	r.Use(gin.LoggerWithFormatter(lib.JsonLogFormatter), gin.Recovery(), cors.Default())
	s := server{controller: c, gatherer: registry, started: time.Now()}
	s.RegisterRoutes(r)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", config.Server.HttpPort),
		Handler: r,
	}
	go func() {
		<-ctx.Done()
		shutdown, done := context.WithTimeout(context.Background(), config.Server.ShutdownTimeout)
		defer done()
		if err := srv.Shutdown(shutdown); err != nil {
			log.Error().Err(err).Msg("shutdown failed")
		}
	}()

	log.Info().Int("port", config.Server.HttpPort).Msg("gloss api listening")
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Send()
	}
}
