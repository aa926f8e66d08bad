// Package metrics provides Prometheus metrics for annotation jobs and the
// REST API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/lexicon"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/rewrite"
)

type Metrics struct {
	DocumentsTotal   *prometheus.CounterVec
	DocumentDuration *prometheus.HistogramVec
	UnitsTotal       *prometheus.CounterVec
	BytesTotal       prometheus.Counter
	AnnotationsTotal *prometheus.CounterVec

	LexiconDefinitions *prometheus.GaugeVec
	LexiconLemmas      *prometheus.GaugeVec

	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{}

	m.DocumentsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gloss_documents_total",
			Help: "Total number of documents rewritten",
		},
		[]string{"format", "status"},
	)

	m.DocumentDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gloss_document_duration_seconds",
			Help:    "Duration of document rewrites in seconds",
			Buckets: []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60, 300},
		},
		[]string{"format"},
	)

	m.UnitsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gloss_units_total",
			Help: "Total number of document units processed",
		},
		[]string{"kind"},
	)

	m.BytesTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "gloss_input_bytes_total",
			Help: "Total number of input bytes processed",
		},
	)

	m.AnnotationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gloss_annotations_total",
			Help: "Total number of glosses emitted",
		},
		[]string{"language"},
	)

	m.LexiconDefinitions = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gloss_lexicon_definitions",
			Help: "Number of definitions in a loaded lexicon",
		},
		[]string{"language"},
	)

	m.LexiconLemmas = factory.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gloss_lexicon_lemmas",
			Help: "Number of lemmas in a loaded lexicon",
		},
		[]string{"language"},
	)

	m.RequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gloss_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "status"},
	)

	m.RequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gloss_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	return m
}

// ObserveLexicon records the size of a loaded lexicon.
func (m *Metrics) ObserveLexicon(lex *lexicon.Lexicon) {
	m.LexiconDefinitions.WithLabelValues(lex.Language()).Set(float64(lex.Len()))
	m.LexiconLemmas.WithLabelValues(lex.Language()).Set(float64(lex.LemmaLen()))
}

// AnnotationObserver returns a function counting annotations for language.
func (m *Metrics) AnnotationObserver(language string) func(*lexicon.Definition) {
	counter := m.AnnotationsTotal.WithLabelValues(language)
	return func(*lexicon.Definition) {
		counter.Inc()
	}
}

// ObserveDocument records a finished rewrite.
func (m *Metrics) ObserveDocument(format string, stats rewrite.Stats, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.DocumentsTotal.WithLabelValues(format, status).Inc()
	m.DocumentDuration.WithLabelValues(format).Observe(stats.Duration.Seconds())
	m.UnitsTotal.WithLabelValues("text").Add(float64(stats.TextUnits))
	m.UnitsTotal.WithLabelValues("structure").Add(float64(stats.Units - stats.TextUnits))
	m.BytesTotal.Add(float64(stats.BytesIn))
}

// ObserveRequest records a finished HTTP request.
func (m *Metrics) ObserveRequest(route, status string, elapsed time.Duration) {
	m.RequestsTotal.WithLabelValues(route, status).Inc()
	m.RequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}
