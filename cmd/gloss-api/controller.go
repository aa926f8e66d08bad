package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"sort"

	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/annotate"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/blocklist"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/document"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/document/text"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/gloss"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/job"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/lexicon"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/metrics"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/rewrite"
	textutil "gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/text"
)

// maxTokenizeBody is the largest body accepted by /tokens, which holds the
// whole input in memory.
const maxTokenizeBody = 8 << 20

type requestOptions struct {
	Language  string
	Formatter string
	Options   annotate.Options
}

type textResponse struct {
	Text        string       `json:"text"`
	Annotations uint64       `json:"annotations"`
	Notes       []gloss.Note `json:"notes,omitempty"`
}

type controller struct {
	lexicons   map[string]*lexicon.Lexicon
	language   string
	blocklist  *blocklist.Blocklist
	annotation job.AnnotationConfig
	job        job.Config
	metrics    *metrics.Metrics
}

func (c controller) Languages() []string {
	languages := make([]string, 0, len(c.lexicons))
	for language := range c.lexicons {
		languages = append(languages, language)
	}
	sort.Strings(languages)
	return languages
}

func (c controller) defaultOptions() requestOptions {
	return requestOptions{
		Language:  c.language,
		Formatter: c.annotation.Formatter,
		Options:   c.annotation.Options,
	}
}

// annotator builds a fresh annotator for one request. Lexicons are shared,
// formatters are not, so footnote numbering starts at one for every request.
func (c controller) annotator(opts requestOptions) (*annotate.Annotator, error) {
	lex, ok := c.lexicons[opts.Language]
	if !ok {
		return nil, NewHttpError(http.StatusNotFound, fmt.Errorf("no lexicon loaded for language %q", opts.Language))
	}
	formatter, err := gloss.ByName(opts.Formatter)
	if err != nil {
		return nil, NewHttpError(http.StatusBadRequest, err)
	}

	var options []annotate.Option
	if c.blocklist != nil {
		options = append(options, annotate.WithBlocklist(c.blocklist))
	}
	if c.metrics != nil {
		options = append(options, annotate.WithObserver(c.metrics.AnnotationObserver(opts.Language)))
	}
	a, err := annotate.New(lex, formatter, opts.Options, options...)
	if err != nil {
		return nil, NewHttpError(http.StatusBadRequest, err)
	}
	return a, nil
}

// AnnotateText glosses plain text line by line.
func (c controller) AnnotateText(ctx context.Context, r io.Reader, opts requestOptions) (textResponse, error) {
	a, err := c.annotator(opts)
	if err != nil {
		return textResponse{}, err
	}

	var buf bytes.Buffer
	stats, err := rewrite.Rewrite(ctx, text.NewSource(r), document.NewWriterSink(&buf), annotate.PreserveEdges(a.AnnotateText), nil, c.job.Options)
	c.observe("text", stats, err)
	if err != nil {
		return textResponse{}, documentError(err)
	}

	res := textResponse{Text: buf.String(), Annotations: a.Annotations()}
	if footnotes, ok := a.Formatter().(*gloss.Footnote); ok {
		res.Notes = footnotes.Notes()
	}
	return res, nil
}

// AnnotateHTML streams the glossed document in r to w.
func (c controller) AnnotateHTML(ctx context.Context, r io.Reader, size int64, w io.Writer, opts requestOptions) (rewrite.Stats, error) {
	a, err := c.annotator(opts)
	if err != nil {
		return rewrite.Stats{}, err
	}
	stats, err := job.Job{Annotator: a, Config: c.job}.RewriteHTML(ctx, r, size, w, nil)
	c.observe("html", stats, err)
	if err != nil {
		return stats, documentError(err)
	}
	return stats, nil
}

func (c controller) Tokenize(r io.Reader) ([]textutil.Token, error) {
	data, err := ioutil.ReadAll(io.LimitReader(r, maxTokenizeBody+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxTokenizeBody {
		return nil, NewHttpError(http.StatusRequestEntityTooLarge, fmt.Errorf("request body exceeds %d bytes", maxTokenizeBody))
	}

	tokens := []textutil.Token{}
	err = textutil.Tokenize(string(data), func(token textutil.Token) error {
		tokens = append(tokens, token)
		return nil
	})
	if err != nil {
		return nil, NewHttpError(http.StatusBadRequest, err)
	}
	return tokens, nil
}

// Definition returns the entry an annotator with opts would gloss term with.
func (c controller) Definition(term string, opts requestOptions) (*lexicon.Definition, error) {
	a, err := c.annotator(opts)
	if err != nil {
		return nil, err
	}
	def := a.Resolve(term)
	if def == nil {
		return nil, NewHttpError(http.StatusNotFound, fmt.Errorf("no definition for %q", term))
	}
	return def, nil
}

func (c controller) observe(format string, stats rewrite.Stats, err error) {
	if c.metrics != nil {
		c.metrics.ObserveDocument(format, stats, err)
	}
}

func documentError(err error) error {
	var formatErr *document.FormatError
	if errors.As(err, &formatErr) {
		return NewHttpError(http.StatusBadRequest, err)
	}
	return err
}
