/*
 * Copyright 2022 Medicines Discovery Catapult
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *     http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package job annotates whole documents on disk.
package job

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog/log"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/annotate"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/document"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/document/epub"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/document/html"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/document/text"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/gloss"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/metrics"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/rewrite"
)

const partialSuffix = ".partial"

type Config struct {
	rewrite.Options `mapstructure:",squash"`
	// KeepPartial leaves the partial output of a failed job on disk.
	KeepPartial bool `mapstructure:"keep_partial"`
}

type Job struct {
	Annotator *annotate.Annotator
	Config    Config
	Progress  rewrite.ProgressSink
	Metrics   *metrics.Metrics
}

func (j Job) transform() rewrite.Transform {
	return annotate.PreserveEdges(j.Annotator.AnnotateText)
}

// Run annotates the document at input and writes the result to output. The
// result is written next to output first and only renamed into place once
// the whole document has been rewritten.
func (j Job) Run(ctx context.Context, input, output string, format Format) (stats rewrite.Stats, err error) {
	start := time.Now()
	logger := log.With().Str("input", input).Str("output", output).Str("format", string(format)).Logger()

	in, err := os.Open(input)
	if err != nil {
		return stats, &document.IOError{Side: document.SourceSide, Name: input, Err: err}
	}
	defer in.Close()
	info, err := in.Stat()
	if err != nil {
		return stats, &document.IOError{Side: document.SourceSide, Name: input, Err: err}
	}

	partial := output + partialSuffix
	out, err := os.Create(partial)
	if err != nil {
		return stats, &document.IOError{Side: document.SinkSide, Name: partial, Err: err}
	}

	defer func() {
		if j.Metrics != nil {
			j.Metrics.ObserveDocument(string(format), stats, err)
		}
		if err != nil {
			out.Close()
			if j.Config.KeepPartial {
				logger.Warn().Str("partial", partial).Msg("partial output kept")
			} else if rerr := os.Remove(partial); rerr != nil && !os.IsNotExist(rerr) {
				logger.Error().Err(rerr).Str("partial", partial).Msg("could not remove partial output")
			}
			return
		}
		if rerr := os.Rename(partial, output); rerr != nil {
			err = &document.IOError{Side: document.SinkSide, Name: output, Err: rerr}
		}
	}()

	logger.Info().Int64("bytes", info.Size()).Msg("annotating document")
	switch format {
	case HTMLFormat:
		stats, err = j.RewriteHTML(ctx, in, info.Size(), out, j.Progress)
	case TextFormat:
		src := sized{Source: text.NewSource(bufio.NewReader(in)), size: info.Size()}
		stats, err = rewrite.Rewrite(ctx, src, document.NewWriterSink(out), j.transform(), j.Progress, j.Config.Options)
	case EPUBFormat:
		stats, err = j.rewriteEPUB(ctx, in, info.Size(), out)
	default:
		err = fmt.Errorf("%s: %w", format, ErrUnsupportedFormat)
	}
	if err != nil {
		logger.Error().Err(err).Msg("annotation failed")
		return stats, err
	}

	logger.Info().
		Int64("units", stats.Units).
		Int64("transformed", stats.Transformed).
		Uint64("annotations", j.Annotator.Annotations()).
		Dur("elapsed", time.Since(start)).
		Msg("document annotated")
	return stats, nil
}

// RewriteHTML annotates the HTML document in r and writes it to w, which is
// closed afterwards if it is an io.Closer. size may be zero if unknown.
func (j Job) RewriteHTML(ctx context.Context, r io.Reader, size int64, w io.Writer, progress rewrite.ProgressSink) (rewrite.Stats, error) {
	return j.rewriteHTML(ctx, "", r, size, w, progress)
}

func (j Job) rewriteHTML(ctx context.Context, name string, r io.Reader, size int64, w io.Writer, progress rewrite.ProgressSink) (rewrite.Stats, error) {
	src := sized{Source: html.NewSource(r, html.WithName(name)), size: size}
	var sink document.Sink = document.NewWriterSink(w)
	if footnotes, ok := j.Annotator.Formatter().(*gloss.Footnote); ok {
		footnotes.Reset()
		sink = &notesSink{Sink: sink, footnotes: footnotes}
	}
	return rewrite.Rewrite(ctx, src, sink, j.transform(), progress, j.Config.Options)
}

func (j Job) rewriteEPUB(ctx context.Context, in *os.File, size int64, out *os.File) (rewrite.Stats, error) {
	zr, err := epub.Open(in, size)
	if err != nil {
		return rewrite.Stats{}, err
	}
	_, total := epub.Documents(zr)

	var stats rewrite.Stats
	base := rewrite.Progress{Total: total}
	w := bufio.NewWriter(out)
	err = epub.Rewrite(ctx, zr, w, func(ctx context.Context, name string, r io.Reader, w io.Writer) error {
		docStats, err := j.rewriteHTML(ctx, name, r, 0, w, rewrite.Offset(j.Progress, base))
		stats.Units += docStats.Units
		stats.TextUnits += docStats.TextUnits
		stats.Transformed += docStats.Transformed
		stats.BytesIn += docStats.BytesIn
		stats.BytesOut += docStats.BytesOut
		stats.Duration += docStats.Duration
		base.Units += docStats.Units
		base.Bytes += docStats.BytesIn
		return err
	})
	if err != nil {
		return stats, err
	}
	if err := w.Flush(); err != nil {
		return stats, &document.IOError{Side: document.SinkSide, Name: out.Name(), Err: err}
	}
	if err := out.Close(); err != nil {
		return stats, &document.IOError{Side: document.SinkSide, Name: out.Name(), Err: err}
	}
	return stats, nil
}

type sized struct {
	document.Source
	size int64
}

func (s sized) Size() int64 {
	return s.size
}

// notesSink writes the collected footnotes as the last unit of a document.
type notesSink struct {
	document.Sink
	footnotes *gloss.Footnote
	closed    bool
}

func (s *notesSink) Close() error {
	if !s.closed {
		s.closed = true
		if notes := s.footnotes.HTML(); notes != "" {
			if err := s.Sink.Write(document.Unit{Kind: document.Structure, Data: []byte(notes)}); err != nil {
				s.Sink.Close()
				return err
			}
		}
	}
	return s.Sink.Close()
}
