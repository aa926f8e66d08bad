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

// Package rewrite streams a document from a source to a sink, transforming
// its text and copying its structure.
package rewrite

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/rs/zerolog/log"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/document"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/text"
	"golang.org/x/sync/errgroup"
)

// Transform rewrites the content of one text unit.
type Transform func(string) string

type Options struct {
	// BatchSize is the number of units held in memory at once.
	BatchSize int `mapstructure:"batch_size"`
	// Workers > 1 transforms the text units of a batch in parallel.
	Workers     int `mapstructure:"workers"`
	ReportEvery int `mapstructure:"report_every"`
}

func DefaultOptions() Options {
	return Options{BatchSize: 256, Workers: 1, ReportEvery: 64}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.BatchSize <= 0 {
		o.BatchSize = d.BatchSize
	}
	if o.Workers <= 0 {
		o.Workers = d.Workers
	}
	if o.ReportEvery <= 0 {
		o.ReportEvery = d.ReportEvery
	}
	return o
}

type Stats struct {
	Units       int64         `json:"units"`
	TextUnits   int64         `json:"text_units"`
	Transformed int64         `json:"transformed"`
	BytesIn     int64         `json:"bytes_in"`
	BytesOut    int64         `json:"bytes_out"`
	Duration    time.Duration `json:"duration"`
}

// Rewrite copies every unit of src to dst in order. Text units which are not
// blank are passed through transform, everything else is copied unchanged.
// dst is closed before Rewrite returns. progress may be nil.
func Rewrite(ctx context.Context, src document.Source, dst document.Sink, transform Transform, progress ProgressSink, opts Options) (stats Stats, err error) {
	start := time.Now()
	opts = opts.withDefaults()
	r := &rewriter{
		transform: transform,
		dst:       dst,
		progress:  progress,
		opts:      opts,
	}
	if sizer, ok := src.(document.Sizer); ok {
		r.current.Total = sizer.Size()
	}

	defer func() {
		if cerr := dst.Close(); cerr != nil && err == nil {
			err = &document.IOError{Side: document.SinkSide, Err: cerr}
		}
		r.stats.Duration = time.Since(start)
		stats = r.stats
	}()

	batch := make([]document.Unit, 0, opts.BatchSize)
	for {
		unit, err := src.Next()
		if err == io.EOF {
			break
		} else if err != nil {
			return r.stats, sourceError(err)
		}

		batch = append(batch, unit)
		if len(batch) == opts.BatchSize {
			if err := r.flush(ctx, batch); err != nil {
				return r.stats, err
			}
			batch = batch[:0]
		}
	}
	if err := r.flush(ctx, batch); err != nil {
		return r.stats, err
	}

	r.report()
	return r.stats, nil
}

type rewriter struct {
	transform Transform
	dst       document.Sink
	progress  ProgressSink
	opts      Options

	stats   Stats
	current Progress
}

func (r *rewriter) flush(ctx context.Context, batch []document.Unit) error {
	if len(batch) == 0 {
		return nil
	}

	out, err := r.transformBatch(ctx, batch)
	if err != nil {
		return err
	}

	for i, unit := range out {
		if err := r.dst.Write(unit); err != nil {
			return &document.IOError{Side: document.SinkSide, Err: err}
		}
		r.stats.Units++
		r.stats.BytesIn += int64(len(batch[i].Data))
		r.stats.BytesOut += int64(len(unit.Data))
		if batch[i].Kind == document.Text {
			r.stats.TextUnits++
		}

		r.current.Units = r.stats.Units
		r.current.Bytes = r.stats.BytesIn
		if r.stats.Units%int64(r.opts.ReportEvery) == 0 {
			r.report()
		}
	}
	return nil
}

func (r *rewriter) transformBatch(ctx context.Context, batch []document.Unit) ([]document.Unit, error) {
	out := make([]document.Unit, len(batch))
	copy(out, batch)

	var pending []int
	for i, unit := range batch {
		if unit.Kind == document.Text && !text.IsBlank(string(unit.Data)) {
			pending = append(pending, i)
		}
	}

	apply := func(i int) {
		out[i] = document.Unit{Kind: document.Text, Data: []byte(r.transform(string(batch[i].Data)))}
	}

	if r.opts.Workers <= 1 || len(pending) <= 1 {
		for _, i := range pending {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			apply(i)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(r.opts.Workers)
		for _, i := range pending {
			i := i
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				apply(i)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	r.stats.Transformed += int64(len(pending))
	return out, nil
}

// report passes the current progress to the sink. A sink which panics is
// not called again.
func (r *rewriter) report() {
	if r.progress == nil {
		return
	}
	defer func() {
		if p := recover(); p != nil {
			log.Warn().Interface("panic", p).Msg("progress sink failed, progress reporting disabled")
			r.progress = nil
		}
	}()
	r.progress.Report(r.current)
}

func sourceError(err error) error {
	var formatErr *document.FormatError
	var ioErr *document.IOError
	if errors.As(err, &formatErr) || errors.As(err, &ioErr) {
		return err
	}
	return &document.IOError{Side: document.SourceSide, Err: err}
}
