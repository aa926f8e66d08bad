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

// Package document splits documents into text which a reader sees and
// structure which must be copied unchanged.
package document

import (
	"bufio"
	"io"
)

type Kind int

const (
	Text Kind = iota
	Structure
)

func (k Kind) String() string {
	if k == Text {
		return "text"
	}
	return "structure"
}

// Unit is a contiguous region of a document. Concatenating the Data of every
// unit a Source returns reproduces its input.
type Unit struct {
	Kind Kind
	Data []byte
}

// Source returns units in document order and io.EOF after the last one.
type Source interface {
	Next() (Unit, error)
}

// Sizer is implemented by sources which know the length of their input.
type Sizer interface {
	Size() int64
}

// Sink accepts units in document order. Close flushes anything buffered.
type Sink interface {
	Write(Unit) error
	Close() error
}

// WriterSink writes the data of every unit to an io.Writer.
type WriterSink struct {
	w      io.Writer
	buf    *bufio.Writer
	closed bool
}

// NewWriterSink buffers writes to w. Close closes w too if it is an
// io.Closer.
func NewWriterSink(w io.Writer) *WriterSink {
	return &WriterSink{w: w, buf: bufio.NewWriter(w)}
}

func (s *WriterSink) Write(unit Unit) error {
	_, err := s.buf.Write(unit.Data)
	return err
}

func (s *WriterSink) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	err := s.buf.Flush()
	if c, ok := s.w.(io.Closer); ok {
		if cerr := c.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Writer adapts a sink to io.Writer, writing everything as structure.
func Writer(sink Sink) io.Writer {
	return sinkWriter{sink}
}

type sinkWriter struct {
	sink Sink
}

func (w sinkWriter) Write(p []byte) (int, error) {
	data := make([]byte, len(p))
	copy(data, p)
	if err := w.sink.Write(Unit{Kind: Structure, Data: data}); err != nil {
		return 0, err
	}
	return len(p), nil
}
