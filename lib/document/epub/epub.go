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

// Package epub rewrites the content documents of an EPUB container and
// copies every other entry unchanged.
package epub

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/rs/zerolog/log"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/document"
)

// RewriteFunc rewrites one content document from r to w.
type RewriteFunc func(ctx context.Context, name string, r io.Reader, w io.Writer) error

// IsDocument reports whether the entry name is a content document.
func IsDocument(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".xhtml", ".html", ".htm":
		return true
	}
	return false
}

// Documents returns the content documents of the container and their total
// uncompressed size.
func Documents(zr *zip.Reader) (names []string, size int64) {
	for _, f := range zr.File {
		if IsDocument(f.Name) {
			names = append(names, f.Name)
			size += int64(f.UncompressedSize64)
		}
	}
	return names, size
}

// Open reads the container from r.
func Open(r io.ReaderAt, size int64) (*zip.Reader, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, &document.FormatError{Name: "epub container", Err: err}
	}
	return zr, nil
}

// Rewrite writes a copy of zr to w in which every content document has been
// passed through rewrite. Entries keep their order, names, compression
// method and modification time; a stored mimetype entry stays stored.
func Rewrite(ctx context.Context, zr *zip.Reader, w io.Writer, rewrite RewriteFunc) error {
	zw := zip.NewWriter(w)

	for _, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return err
		}

		if !IsDocument(f.Name) {
			if err := zw.Copy(f); err != nil {
				return &document.IOError{Side: document.SinkSide, Name: f.Name, Err: err}
			}
			continue
		}

		if err := rewriteEntry(ctx, zw, f, rewrite); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return &document.IOError{Side: document.SinkSide, Err: err}
	}
	return nil
}

func rewriteEntry(ctx context.Context, zw *zip.Writer, f *zip.File, rewrite RewriteFunc) error {
	r, err := f.Open()
	if err != nil {
		return &document.FormatError{Name: f.Name, Err: err}
	}
	defer r.Close()

	header := &zip.FileHeader{
		Name:     f.Name,
		Comment:  f.Comment,
		Method:   f.Method,
		Modified: f.Modified,
	}
	header.SetMode(f.Mode())
	entry, err := zw.CreateHeader(header)
	if err != nil {
		return &document.IOError{Side: document.SinkSide, Name: f.Name, Err: err}
	}

	log.Debug().Str("entry", f.Name).Uint64("bytes", f.UncompressedSize64).Msg("rewriting epub document")
	if err := rewrite(ctx, f.Name, r, entry); err != nil {
		return fmt.Errorf("%s: %w", f.Name, err)
	}
	return nil
}
