package job

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

type Format string

const (
	HTMLFormat Format = "html"
	TextFormat Format = "text"
	EPUBFormat Format = "epub"
)

// ErrUnsupportedFormat is returned for document formats which are
// recognised but cannot be rewritten.
var ErrUnsupportedFormat = errors.New("unsupported document format")

var extensions = map[string]Format{
	".html":  HTMLFormat,
	".htm":   HTMLFormat,
	".xhtml": HTMLFormat,
	".txt":   TextFormat,
	".text":  TextFormat,
	".epub":  EPUBFormat,
}

var unsupported = map[string]struct{}{
	"mobi": {},
	"azw":  {},
	"azw3": {},
	"pdf":  {},
}

// ParseFormat returns the format called name.
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimPrefix(name, "."))
	switch Format(name) {
	case HTMLFormat, TextFormat, EPUBFormat:
		return Format(name), nil
	}
	if _, ok := unsupported[name]; ok {
		return "", fmt.Errorf("%s: %w", name, ErrUnsupportedFormat)
	}
	if f, ok := extensions["."+name]; ok {
		return f, nil
	}
	return "", fmt.Errorf("unknown document format %q", name)
}

// DetectFormat returns the format of the document at path from its
// extension.
func DetectFormat(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := extensions[ext]; ok {
		return f, nil
	}
	if ext == "" {
		return "", fmt.Errorf("cannot detect the format of %s", path)
	}
	return ParseFormat(ext)
}

// DefaultOutput returns the output path used when none is given:
// book.epub becomes book.glossed.epub.
func DefaultOutput(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + ".glossed" + ext
}
