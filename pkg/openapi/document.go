package openapi

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
)

// Document is an unparsed OpenAPI payload plus the source it came from.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument keeps a private copy of raw.
func NewDocument(src Source, raw []byte) (Document, error) {
	switch {
	case src == nil:
		return Document{}, errors.New("openapi: source is required")
	case len(raw) == 0:
		return Document{}, errors.New("openapi: raw document is empty")
	}
	return Document{source: src, raw: bytes.Clone(raw)}, nil
}

func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

func (d Document) Source() Source { return d.source }

// Raw returns a copy of the payload.
func (d Document) Raw() []byte { return bytes.Clone(d.raw) }

// Location is the source location, or "" for a zero Document. Built forms
// are cached per location.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// Loader reads the document a Source points at.
type Loader interface {
	Load(ctx context.Context, src Source) (Document, error)
}

// LoaderOptions configures the built-in loader.
type LoaderOptions struct {
	// FileSystem serves SourceKindFS. File sources read the OS directly.
	FileSystem fs.FS
}

type LoaderOption func(*LoaderOptions)

func WithFileSystem(files fs.FS) LoaderOption {
	return func(opts *LoaderOptions) { opts.FileSystem = files }
}

func NewLoaderOptions(options ...LoaderOption) LoaderOptions {
	var opts LoaderOptions
	for _, opt := range options {
		if opt != nil {
			opt(&opts)
		}
	}
	return opts
}
