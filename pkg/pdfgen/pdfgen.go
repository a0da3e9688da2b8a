// Package pdfgen turns a bound form view into a stored PDF document.
package pdfgen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/goliatone/go-novaform/pkg/render"
	"github.com/goliatone/go-novaform/pkg/storage"
)

const (
	defaultRenderer = "pdf"
	contentType     = "application/pdf"
)

// FormRenderer renders the form view with a named renderer.
type FormRenderer interface {
	Render(ctx context.Context, renderer string, options render.RenderOptions) ([]byte, error)
}

// Output is the handle returned for a rendered document.
type Output struct {
	ID          string
	Key         string
	Location    string
	Pages       int
	Size        int64
	ContentType string
}

// Option configures a Generator.
type Option func(*Generator)

// WithRendererName selects the registered renderer producing PDF bytes.
func WithRendererName(name string) Option {
	return func(g *Generator) {
		if name = strings.TrimSpace(name); name != "" {
			g.rendererName = name
		}
	}
}

// WithIDGenerator overrides the document id source.
func WithIDGenerator(next func() string) Option {
	return func(g *Generator) {
		if next != nil {
			g.newID = next
		}
	}
}

// WithStrictValidation runs the full pdfcpu validation on every document
// before it is stored.
func WithStrictValidation(enabled bool) Option {
	return func(g *Generator) {
		g.strict = enabled
	}
}

// Generator renders, inspects and stores PDF documents.
type Generator struct {
	view         FormRenderer
	store        storage.Store
	rendererName string
	newID        func() string
	strict       bool
}

// New constructs a Generator rendering through view and saving to store.
func New(view FormRenderer, store storage.Store, options ...Option) (*Generator, error) {
	if view == nil {
		return nil, errors.New("pdfgen: form renderer is required")
	}
	if store == nil {
		return nil, errors.New("pdfgen: store is required")
	}
	g := &Generator{
		view:         view,
		store:        store,
		rendererName: defaultRenderer,
		newID:        uuid.NewString,
	}
	for _, opt := range options {
		if opt != nil {
			opt(g)
		}
	}
	return g, nil
}

// RenderForm renders the view once under binding, checks the result is a
// readable PDF and stores it. meta is printed in the document and its
// "locale" entry selects the translation.
func (g *Generator) RenderForm(ctx context.Context, binding render.Binding, meta map[string]string) (Output, error) {
	if err := ctx.Err(); err != nil {
		return Output{}, err
	}

	data, err := g.view.Render(ctx, g.rendererName, render.RenderOptions{
		Binding: binding,
		Locale:  meta["locale"],
		Meta:    meta,
	})
	if err != nil {
		return Output{}, fmt.Errorf("pdfgen: render: %w", err)
	}

	pages, err := g.PageCount(data)
	if err != nil {
		return Output{}, err
	}

	id := g.newID()
	obj, err := g.store.Put(ctx, Key(id), contentType, data)
	if err != nil {
		return Output{}, fmt.Errorf("pdfgen: store: %w", err)
	}

	return Output{
		ID:          id,
		Key:         obj.Key,
		Location:    obj.Location,
		Pages:       pages,
		Size:        obj.Size,
		ContentType: contentType,
	}, nil
}

// PageCount parses data with pdfcpu and reports its page count.
func (g *Generator) PageCount(data []byte) (int, error) {
	return CountPages(data, g.strict)
}

// Key maps a document id to its storage key.
func Key(id string) string {
	return id + ".pdf"
}

// ValidID reports whether id has the shape produced by the default id
// generator.
func ValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// CountPages parses data with pdfcpu in relaxed mode, optionally runs full
// validation, and returns the page count.
func CountPages(data []byte, strict bool) (int, error) {
	if len(data) == 0 {
		return 0, errors.New("pdfgen: empty document")
	}
	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed

	pdfCtx, err := api.ReadContext(bytes.NewReader(data), conf)
	if err != nil {
		return 0, fmt.Errorf("pdfgen: read document: %w", err)
	}
	if strict {
		if err := api.ValidateContext(pdfCtx); err != nil {
			return 0, fmt.Errorf("pdfgen: validate document: %w", err)
		}
	}
	if err := pdfCtx.EnsurePageCount(); err != nil {
		return 0, fmt.Errorf("pdfgen: page count: %w", err)
	}
	return pdfCtx.PageCount, nil
}
