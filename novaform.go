// Package novaform is the convenience entry point to the form pipeline:
// OpenAPI loading, model building and rendering under an explicit binding.
package novaform

import (
	"context"
	"io/fs"

	internalLoader "github.com/goliatone/go-novaform/internal/openapi/loader"
	internalParser "github.com/goliatone/go-novaform/internal/openapi/parser"
	pkgopenapi "github.com/goliatone/go-novaform/pkg/openapi"
	"github.com/goliatone/go-novaform/pkg/orchestrator"
	"github.com/goliatone/go-novaform/pkg/render"
	"github.com/goliatone/go-novaform/pkg/renderers/vanilla"
)

// RenderOptions describes per-request binding, locale and metadata.
type RenderOptions = render.RenderOptions

// Binding selects between editable and fixed rendering.
type Binding = render.Binding

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...pkgopenapi.LoaderOption) pkgopenapi.Loader {
	return internalLoader.New(pkgopenapi.NewLoaderOptions(options...))
}

// NewParser constructs a parser backed by the internal implementation.
func NewParser(options ...pkgopenapi.ParserOption) pkgopenapi.Parser {
	return internalParser.New(pkgopenapi.NewParserOptions(options...))
}

// Generate loads source, builds the form for operationID and renders it with
// the named renderer, which must be present in the registry passed through
// options.
func Generate(ctx context.Context, source pkgopenapi.Source, operationID, rendererName string, opts RenderOptions, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).Generate(ctx, orchestrator.Request{
		Source:        source,
		OperationID:   operationID,
		Renderer:      rendererName,
		RenderOptions: opts,
	})
}

// EmbeddedTemplates exposes the built-in HTML templates so callers can reuse
// or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// RuntimeAssetsFS exposes the stylesheet and browser runtime of the HTML
// renderer.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(novaform.RuntimeAssetsFS()),
//	  ),
//	)
func RuntimeAssetsFS() fs.FS {
	return vanilla.AssetsFS()
}
