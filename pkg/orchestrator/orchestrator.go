package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"sync"

	internalLoader "github.com/goliatone/go-novaform/internal/openapi/loader"
	internalParser "github.com/goliatone/go-novaform/internal/openapi/parser"
	"github.com/goliatone/go-novaform/pkg/model"
	pkgopenapi "github.com/goliatone/go-novaform/pkg/openapi"
	"github.com/goliatone/go-novaform/pkg/render"
	"github.com/goliatone/go-novaform/pkg/uischema"
)

// Option configures an Orchestrator.
type Option func(*Orchestrator)

func WithLoader(loader pkgopenapi.Loader) Option {
	return func(o *Orchestrator) { o.loader = loader }
}

func WithParser(parser pkgopenapi.Parser) Option {
	return func(o *Orchestrator) { o.parser = parser }
}

func WithModelBuilder(builder model.Builder) Option {
	return func(o *Orchestrator) { o.builder = builder }
}

func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) { o.registry = registry }
}

// WithDefaultRenderer names the renderer used when Request.Renderer is empty.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) { o.defaultRenderer = name }
}

// WithSchemaTransformer runs t on each freshly built model, before any UI
// schema decorator.
func WithSchemaTransformer(t Transformer) Option {
	return func(o *Orchestrator) { o.transformer = t }
}

// WithUIDecorators appends decorators applied after the transformer.
func WithUIDecorators(decorators ...model.Decorator) Option {
	return func(o *Orchestrator) { o.decorators = append(o.decorators, decorators...) }
}

// WithUISchemaFS loads UI schema documents from fsys and decorates every
// model with them.
func WithUISchemaFS(fsys fs.FS) Option {
	return func(o *Orchestrator) { o.uiSchemaFS = fsys }
}

// WithAssetsFS resolves files referenced from UI schemas, such as logos.
func WithAssetsFS(fsys fs.FS) Option {
	return func(o *Orchestrator) { o.assetsFS = fsys }
}

// WithTranslator is the fallback translator for requests without one.
func WithTranslator(translator render.Translator) Option {
	return func(o *Orchestrator) { o.translator = translator }
}

// Request selects an operation and the renderer to emit it with.
type Request struct {
	// Source is loaded through the configured loader unless Document is set.
	Source   pkgopenapi.Source
	Document *pkgopenapi.Document

	OperationID string

	// Renderer falls back to the default renderer, then to the first
	// registered name.
	Renderer      string
	RenderOptions render.RenderOptions
}

// Orchestrator turns an OpenAPI operation into a decorated form model and
// hands it to a renderer. Models built from a located document are kept so
// every renderer and binding mode reads the same view definition.
type Orchestrator struct {
	loader          pkgopenapi.Loader
	parser          pkgopenapi.Parser
	builder         model.Builder
	registry        *render.Registry
	defaultRenderer string
	transformer     Transformer
	decorators      []model.Decorator
	uiSchemaFS      fs.FS
	assetsFS        fs.FS
	translator      render.Translator
	setupErr        error

	cache sync.Map // cacheKey -> model.FormModel
}

type cacheKey struct{ location, operation string }

// New applies options and fills in the built-in loader, parser, builder and
// an empty registry where none were given.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{}
	for _, opt := range options {
		if opt != nil {
			opt(o)
		}
	}
	if o.loader == nil {
		o.loader = internalLoader.New(pkgopenapi.NewLoaderOptions())
	}
	if o.parser == nil {
		o.parser = internalParser.New(pkgopenapi.NewParserOptions())
	}
	if o.builder == nil {
		o.builder = model.NewBuilder()
	}
	if o.registry == nil {
		o.registry = render.NewRegistry()
	}
	if o.uiSchemaFS != nil {
		store, err := uischema.LoadFS(o.uiSchemaFS)
		switch {
		case err != nil:
			o.setupErr = fmt.Errorf("orchestrator: load ui schema: %w", err)
		case !store.Empty():
			o.decorators = append(o.decorators, uischema.NewDecorator(store, uischema.WithAssets(o.assetsFS)))
		}
	}
	return o
}

func (o *Orchestrator) Registry() *render.Registry {
	return o.registry
}

// Form returns a private copy of the decorated model for req.
func (o *Orchestrator) Form(ctx context.Context, req Request) (model.FormModel, error) {
	if ctx == nil {
		return model.FormModel{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return model.FormModel{}, err
	}
	if o.setupErr != nil {
		return model.FormModel{}, o.setupErr
	}
	if req.OperationID == "" {
		return model.FormModel{}, errors.New("orchestrator: operation id is required")
	}

	key := cacheKey{location: req.location(), operation: req.OperationID}
	if key.location != "" {
		if cached, ok := o.cache.Load(key); ok {
			return cached.(model.FormModel).Clone(), nil
		}
	}

	form, err := o.build(ctx, req)
	if err != nil {
		return model.FormModel{}, err
	}
	if key.location != "" {
		o.cache.Store(key, form)
	}
	return form.Clone(), nil
}

// Generate renders the operation's form with the requested renderer.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	form, err := o.Form(ctx, req)
	if err != nil {
		return nil, err
	}
	renderer, err := o.pick(req.Renderer)
	if err != nil {
		return nil, err
	}

	opts := req.RenderOptions
	if opts.Translator == nil {
		opts.Translator = o.translator
	}
	out, err := renderer.Render(ctx, form, opts)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return out, nil
}

func (o *Orchestrator) build(ctx context.Context, req Request) (model.FormModel, error) {
	var doc pkgopenapi.Document
	switch {
	case req.Document != nil:
		doc = *req.Document
	case req.Source != nil:
		loaded, err := o.loader.Load(ctx, req.Source)
		if err != nil {
			return model.FormModel{}, fmt.Errorf("orchestrator: load document: %w", err)
		}
		doc = loaded
	default:
		return model.FormModel{}, errors.New("orchestrator: source or document is required")
	}

	ops, err := o.parser.Operations(ctx, doc)
	if err != nil {
		return model.FormModel{}, fmt.Errorf("orchestrator: parse operations: %w", err)
	}
	op, ok := ops[req.OperationID]
	if !ok {
		return model.FormModel{}, fmt.Errorf("orchestrator: operation %q not found", req.OperationID)
	}

	form, err := o.builder.Build(op)
	if err != nil {
		return model.FormModel{}, fmt.Errorf("orchestrator: build form model: %w", err)
	}
	if o.transformer != nil {
		if err := o.transformer.Transform(ctx, &form); err != nil {
			return model.FormModel{}, fmt.Errorf("orchestrator: transform form: %w", err)
		}
	}
	for _, d := range o.decorators {
		if d == nil {
			continue
		}
		if err := d.Decorate(&form); err != nil {
			return model.FormModel{}, fmt.Errorf("orchestrator: decorate form: %w", err)
		}
	}
	return form, nil
}

func (o *Orchestrator) pick(name string) (render.Renderer, error) {
	candidates := []string{name}
	if name == "" {
		candidates = []string{o.defaultRenderer}
		if names := o.registry.List(); len(names) > 0 {
			candidates = append(candidates, names[0])
		}
	}
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		renderer, err := o.registry.Get(candidate)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}
	return nil, errors.New("orchestrator: no renderers registered")
}

func (r Request) location() string {
	switch {
	case r.Document != nil:
		return r.Document.Location()
	case r.Source != nil:
		return r.Source.Location()
	}
	return ""
}
