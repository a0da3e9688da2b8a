package demo

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-novaform/internal/openapi/loader"
	"github.com/goliatone/go-novaform/pkg/i18n"
	"github.com/goliatone/go-novaform/pkg/model"
	pkgopenapi "github.com/goliatone/go-novaform/pkg/openapi"
	"github.com/goliatone/go-novaform/pkg/orchestrator"
	"github.com/goliatone/go-novaform/pkg/render"
	"github.com/goliatone/go-novaform/pkg/renderers/pdf"
	"github.com/goliatone/go-novaform/pkg/renderers/tui"
	"github.com/goliatone/go-novaform/pkg/renderers/vanilla"
)

// Renderer names registered by NewView.
const (
	RendererHTML = "vanilla"
	RendererPDF  = "pdf"
	RendererTUI  = "tui"
)

// DefaultLocale is used when no preference matches a loaded catalog.
const DefaultLocale = "en"

// ViewOption configures NewView.
type ViewOption func(*viewConfig)

type viewConfig struct {
	vanilla     []vanilla.Option
	pdf         []pdf.Option
	tui         []tui.Option
	renderers   []render.Renderer
	transformer orchestrator.Transformer
}

// WithVanillaOptions forwards options to the HTML renderer.
func WithVanillaOptions(options ...vanilla.Option) ViewOption {
	return func(cfg *viewConfig) {
		cfg.vanilla = append(cfg.vanilla, options...)
	}
}

// WithPDFOptions forwards options to the PDF renderer.
func WithPDFOptions(options ...pdf.Option) ViewOption {
	return func(cfg *viewConfig) {
		cfg.pdf = append(cfg.pdf, options...)
	}
}

// WithTUIOptions forwards options to the terminal renderer.
func WithTUIOptions(options ...tui.Option) ViewOption {
	return func(cfg *viewConfig) {
		cfg.tui = append(cfg.tui, options...)
	}
}

// WithRenderer registers renderer, replacing a built-in one with the same
// name.
func WithRenderer(renderer render.Renderer) ViewOption {
	return func(cfg *viewConfig) {
		if renderer != nil {
			cfg.renderers = append(cfg.renderers, renderer)
		}
	}
}

// WithTransformer patches the form model before the UI schema is applied.
func WithTransformer(transformer orchestrator.Transformer) ViewOption {
	return func(cfg *viewConfig) {
		cfg.transformer = transformer
	}
}

// View is the demo form's single view definition bound to every renderer.
// It is safe for concurrent use.
type View struct {
	orchestrator *orchestrator.Orchestrator
	catalog      *i18n.Catalog
}

// NewView loads the embedded translations and registers the HTML, PDF and
// terminal renderers.
func NewView(options ...ViewOption) (*View, error) {
	cfg := viewConfig{}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	catalog, err := i18n.LoadFS(LocalesFS(), DefaultLocale)
	if err != nil {
		return nil, fmt.Errorf("demo: load translations: %w", err)
	}

	html, err := vanilla.New(append([]vanilla.Option{vanilla.WithTranslator(catalog)}, cfg.vanilla...)...)
	if err != nil {
		return nil, fmt.Errorf("demo: html renderer: %w", err)
	}

	byName := map[string]render.Renderer{
		RendererHTML: html,
		RendererPDF:  pdf.New(cfg.pdf...),
		RendererTUI:  tui.New(cfg.tui...),
	}
	for _, renderer := range cfg.renderers {
		byName[renderer.Name()] = renderer
	}
	registry := render.NewRegistry()
	for _, renderer := range byName {
		if err := registry.Register(renderer); err != nil {
			return nil, fmt.Errorf("demo: %w", err)
		}
	}

	orchOptions := []orchestrator.Option{
		orchestrator.WithLoader(loader.New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithFileSystem(AssetsFS())))),
		orchestrator.WithRegistry(registry),
		orchestrator.WithDefaultRenderer(RendererHTML),
		orchestrator.WithUISchemaFS(UISchemaFS()),
		orchestrator.WithAssetsFS(StaticFS()),
		orchestrator.WithTranslator(catalog),
	}
	if cfg.transformer != nil {
		orchOptions = append(orchOptions, orchestrator.WithSchemaTransformer(cfg.transformer))
	}

	return &View{
		orchestrator: orchestrator.New(orchOptions...),
		catalog:      catalog,
	}, nil
}

// Render renders the demo form with the named renderer. An empty locale
// selects DefaultLocale; unsupported locales are negotiated down to a loaded
// catalog.
func (v *View) Render(ctx context.Context, renderer string, options render.RenderOptions) ([]byte, error) {
	options.Locale = v.Negotiate(options.Locale)
	return v.orchestrator.Generate(ctx, v.request(renderer, options))
}

// Form returns the decorated, untranslated form model.
func (v *View) Form(ctx context.Context) (model.FormModel, error) {
	return v.orchestrator.Form(ctx, v.request("", render.RenderOptions{}))
}

// ContentType reports the media type produced by renderer.
func (v *View) ContentType(renderer string) (string, error) {
	return v.orchestrator.Registry().ContentType(renderer)
}

// Negotiate picks the best loaded locale for the preferences, which may be
// plain tags or Accept-Language values.
func (v *View) Negotiate(preferences ...string) string {
	return v.catalog.Negotiate(preferences...)
}

// Locales lists the locales with a loaded catalog.
func (v *View) Locales() []string {
	return v.catalog.Locales()
}

// Translate resolves key for locale, returning key itself when missing.
func (v *View) Translate(locale, key string) string {
	msg, err := v.catalog.Translate(locale, key)
	if err != nil || strings.TrimSpace(msg) == "" {
		return key
	}
	return msg
}

func (v *View) request(renderer string, options render.RenderOptions) orchestrator.Request {
	return orchestrator.Request{
		Source:        pkgopenapi.SourceFromFS(documentPath),
		OperationID:   OperationID,
		Renderer:      renderer,
		RenderOptions: options,
	}
}
