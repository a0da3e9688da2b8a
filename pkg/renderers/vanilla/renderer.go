package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-novaform/pkg/model"
	"github.com/goliatone/go-novaform/pkg/render"
	rendertemplate "github.com/goliatone/go-novaform/pkg/render/template"
	gotemplate "github.com/goliatone/go-novaform/pkg/render/template/gotemplate"
	"github.com/goliatone/go-novaform/pkg/renderers/vanilla/components"
)

const (
	pageTemplate = "templates/page.tmpl"
	formTemplate = "templates/form.tmpl"

	defaultPreviewEndpoint = "/api/preview"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	components       *components.Registry
	templateFuncs    map[string]any
	translator       render.Translator
	previewEndpoint  string
	inlineAssets     bool
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponents replaces the default component registry.
func WithComponents(registry *components.Registry) Option {
	return func(cfg *config) {
		cfg.components = registry
	}
}

// WithTemplateFuncs registers extra helpers on the template engine.
func WithTemplateFuncs(funcs map[string]any) Option {
	return func(cfg *config) {
		if cfg.templateFuncs == nil {
			cfg.templateFuncs = make(map[string]any, len(funcs))
		}
		for name, fn := range funcs {
			cfg.templateFuncs[name] = fn
		}
	}
}

// WithTranslator backs the `translate` template helper used for page chrome
// such as status messages.
func WithTranslator(translator render.Translator) Option {
	return func(cfg *config) {
		cfg.translator = translator
	}
}

// WithPreviewEndpoint sets the path the preview button posts to.
func WithPreviewEndpoint(path string) Option {
	return func(cfg *config) {
		if path = strings.TrimSpace(path); path != "" {
			cfg.previewEndpoint = path
		}
	}
}

// WithInlineAssets toggles embedding the default stylesheet and runtime
// script into every page. Enabled by default.
func WithInlineAssets(enabled bool) Option {
	return func(cfg *config) {
		cfg.inlineAssets = enabled
	}
}

type Renderer struct {
	templates       rendertemplate.TemplateRenderer
	components      *components.Registry
	previewEndpoint string
	stylesheet      string
	script          string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{
		templateFS:      TemplatesFS(),
		previewEndpoint: defaultPreviewEndpoint,
		inlineAssets:    true,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.components == nil {
		cfg.components = components.NewDefaultRegistry()
	}

	funcs := render.TemplateI18nFuncs(cfg.translator, render.TemplateI18nConfig{
		OnMissing: chromeFallback,
	})
	for name, fn := range cfg.templateFuncs {
		funcs[name] = fn
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
			gotemplate.WithTemplateFunc(funcs),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	r := &Renderer{
		templates:       renderer,
		components:      cfg.components,
		previewEndpoint: cfg.previewEndpoint,
	}
	if cfg.inlineAssets {
		r.stylesheet = readAsset(StylesheetName)
		r.script = readAsset(RuntimeScriptName)
	}
	return r, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces a full HTML page, or only the form element when
// options.Partial is set. Editable and zero bindings render live controls;
// Fixed bindings render the snapshot read-only.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	localized := form.Clone()
	render.LocalizeFormModel(&localized, options)

	fields := newComponentRenderer(r.templates, r.components, options.Binding)
	var body strings.Builder
	for _, field := range localized.Fields {
		markup, err := fields.render(field, field.Name)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: %w", err)
		}
		body.WriteString(markup)
	}

	payload := map[string]any{
		"form":        localized,
		"fields_html": body.String(),
		"endpoint":    joinURL(options.BaseURL, localized.Endpoint),
		"mode":        options.Binding.Mode().String(),
		"readonly":    options.Binding.ReadOnly(),
		"meta":        metaPayload(options.Meta),
	}

	formHTML, err := r.templates.RenderTemplate(formTemplate, payload)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render form: %w", err)
	}
	if options.Partial {
		return []byte(formHTML), nil
	}

	stylesheets, scripts := fields.assets()
	hints := localized.UIHints
	payload["form_html"] = formHTML
	payload["locale"] = options.Locale
	payload["base_url"] = strings.TrimRight(options.BaseURL, "/")
	payload["preview_endpoint"] = r.previewEndpoint
	payload["title"] = hints["layout.title"]
	payload["subtitle"] = hints["layout.subtitle"]
	payload["document_title"] = documentTitle(localized)
	payload["logo"] = hints["layout.logo"]
	payload["logo_markup"] = hints["layout.logoMarkup"]
	payload["actions"] = actionsPayload(localized.Actions, options.Locale)
	payload["stylesheets"] = stylesheets
	payload["scripts"] = scriptsPayload(scripts)
	payload["runtime_stylesheet"] = r.stylesheet
	payload["runtime_script"] = r.script

	page, err := r.templates.RenderTemplate(pageTemplate, payload)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render page: %w", err)
	}
	return []byte(page), nil
}

func documentTitle(form model.FormModel) string {
	for _, key := range []string{"layout.documentTitle", "layout.subtitle", "layout.title"} {
		if value := strings.TrimSpace(form.UIHints[key]); value != "" {
			return value
		}
	}
	if form.Summary != "" {
		return form.Summary
	}
	return form.OperationID
}

func metaPayload(meta map[string]string) []map[string]any {
	sorted := render.SortedMeta(meta)
	if len(sorted) == 0 {
		return nil
	}
	out := make([]map[string]any, 0, len(sorted))
	for _, field := range sorted {
		out = append(out, map[string]any{"name": field.Name, "value": field.Value})
	}
	return out
}

func actionsPayload(actions []model.Action, locale string) []map[string]any {
	if len(actions) == 0 {
		return nil
	}
	out := make([]map[string]any, 0, len(actions))
	for _, action := range actions {
		entry := map[string]any{
			"kind":  string(action.Kind),
			"label": action.Label,
			"icon":  action.Icon,
		}
		if len(action.Options) > 0 {
			options := make([]map[string]any, 0, len(action.Options))
			for _, option := range action.Options {
				options = append(options, map[string]any{
					"value":    option,
					"selected": strings.EqualFold(option, locale),
				})
			}
			entry["options"] = options
		}
		out = append(out, entry)
	}
	return out
}

func scriptsPayload(scripts []components.Script) []map[string]any {
	out := make([]map[string]any, 0, len(scripts))
	for _, script := range scripts {
		if script.Src == "" {
			continue
		}
		out = append(out, map[string]any{
			"src":    script.Src,
			"defer":  script.Defer,
			"module": script.Module,
		})
	}
	return out
}

var chromeDefaults = map[string]string{
	"status.submitted": "Submitted",
	"status.failed":    "Something went wrong. Please try again.",
	"preview.heading":  "Preview",
}

func chromeFallback(_ string, key, fallback string, _ error) string {
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	if value, ok := chromeDefaults[key]; ok {
		return value
	}
	return key
}
