package orchestrator_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-novaform/pkg/model"
	pkgopenapi "github.com/goliatone/go-novaform/pkg/openapi"
	"github.com/goliatone/go-novaform/pkg/orchestrator"
	"github.com/goliatone/go-novaform/pkg/render"
)

type stubFormBuilder struct {
	form  model.FormModel
	calls int
}

func (s *stubFormBuilder) Build(pkgopenapi.Operation) (model.FormModel, error) {
	s.calls++
	return s.form.Clone(), nil
}

type stubParser struct {
	operation pkgopenapi.Operation
}

func (s stubParser) Operations(context.Context, pkgopenapi.Document) (map[string]pkgopenapi.Operation, error) {
	return map[string]pkgopenapi.Operation{s.operation.ID: s.operation}, nil
}

type stubRenderer struct {
	name    string
	last    model.FormModel
	options render.RenderOptions
	err     error
}

func (s *stubRenderer) Name() string {
	if s.name == "" {
		return "stub"
	}
	return s.name
}

func (s *stubRenderer) ContentType() string { return "text/plain" }

func (s *stubRenderer) Render(_ context.Context, form model.FormModel, options render.RenderOptions) ([]byte, error) {
	s.last = form
	s.options = options
	if s.err != nil {
		return nil, s.err
	}
	value, _ := options.Binding.Value("test")
	return []byte(fmt.Sprintf("%s:%v", form.OperationID, value)), nil
}

type staticTranslator struct{}

func (staticTranslator) Translate(_, key string, _ ...any) (string, error) {
	return key, nil
}

const demoOperationID = "submitDemoForm"

func baseForm() model.FormModel {
	return model.FormModel{
		OperationID: demoOperationID,
		Endpoint:    "/api/submit",
		Method:      "POST",
		Fields:      []model.Field{{Name: "test", Type: model.FieldTypeString}},
	}
}

func newOrchestrator(builder model.Builder, renderers []render.Renderer, options ...orchestrator.Option) *orchestrator.Orchestrator {
	registry := render.NewRegistry()
	for _, renderer := range renderers {
		registry.MustRegister(renderer)
	}
	base := []orchestrator.Option{
		orchestrator.WithModelBuilder(builder),
		orchestrator.WithRegistry(registry),
		orchestrator.WithParser(stubParser{operation: pkgopenapi.Operation{ID: demoOperationID}}),
	}
	return orchestrator.New(append(base, options...)...)
}

func demoDocument() *pkgopenapi.Document {
	doc := pkgopenapi.MustNewDocument(pkgopenapi.SourceFromFS("demo.yaml"), []byte("openapi: 3.0.3"))
	return &doc
}

func TestOrchestrator_AppliesTransformer(t *testing.T) {
	builder := &stubFormBuilder{form: baseForm()}
	renderer := &stubRenderer{}

	transformCalled := false
	transformer := orchestrator.TransformerFunc(func(ctx context.Context, form *model.FormModel) error {
		transformCalled = true
		form.Metadata = map[string]string{"patched": "true"}
		return nil
	})

	orch := newOrchestrator(builder, []render.Renderer{renderer},
		orchestrator.WithDefaultRenderer(renderer.Name()),
		orchestrator.WithSchemaTransformer(transformer),
	)

	_, err := orch.Generate(context.Background(), orchestrator.Request{
		Document:    &pkgopenapi.Document{},
		OperationID: demoOperationID,
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !transformCalled {
		t.Fatalf("expected transformer to be invoked")
	}
	if renderer.last.Metadata["patched"] != "true" {
		t.Fatalf("transformer mutation missing: %#v", renderer.last.Metadata)
	}
}

func TestOrchestrator_TransformerErrorAborts(t *testing.T) {
	transformer := orchestrator.TransformerFunc(func(context.Context, *model.FormModel) error {
		return fmt.Errorf("boom")
	})
	orch := newOrchestrator(&stubFormBuilder{form: baseForm()}, []render.Renderer{&stubRenderer{}},
		orchestrator.WithSchemaTransformer(transformer),
	)

	_, err := orch.Generate(context.Background(), orchestrator.Request{
		Document:    &pkgopenapi.Document{},
		OperationID: demoOperationID,
	})
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("expected transformer error, got %v", err)
	}
}

func TestOrchestrator_PassesBindingToRenderer(t *testing.T) {
	renderer := &stubRenderer{}
	orch := newOrchestrator(&stubFormBuilder{form: baseForm()}, []render.Renderer{renderer})

	out, err := orch.Generate(context.Background(), orchestrator.Request{
		Document:    demoDocument(),
		OperationID: demoOperationID,
		RenderOptions: render.RenderOptions{
			Binding: render.Fixed(map[string]any{"test": "hello"}),
		},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if string(out) != "submitDemoForm:hello" {
		t.Fatalf("unexpected output %q", out)
	}
	if renderer.options.Binding.Mode() != render.ModeFixed {
		t.Fatalf("expected fixed binding, got %s", renderer.options.Binding.Mode())
	}
}

func TestOrchestrator_CachesFormPerDocument(t *testing.T) {
	builder := &stubFormBuilder{form: baseForm()}
	orch := newOrchestrator(builder, []render.Renderer{&stubRenderer{}})
	req := orchestrator.Request{Document: demoDocument(), OperationID: demoOperationID}

	first, err := orch.Form(context.Background(), req)
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	first.Fields[0].Label = "mutated"

	second, err := orch.Form(context.Background(), req)
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	if builder.calls != 1 {
		t.Fatalf("expected one build, got %d", builder.calls)
	}
	if diff := cmp.Diff(baseForm(), second); diff != "" {
		t.Fatalf("cached form was mutated through a returned copy (-want +got):\n%s", diff)
	}
}

func TestOrchestrator_DefaultsTranslator(t *testing.T) {
	renderer := &stubRenderer{}
	orch := newOrchestrator(&stubFormBuilder{form: baseForm()}, []render.Renderer{renderer},
		orchestrator.WithTranslator(staticTranslator{}),
	)

	if _, err := orch.Generate(context.Background(), orchestrator.Request{
		Document:    demoDocument(),
		OperationID: demoOperationID,
	}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if renderer.options.Translator == nil {
		t.Fatalf("expected orchestrator translator to be applied")
	}
}

func TestOrchestrator_RendererSelection(t *testing.T) {
	html := &stubRenderer{name: "html"}
	pdf := &stubRenderer{name: "pdf", err: errors.New("pdf failed")}
	orch := newOrchestrator(&stubFormBuilder{form: baseForm()}, []render.Renderer{html, pdf},
		orchestrator.WithDefaultRenderer("html"),
	)
	req := orchestrator.Request{Document: demoDocument(), OperationID: demoOperationID}

	if _, err := orch.Generate(context.Background(), req); err != nil {
		t.Fatalf("default renderer: %v", err)
	}

	req.Renderer = "pdf"
	if _, err := orch.Generate(context.Background(), req); err == nil || !strings.Contains(err.Error(), "pdf failed") {
		t.Fatalf("expected renderer error, got %v", err)
	}

	req.Renderer = "missing"
	if _, err := orch.Generate(context.Background(), req); err == nil || !strings.Contains(err.Error(), `renderer "missing"`) {
		t.Fatalf("expected unknown renderer error, got %v", err)
	}
}

func TestOrchestrator_RequestValidation(t *testing.T) {
	orch := newOrchestrator(&stubFormBuilder{form: baseForm()}, []render.Renderer{&stubRenderer{}})

	if _, err := orch.Form(context.Background(), orchestrator.Request{Document: demoDocument()}); err == nil {
		t.Fatalf("expected missing operation id error")
	}
	if _, err := orch.Form(context.Background(), orchestrator.Request{OperationID: demoOperationID}); err == nil {
		t.Fatalf("expected missing source error")
	}
	if _, err := orch.Form(context.Background(), orchestrator.Request{Document: demoDocument(), OperationID: "other"}); err == nil {
		t.Fatalf("expected unknown operation error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := orch.Form(ctx, orchestrator.Request{Document: demoDocument(), OperationID: demoOperationID}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestOrchestrator_UISchemaDecorator(t *testing.T) {
	uiFiles := fstest.MapFS{
		"demo.yaml": {Data: []byte(`
operations:
  submitDemoForm:
    form:
      title: Nova Forms
      logo: logo.svg
    fields:
      test:
        label: Test Input
`)},
	}
	assets := fstest.MapFS{
		"logo.svg": {Data: []byte(`<svg xmlns="http://www.w3.org/2000/svg"><script>alert(1)</script><circle r="4"/></svg>`)},
	}
	orch := newOrchestrator(&stubFormBuilder{form: baseForm()}, []render.Renderer{&stubRenderer{}},
		orchestrator.WithUISchemaFS(uiFiles),
		orchestrator.WithAssetsFS(assets),
	)

	form, err := orch.Form(context.Background(), orchestrator.Request{Document: demoDocument(), OperationID: demoOperationID})
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	if form.UIHints["layout.title"] != "Nova Forms" {
		t.Fatalf("title hint missing: %#v", form.UIHints)
	}
	if form.Fields[0].Label != "Test Input" {
		t.Fatalf("field label not decorated: %#v", form.Fields[0])
	}
	markup := form.UIHints["layout.logoMarkup"]
	if !strings.Contains(markup, "<circle") || strings.Contains(markup, "script") {
		t.Fatalf("unexpected logo markup %q", markup)
	}
}

func TestOrchestrator_InvalidUISchema(t *testing.T) {
	uiFiles := fstest.MapFS{"broken.yaml": {Data: []byte("operations: [")}}
	orch := newOrchestrator(&stubFormBuilder{form: baseForm()}, nil, orchestrator.WithUISchemaFS(uiFiles))

	if _, err := orch.Form(context.Background(), orchestrator.Request{Document: demoDocument(), OperationID: demoOperationID}); err == nil {
		t.Fatalf("expected ui schema load error")
	}
}

func TestPreset_LoadAndApply(t *testing.T) {
	files := fstest.MapFS{
		"preset.json": {Data: []byte(`{
  "metadata": {"source": "preset"},
  "uiHints": {"layout.subtitle": "Kiosk"},
  "fields": {
    "test": {"label": "Custom Title", "required": true, "uiHints": {"component": "textarea"}},
    "address.city": {"metadata": {"unit": "name"}}
  }
}`)},
		"preset.yaml": {Data: []byte("fields:\n  test:\n    placeholder: Type here\n    default: n/a\n")},
	}
	form := baseForm()
	form.Fields = append(form.Fields, model.Field{
		Name:   "address",
		Type:   model.FieldTypeObject,
		Nested: []model.Field{{Name: "city", Type: model.FieldTypeString}},
	})

	for _, name := range []string{"preset.json", "preset.yaml"} {
		preset, err := orchestrator.LoadPreset(files, name)
		if err != nil {
			t.Fatalf("load %s: %v", name, err)
		}
		if err := preset.Transform(context.Background(), &form); err != nil {
			t.Fatalf("apply %s: %v", name, err)
		}
	}

	if form.Metadata["source"] != "preset" || form.UIHints["layout.subtitle"] != "Kiosk" {
		t.Fatalf("form patch missing: %#v %#v", form.Metadata, form.UIHints)
	}
	test := form.Fields[0]
	if test.Label != "Custom Title" || !test.Required || test.UIHints["component"] != "textarea" {
		t.Fatalf("field not patched: %#v", test)
	}
	if test.Placeholder != "Type here" || test.Default != "n/a" {
		t.Fatalf("yaml patch missing: %#v", test)
	}
	if form.Fields[1].Nested[0].Metadata["unit"] != "name" {
		t.Fatalf("nested metadata missing: %#v", form.Fields[1].Nested[0])
	}
}

func TestPreset_Errors(t *testing.T) {
	preset, err := orchestrator.ParsePreset([]byte(`{"fields": {"missing": {"label": "x"}}}`), true)
	if err != nil {
		t.Fatalf("parse preset: %v", err)
	}
	form := baseForm()
	if err := preset.Transform(context.Background(), &form); err == nil || !strings.Contains(err.Error(), `field "missing" not found`) {
		t.Fatalf("expected unknown field error, got %v", err)
	}

	if _, err := orchestrator.ParsePreset([]byte("  "), false); err == nil {
		t.Fatalf("expected empty document error")
	}
	if _, err := orchestrator.ParsePreset([]byte(`{"title": "x"}`), true); err == nil {
		t.Fatalf("expected unknown key error")
	}
	if _, err := orchestrator.LoadPreset(fstest.MapFS{}, "absent.yaml"); err == nil {
		t.Fatalf("expected read error")
	}
}
