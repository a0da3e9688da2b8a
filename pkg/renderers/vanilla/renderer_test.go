package vanilla_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-novaform/pkg/model"
	"github.com/goliatone/go-novaform/pkg/render"
	"github.com/goliatone/go-novaform/pkg/renderers/vanilla"
	"github.com/goliatone/go-novaform/pkg/testsupport"
)

type mapTranslator map[string]string

func (m mapTranslator) Translate(locale, key string, _ ...any) (string, error) {
	if value, ok := m[locale+":"+key]; ok {
		return value, nil
	}
	return "", errors.New("missing")
}

func newRenderer(t *testing.T, options ...vanilla.Option) *vanilla.Renderer {
	t.Helper()
	renderer, err := vanilla.New(options...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	return renderer
}

func renderString(t *testing.T, renderer *vanilla.Renderer, form model.FormModel, options render.RenderOptions) string {
	t.Helper()
	out, err := renderer.Render(testsupport.Context(), form, options)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(out)
}

func assertContains(t *testing.T, output string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestRenderer_EditablePage(t *testing.T) {
	renderer := newRenderer(t)
	state := render.NewFormState(map[string]any{"test": "draft"})

	out := renderString(t, renderer, testsupport.FormModel(), render.RenderOptions{
		Binding: render.Editable(state),
		Locale:  "en",
	})

	assertContains(t, out,
		"<!DOCTYPE html>",
		`<html lang="en">`,
		"<title>Demo Form</title>",
		`<h1 class="nf-title">Nova Forms</h1>`,
		`<p class="nf-subtitle">Demo Form</p>`,
		`<img class="nf-logo" src="logo.svg" alt="">`,
		`data-endpoint="/api/submit"`,
		`data-mode="editable"`,
		`<label id="fg-test-label" for="fg-test" class="nf-label">Test Input</label>`,
		`id="fg-test" name="test" value="draft"`,
		`data-action="preview"`,
		`data-action="submit"`,
		`<option value="en" selected>en</option>`,
		`data-preview-endpoint="/api/preview"`,
		"Preview",
	)
	if strings.Contains(out, `readonly aria-readonly="true"`) {
		t.Fatalf("editable binding rendered read-only controls:\n%s", out)
	}
}

func TestRenderer_FixedPartial(t *testing.T) {
	renderer := newRenderer(t)

	out := renderString(t, renderer, testsupport.FormModel(), render.RenderOptions{
		Binding: render.Fixed(map[string]any{"test": "hello"}),
		Partial: true,
	})

	assertContains(t, out,
		`data-mode="fixed"`,
		`value="hello"`,
		`readonly aria-readonly="true"`,
	)
	if strings.Contains(out, "<html") || strings.Contains(out, "nf-toolbar") {
		t.Fatalf("partial render must not include the page shell:\n%s", out)
	}
}

func TestRenderer_ZeroBindingUsesDefaults(t *testing.T) {
	renderer := newRenderer(t)
	form := testsupport.FormModel()
	form.Fields[0].Default = "seed"

	out := renderString(t, renderer, form, render.RenderOptions{Partial: true})
	assertContains(t, out, `value="seed"`, `data-mode="none"`)
}

func TestRenderer_EscapesBoundValues(t *testing.T) {
	renderer := newRenderer(t)

	out := renderString(t, renderer, testsupport.FormModel(), render.RenderOptions{
		Binding: render.Fixed(map[string]any{"test": `"><script>alert(1)</script>`}),
		Partial: true,
	})
	if strings.Contains(out, "<script>alert(1)</script>") {
		t.Fatalf("bound value was not escaped:\n%s", out)
	}
}

func TestRenderer_MetaAndBaseURL(t *testing.T) {
	renderer := newRenderer(t)

	out := renderString(t, renderer, testsupport.FormModel(), render.RenderOptions{
		Binding: render.Editable(render.NewFormState(nil)),
		BaseURL: "https://forms.example.com/",
		Meta:    render.MergeMeta(nil, render.Meta("locale", "de"), render.Meta("session", "abc")),
	})

	assertContains(t, out,
		`data-endpoint="https://forms.example.com/api/submit"`,
		`data-base-url="https://forms.example.com"`,
		`<input type="hidden" data-meta="locale" value="de">`,
		`<input type="hidden" data-meta="session" value="abc">`,
	)
	if strings.Index(out, `data-meta="locale"`) > strings.Index(out, `data-meta="session"`) {
		t.Fatalf("meta fields should be sorted by name")
	}
}

func TestRenderer_LocalizesKeys(t *testing.T) {
	translator := mapTranslator{
		"de:nova_forms":         "Nova Formulare",
		"de:fields.test.label":  "Testeingabe",
		"de:status.failed":      "Fehler",
		"de:preview.heading":    "Vorschau",
		"de:toolbar.submit":     "Absenden",
		"de:toolbar.preview":    "Vorschau anzeigen",
		"de:toolbar.language":   "Sprache",
		"de:demo_form":          "Demoformular",
		"de:status.submitted":   "Gesendet",
		"de:unused.placeholder": "-",
	}
	renderer := newRenderer(t, vanilla.WithTranslator(translator))

	form := testsupport.FormModel()
	form.UIHints["layout.titleKey"] = "nova_forms"
	form.UIHints["layout.documentTitleKey"] = "demo_form"
	form.Fields[0].UIHints["labelKey"] = "fields.test.label"
	form.Actions[2].LabelKey = "toolbar.submit"

	out := renderString(t, renderer, form, render.RenderOptions{
		Locale:     "de",
		Translator: translator,
	})

	assertContains(t, out,
		"<title>Demoformular</title>",
		"Nova Formulare",
		">Testeingabe</label>",
		"Absenden",
		"Vorschau",
		`data-failed="Fehler"`,
		`<option value="de" selected>de</option>`,
	)
}

func TestRenderer_UnknownComponent(t *testing.T) {
	renderer := newRenderer(t)
	form := testsupport.FormModel()
	form.Fields[0].UIHints["component"] = "missing"

	_, err := renderer.Render(testsupport.Context(), form, render.RenderOptions{})
	if err == nil || !strings.Contains(err.Error(), `component "missing" not registered for field "test"`) {
		t.Fatalf("expected unknown component error, got %v", err)
	}
}

func TestRenderer_CanceledContext(t *testing.T) {
	renderer := newRenderer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := renderer.Render(ctx, testsupport.FormModel(), render.RenderOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRenderer_NestedFieldsUseFullPaths(t *testing.T) {
	renderer := newRenderer(t)
	form := model.FormModel{
		OperationID: "address",
		Endpoint:    "/api/address",
		Method:      "POST",
		Fields: []model.Field{{
			Name:  "address",
			Type:  model.FieldTypeObject,
			Label: "Address",
			Nested: []model.Field{
				{Name: "city", Type: model.FieldTypeString, Label: "City"},
				{Name: "verified", Type: model.FieldTypeBoolean, Label: "Verified"},
			},
		}},
	}

	out := renderString(t, renderer, form, render.RenderOptions{
		Binding: render.Fixed(map[string]any{"address": map[string]any{"city": "Berlin", "verified": true}}),
		Partial: true,
	})

	assertContains(t, out,
		`<fieldset id="fg-address" class="nf-fieldset" disabled>`,
		`id="fg-address-city" name="address.city" value="Berlin"`,
		`name="address.verified" value="true" class="nf-checkbox" checked disabled`,
	)
}

func TestRenderer_Metadata(t *testing.T) {
	renderer := newRenderer(t)
	if renderer.Name() != "vanilla" {
		t.Fatalf("unexpected name %q", renderer.Name())
	}
	if renderer.ContentType() != "text/html; charset=utf-8" {
		t.Fatalf("unexpected content type %q", renderer.ContentType())
	}
}

func TestAssetsFS(t *testing.T) {
	for _, name := range []string{vanilla.StylesheetName, vanilla.RuntimeScriptName} {
		if _, err := vanilla.AssetsFS().Open(name); err != nil {
			t.Fatalf("asset %s missing: %v", name, err)
		}
	}
}
