package demo_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goliatone/go-novaform/pkg/demo"
	"github.com/goliatone/go-novaform/pkg/render"
	"github.com/goliatone/go-novaform/pkg/testsupport"
)

func newView(t *testing.T, options ...demo.ViewOption) *demo.View {
	t.Helper()
	view, err := demo.NewView(options...)
	if err != nil {
		t.Fatalf("new view: %v", err)
	}
	return view
}

func assertContains(t *testing.T, output string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %q in output:\n%s", want, output)
		}
	}
}

func TestView_Form(t *testing.T) {
	form, err := newView(t).Form(context.Background())
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	if form.OperationID != demo.OperationID || form.Endpoint != "/api/submit" || form.Method != "POST" {
		t.Fatalf("unexpected form endpoint: %#v", form)
	}
	field, ok := form.FieldByName("test")
	if !ok {
		t.Fatalf("test field missing: %#v", form.Fields)
	}
	if field.Label != "Test Input" || field.UIHints["component"] != "input" {
		t.Fatalf("unexpected test field: %#v", field)
	}
	if len(form.Actions) != 3 {
		t.Fatalf("expected toolbar actions, got %#v", form.Actions)
	}
	if !strings.Contains(form.UIHints["layout.logoMarkup"], "<svg") {
		t.Fatalf("logo markup not inlined: %#v", form.UIHints)
	}
}

func TestView_EditableHTML(t *testing.T) {
	view := newView(t)
	state := render.NewFormState(demo.Defaults().Values())

	out, err := view.Render(context.Background(), demo.RendererHTML, render.RenderOptions{
		Binding: render.Editable(state),
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	assertContains(t, string(out),
		`<html lang="en">`,
		"<title>Demo Form</title>",
		"Nova Forms",
		"Test Input",
		`name="test" value=""`,
		`data-mode="editable"`,
	)
}

func TestView_LocalizedHTML(t *testing.T) {
	out, err := newView(t).Render(context.Background(), demo.RendererHTML, render.RenderOptions{
		Locale: "de-DE",
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	assertContains(t, string(out),
		`<html lang="de">`,
		"<title>Demo-Formular</title>",
		"Nova Formulare",
		"Testeingabe",
		"Absenden",
	)
}

func TestView_FixedPDF(t *testing.T) {
	out, err := newView(t).Render(context.Background(), demo.RendererPDF, render.RenderOptions{
		Binding: render.Fixed(demo.DemoForm{Test: "hello"}.Values()),
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	text := testsupport.PDFText(t, out)
	for _, want := range []string{"Nova Forms", "Test Input", "hello"} {
		if !strings.Contains(text, want) {
			t.Fatalf("expected %q in pdf text %q", want, text)
		}
	}
}

func TestView_PDFRejectsEditable(t *testing.T) {
	_, err := newView(t).Render(context.Background(), demo.RendererPDF, render.RenderOptions{
		Binding: render.Editable(render.NewFormState(nil)),
	})
	if !errors.Is(err, render.ErrUnsupportedBinding) {
		t.Fatalf("expected ErrUnsupportedBinding, got %v", err)
	}
}

func TestView_Negotiate(t *testing.T) {
	view := newView(t)
	cases := map[string]string{
		"":               "en",
		"de":             "de",
		"de-AT":          "de",
		"fr-FR,de;q=0.8": "de",
		"ja":             "en",
	}
	for pref, want := range cases {
		if got := view.Negotiate(pref); got != want {
			t.Fatalf("Negotiate(%q) = %q, want %q", pref, got, want)
		}
	}
	if got := view.Translate("de", "toolbar.submit"); got != "Absenden" {
		t.Fatalf("unexpected translation %q", got)
	}
	if got := view.Translate("de", "missing.key"); got != "missing.key" {
		t.Fatalf("expected key fallback, got %q", got)
	}
}

func TestView_ContentType(t *testing.T) {
	view := newView(t)
	got, err := view.ContentType(demo.RendererPDF)
	if err != nil || got != "application/pdf" {
		t.Fatalf("ContentType(pdf) = %q, %v", got, err)
	}
	if _, err := view.ContentType("missing"); err == nil {
		t.Fatalf("expected unknown renderer error")
	}
}
