package render_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-novaform/pkg/model"
	"github.com/goliatone/go-novaform/pkg/render"
)

type stubTranslator map[string]string

func (t stubTranslator) Translate(_ string, key string, _ ...any) (string, error) {
	if msg, ok := t[key]; ok {
		return msg, nil
	}
	return "", errors.New("missing translation")
}

func localizedForm() model.FormModel {
	return model.FormModel{
		OperationID: "submitDemoForm",
		UIHints: map[string]string{
			"layout.titleKey":    "nova_forms",
			"layout.subtitleKey": "demo_form",
			"layout.subtitle":    "Demo",
		},
		Actions: []model.Action{
			{Kind: model.ActionSubmit, Label: "Submit", LabelKey: "toolbar.submit"},
			{Kind: model.ActionPreview, Label: "Preview"},
		},
		Fields: []model.Field{
			{
				Name:        "test",
				Label:       "Test Input",
				Placeholder: "Type here",
				UIHints:     map[string]string{"labelKey": "fields.test.label", "placeholderKey": "fields.test.placeholder"},
			},
		},
	}
}

func TestLocalizeFormModel_TranslatesKeys(t *testing.T) {
	form := localizedForm()
	render.LocalizeFormModel(&form, render.RenderOptions{
		Locale: "de",
		Translator: stubTranslator{
			"nova_forms":        "Nova Formulare",
			"toolbar.submit":    "Absenden",
			"fields.test.label": "Testeingabe",
		},
	})

	if form.UIHints["layout.title"] != "Nova Formulare" {
		t.Fatalf("expected translated title, got %q", form.UIHints["layout.title"])
	}
	if form.UIHints["layout.subtitle"] != "Demo" {
		t.Fatalf("expected subtitle fallback, got %q", form.UIHints["layout.subtitle"])
	}
	if form.Actions[0].Label != "Absenden" || form.Actions[1].Label != "Preview" {
		t.Fatalf("unexpected action labels %+v", form.Actions)
	}
	if form.Fields[0].Label != "Testeingabe" {
		t.Fatalf("expected translated label, got %q", form.Fields[0].Label)
	}
	if form.Fields[0].Placeholder != "Type here" {
		t.Fatalf("expected placeholder fallback, got %q", form.Fields[0].Placeholder)
	}
}

func TestLocalizeFormModel_OnMissingAndNoTranslator(t *testing.T) {
	form := localizedForm()
	var missing []string
	render.LocalizeFormModel(&form, render.RenderOptions{
		Locale: "fr",
		OnMissing: func(locale, key, fallback string, err error) string {
			if !errors.Is(err, render.ErrMissingTranslator) {
				t.Fatalf("expected ErrMissingTranslator, got %v", err)
			}
			missing = append(missing, key)
			return "[" + key + "]"
		},
	})

	if form.UIHints["layout.title"] != "[nova_forms]" {
		t.Fatalf("expected handler output, got %q", form.UIHints["layout.title"])
	}
	if len(missing) != 5 {
		t.Fatalf("expected 5 missing keys, got %v", missing)
	}

	plain := localizedForm()
	render.LocalizeFormModel(&plain, render.RenderOptions{})
	if plain.UIHints["layout.title"] != "nova_forms" || plain.Fields[0].Label != "Test Input" {
		t.Fatalf("expected default handler to fall back to source strings, got %q / %q",
			plain.UIHints["layout.title"], plain.Fields[0].Label)
	}
}

func TestTemplateI18nFuncs(t *testing.T) {
	funcs := render.TemplateI18nFuncs(stubTranslator{"toolbar.submit": "Absenden"}, render.TemplateI18nConfig{})

	translate := funcs["translate"].(func(any, string, ...any) string)
	if got := translate(map[string]any{"locale": "de"}, "toolbar.submit"); got != "Absenden" {
		t.Fatalf("expected translation, got %q", got)
	}
	if got := translate("de", "unknown.key"); got != "unknown.key" {
		t.Fatalf("expected key fallback, got %q", got)
	}

	current := funcs["current_locale"].(func(any) string)
	if got := current(map[string]any{"locale": "de"}); got != "de" {
		t.Fatalf("expected locale from map, got %q", got)
	}
}
