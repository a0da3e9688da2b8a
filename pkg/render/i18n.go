package render

import (
	"errors"
	"strings"

	"github.com/goliatone/go-novaform/pkg/model"
)

// ErrMissingTranslator is passed to MissingTranslationHandler when a key is
// configured but no Translator was supplied.
var ErrMissingTranslator = errors.New("render: translator not configured")

// Translator resolves message keys for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler picks the string shown when key cannot be
// translated. fallback is the untranslated source string, possibly empty.
type MissingTranslationHandler func(locale, key, fallback string, err error) string

const (
	hintTitle            = "layout.title"
	hintTitleKey         = "layout.titleKey"
	hintSubtitle         = "layout.subtitle"
	hintSubtitleKey      = "layout.subtitleKey"
	hintDocumentTitle    = "layout.documentTitle"
	hintDocumentTitleKey = "layout.documentTitleKey"

	hintLabelKey       = "labelKey"
	hintPlaceholderKey = "placeholderKey"
	hintDescriptionKey = "descriptionKey"
)

// LocalizeFormModel translates every `*Key` hint on form in place: layout
// title, subtitle and document title, action labels and field labels,
// placeholders and descriptions. Callers should localise a Clone of any
// cached model.
func LocalizeFormModel(form *model.FormModel, opts RenderOptions) {
	if form == nil {
		return
	}
	tr := translation{locale: opts.Locale, translator: opts.Translator, onMissing: opts.OnMissing}
	if tr.onMissing == nil {
		tr.onMissing = missingTranslationDefault
	}

	if len(form.UIHints) > 0 {
		for _, pair := range [][2]string{
			{hintTitle, hintTitleKey},
			{hintSubtitle, hintSubtitleKey},
			{hintDocumentTitle, hintDocumentTitleKey},
		} {
			if key := strings.TrimSpace(form.UIHints[pair[1]]); key != "" {
				form.UIHints[pair[0]] = tr.translate(key, form.UIHints[pair[0]])
			}
		}
	}

	for i := range form.Actions {
		if key := strings.TrimSpace(form.Actions[i].LabelKey); key != "" {
			form.Actions[i].Label = tr.translate(key, form.Actions[i].Label)
		}
	}
	for i := range form.Fields {
		tr.field(&form.Fields[i])
	}
}

type translation struct {
	locale     string
	translator Translator
	onMissing  MissingTranslationHandler
}

func (tr translation) field(field *model.Field) {
	if key := strings.TrimSpace(field.UIHints[hintLabelKey]); key != "" {
		field.Label = tr.translate(key, field.Label)
	}
	if key := strings.TrimSpace(field.UIHints[hintPlaceholderKey]); key != "" {
		field.Placeholder = tr.translate(key, field.Placeholder)
	}
	if key := strings.TrimSpace(field.UIHints[hintDescriptionKey]); key != "" {
		field.Description = tr.translate(key, field.Description)
	}
	for i := range field.Nested {
		tr.field(&field.Nested[i])
	}
}

func (tr translation) translate(key, fallback string) string {
	if tr.translator == nil {
		return tr.onMissing(tr.locale, key, fallback, ErrMissingTranslator)
	}
	msg, err := tr.translator.Translate(tr.locale, key)
	if err != nil || strings.TrimSpace(msg) == "" {
		return tr.onMissing(tr.locale, key, fallback, err)
	}
	return msg
}

func missingTranslationDefault(_ string, key, fallback string, _ error) string {
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	return key
}
