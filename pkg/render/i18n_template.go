package render

import (
	"fmt"
	"strings"
)

// TemplateI18nConfig configures template-level translation helpers.
type TemplateI18nConfig struct {
	// FuncName customises the translate helper name (default "translate").
	FuncName string
	// OnMissing controls the string returned when a translation is missing.
	OnMissing MissingTranslationHandler
}

// TemplateI18nFuncs returns helpers for template engines:
//
//	translate(locale, key, ...args) string
//	current_locale(locale) string
//
// locale may be a string or a map carrying a "locale" entry, so templates can
// pass their whole context.
func TemplateI18nFuncs(t Translator, cfg TemplateI18nConfig) map[string]any {
	name := strings.TrimSpace(cfg.FuncName)
	if name == "" {
		name = "translate"
	}
	onMissing := cfg.OnMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}

	return map[string]any{
		name: func(localeSrc any, key string, params ...any) string {
			key = strings.TrimSpace(key)
			if key == "" {
				return ""
			}
			locale := resolveLocale(localeSrc)
			if t == nil {
				return onMissing(locale, key, "", ErrMissingTranslator)
			}
			msg, err := t.Translate(locale, key, params...)
			if err != nil || strings.TrimSpace(msg) == "" {
				return onMissing(locale, key, "", err)
			}
			return msg
		},
		"current_locale": resolveLocale,
	}
}

func resolveLocale(src any) string {
	switch v := src.(type) {
	case nil:
		return ""
	case string:
		return v
	case map[string]string:
		return v["locale"]
	case map[string]any:
		if value, ok := v["locale"]; ok && value != nil {
			return strings.TrimSpace(fmt.Sprint(value))
		}
	}
	return ""
}
