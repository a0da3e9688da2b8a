package demo

import (
	"fmt"
	"maps"
	"strings"
	"time"
)

// OperationID names the demo form's operation in the embedded OpenAPI
// document and UI schema.
const OperationID = "submitDemoForm"

// DemoForm is the data a user fills in.
type DemoForm struct {
	Test string `json:"test"`
}

// Defaults returns a DemoForm with every field at its default.
func Defaults() DemoForm {
	return DemoForm{}
}

// Values converts the record into the value map renderers bind to.
func (f DemoForm) Values() map[string]any {
	return map[string]any{"test": f.Test}
}

// FromValues rebuilds a DemoForm from a renderer value map. Missing or
// non-string values keep their default.
func FromValues(values map[string]any) DemoForm {
	form := Defaults()
	switch v := values["test"].(type) {
	case string:
		form.Test = v
	case nil:
	default:
		form.Test = fmt.Sprint(v)
	}
	return form
}

// MetaData is request and session information sent alongside a submission.
// Locale and base URL are rendering hints; values that do not parse are
// dropped rather than rejected. The rest is opaque to the form.
type MetaData struct {
	Locale      string            `json:"locale,omitempty" validate:"omitempty,bcp47_language_tag"`
	BaseURL     string            `json:"base_url,omitempty" validate:"omitempty,url"`
	UserAgent   string            `json:"user_agent,omitempty"`
	SubmittedAt time.Time         `json:"submitted_at"`
	Extra       map[string]string `json:"extra,omitempty"`
}

// Fields flattens the metadata into the string map carried by
// render.RenderOptions.Meta.
func (m MetaData) Fields() map[string]string {
	out := make(map[string]string, len(m.Extra)+4)
	maps.Copy(out, m.Extra)
	set := func(key, value string) {
		if value = strings.TrimSpace(value); value != "" {
			out[key] = value
		}
	}
	set("locale", m.Locale)
	set("base_url", m.BaseURL)
	set("user_agent", m.UserAgent)
	if !m.SubmittedAt.IsZero() {
		out["submitted_at"] = m.SubmittedAt.UTC().Format(time.RFC3339)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
