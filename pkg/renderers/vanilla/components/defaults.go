package components

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-novaform/pkg/model"
)

// NewDefaultRegistry returns the built-in input, textarea, select, boolean
// and object components, each backed by templates/components/<name>.tmpl.
func NewDefaultRegistry() *Registry {
	registry := New()
	for _, name := range []string{NameInput, NameTextarea, NameSelect, NameBoolean} {
		registry.MustRegister(name, Descriptor{Renderer: fromTemplate(name, nil)})
	}
	registry.MustRegister(NameObject, Descriptor{Renderer: fromTemplate(NameObject, renderChildren)})
	return registry
}

// extraFunc adds component specific values to the template payload.
type extraFunc func(field model.Field, data ComponentData, payload map[string]any) error

func fromTemplate(name string, extra extraFunc) Renderer {
	path := "templates/components/" + name + ".tmpl"
	return func(buf *bytes.Buffer, field model.Field, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: no template engine for %q", name)
		}
		value := FormatValue(data.Value)
		payload := map[string]any{
			"field":     field,
			"config":    data.Config,
			"id":        ControlID(field.Name),
			"value":     value,
			"checked":   truthy(data.Value),
			"readonly":  data.ReadOnly,
			"inputType": inputType(field),
			"options":   enumOptions(field.Enum, value),
		}
		if extra != nil {
			if err := extra(field, data, payload); err != nil {
				return err
			}
		}
		if _, err := data.Template.RenderTemplate(path, payload, buf); err != nil {
			return fmt.Errorf("components: render template %q: %w", path, err)
		}
		return nil
	}
}

func renderChildren(field model.Field, data ComponentData, payload map[string]any) error {
	if data.RenderChild == nil {
		return nil
	}
	var children strings.Builder
	for _, nested := range field.Nested {
		markup, err := data.RenderChild(nested)
		if err != nil {
			return err
		}
		children.WriteString(markup)
	}
	payload["children"] = children.String()
	return nil
}

// ControlID is the DOM id for a dotted field path.
func ControlID(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	return "fg-" + strings.ReplaceAll(name, ".", "-")
}

// FormatValue is the string placed in a control for a bound value.
func FormatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	}
	return fmt.Sprint(value)
}

func truthy(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		ok, _ := strconv.ParseBool(strings.TrimSpace(v))
		return ok
	}
	return false
}

func inputType(field model.Field) string {
	if field.Type == model.FieldTypeInteger || field.Type == model.FieldTypeNumber {
		return "number"
	}
	switch format := strings.ToLower(field.Format); format {
	case "email", "date":
		return format
	case "uri", "url":
		return "url"
	}
	return "text"
}

func enumOptions(enum []any, current string) []map[string]any {
	if len(enum) == 0 {
		return nil
	}
	out := make([]map[string]any, len(enum))
	for i, item := range enum {
		value := FormatValue(item)
		out[i] = map[string]any{"value": value, "selected": value == current}
	}
	return out
}
