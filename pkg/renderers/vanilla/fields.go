package vanilla

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/goliatone/go-novaform/pkg/model"
	"github.com/goliatone/go-novaform/pkg/render"
	"github.com/goliatone/go-novaform/pkg/render/template"
	"github.com/goliatone/go-novaform/pkg/renderers/vanilla/components"
)

const (
	fieldTemplate = "templates/field.tmpl"

	// componentConfigKey holds a JSON object handed to the component
	// template as `config`.
	componentConfigKey = "component.config"
)

// componentRenderer renders one form's fields and remembers which
// components were used so the page can link their assets.
type componentRenderer struct {
	templates template.TemplateRenderer
	registry  *components.Registry
	binding   render.Binding
	used      map[string]bool
}

func newComponentRenderer(templates template.TemplateRenderer, registry *components.Registry, binding render.Binding) *componentRenderer {
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}
	return &componentRenderer{templates: templates, registry: registry, binding: binding, used: map[string]bool{}}
}

// render emits field at the dotted path. Controls are named by the full path
// so submitted payloads keep their nesting.
func (r *componentRenderer) render(field model.Field, path string) (string, error) {
	name := componentFor(field)
	descriptor, ok := r.registry.Descriptor(name)
	if !ok {
		return "", fmt.Errorf("component %q not registered for field %q", name, path)
	}

	var config map[string]any
	if raw := strings.TrimSpace(field.Metadata[componentConfigKey]); raw != "" {
		if err := json.Unmarshal([]byte(raw), &config); err != nil {
			return "", fmt.Errorf("parse component config for field %q: %w", path, err)
		}
	}

	value, bound := r.binding.Value(path)
	if !bound {
		value = field.Default
	}

	field.Name = path
	var control bytes.Buffer
	err := descriptor.Renderer(&control, field, components.ComponentData{
		Template: r.templates,
		Config:   config,
		Value:    value,
		ReadOnly: r.binding.ReadOnly(),
		RenderChild: func(child any) (string, error) {
			nested, ok := child.(model.Field)
			if !ok {
				return "", fmt.Errorf("unsupported field type %T", child)
			}
			return r.render(nested, path+"."+nested.Name)
		},
	})
	if err != nil {
		return "", fmt.Errorf("render component %q for field %q: %w", name, path, err)
	}
	r.used[name] = true

	if name == components.NameObject {
		return control.String() + "\n", nil
	}
	return r.templates.RenderTemplate(fieldTemplate, map[string]any{
		"component": name,
		"css_class": userClasses(field.UIHints["cssClass"]),
		"id":        components.ControlID(path),
		"label":     visibleLabel(field),
		"required":  field.Required,
		"control":   strings.TrimSpace(control.String()),
		"help":      strings.TrimSpace(field.Description),
	})
}

func (r *componentRenderer) assets() ([]string, []components.Script) {
	if len(r.used) == 0 {
		return nil, nil
	}
	return r.registry.Assets(slices.Sorted(maps.Keys(r.used)))
}

func componentFor(field model.Field) string {
	if name := strings.TrimSpace(field.UIHints["component"]); name != "" {
		return name
	}
	switch {
	case field.Type == model.FieldTypeObject:
		return components.NameObject
	case field.Type == model.FieldTypeBoolean:
		return components.NameBoolean
	case len(field.Enum) > 0:
		return components.NameSelect
	}
	return components.NameInput
}

func visibleLabel(field model.Field) string {
	if strings.TrimSpace(field.UIHints["hideLabel"]) == "true" {
		return ""
	}
	return strings.TrimSpace(field.Label)
}

// userClasses drops fg- and nf- tokens, which are reserved for the renderer.
func userClasses(value string) string {
	tokens := slices.DeleteFunc(strings.Fields(value), func(token string) bool {
		return strings.HasPrefix(token, "fg-") || strings.HasPrefix(token, "nf-")
	})
	return strings.Join(tokens, " ")
}

func joinURL(base, path string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	path = strings.TrimSpace(path)
	if base == "" || strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}
