package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-novaform/pkg/model"
)

// Transformer mutates a FormModel before UI schema decorators run.
type Transformer interface {
	Transform(ctx context.Context, form *model.FormModel) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, form *model.FormModel) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, form *model.FormModel) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, form)
}

// Preset is a declarative patch applied to a built form. Presets are written
// in JSON or YAML:
//
//	metadata: {source: kiosk}
//	fields:
//	  test:
//	    placeholder: Type here
//	    default: n/a
//
// Field keys are dotted paths through nested fields. UI schema decorators run
// after presets, so values set there win.
type Preset struct {
	Metadata map[string]string      `json:"metadata" yaml:"metadata"`
	UIHints  map[string]string      `json:"uiHints" yaml:"uiHints"`
	Fields   map[string]FieldPreset `json:"fields" yaml:"fields"`
}

// FieldPreset patches one field. Zero values leave the field untouched.
type FieldPreset struct {
	Label       string            `json:"label" yaml:"label"`
	Description string            `json:"description" yaml:"description"`
	Placeholder string            `json:"placeholder" yaml:"placeholder"`
	Default     any               `json:"default" yaml:"default"`
	Required    *bool             `json:"required" yaml:"required"`
	Metadata    map[string]string `json:"metadata" yaml:"metadata"`
	UIHints     map[string]string `json:"uiHints" yaml:"uiHints"`
}

var _ Transformer = (*Preset)(nil)

// ParsePreset decodes a preset as YAML, or as JSON when strictJSON is set.
// Unknown keys are rejected by both decoders.
func ParsePreset(data []byte, strictJSON bool) (*Preset, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("preset: document is empty")
	}
	var preset Preset
	if err := decodePreset(data, strictJSON, &preset); err != nil {
		return nil, fmt.Errorf("preset: parse document: %w", err)
	}
	return &preset, nil
}

// LoadPreset reads a preset from fsys. Files ending in .json are decoded as
// JSON, anything else as YAML.
func LoadPreset(fsys fs.FS, name string) (*Preset, error) {
	if fsys == nil {
		return nil, errors.New("preset: filesystem is nil")
	}
	if strings.TrimSpace(name) == "" {
		return nil, errors.New("preset: path is required")
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("preset: read %s: %w", name, err)
	}
	return ParsePreset(data, strings.EqualFold(path.Ext(name), ".json"))
}

func decodePreset(data []byte, asJSON bool, out *Preset) error {
	if asJSON {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		return dec.Decode(out)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(out)
}

// Transform applies the preset. Unknown field paths are an error so typos do
// not pass silently.
func (p *Preset) Transform(ctx context.Context, form *model.FormModel) error {
	if form == nil {
		return errors.New("preset: form model is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	form.Metadata = mergeHints(form.Metadata, p.Metadata)
	form.UIHints = mergeHints(form.UIHints, p.UIHints)

	paths := make([]string, 0, len(p.Fields))
	for fieldPath := range p.Fields {
		paths = append(paths, fieldPath)
	}
	sort.Strings(paths)

	for _, fieldPath := range paths {
		field := lookupField(form.Fields, strings.Split(strings.TrimSpace(fieldPath), "."))
		if field == nil {
			return fmt.Errorf("preset: field %q not found", fieldPath)
		}
		p.Fields[fieldPath].apply(field)
	}
	return nil
}

func (fp FieldPreset) apply(field *model.Field) {
	if fp.Label != "" {
		field.Label = fp.Label
	}
	if fp.Description != "" {
		field.Description = fp.Description
	}
	if fp.Placeholder != "" {
		field.Placeholder = fp.Placeholder
	}
	if fp.Default != nil {
		field.Default = fp.Default
	}
	if fp.Required != nil {
		field.Required = *fp.Required
	}
	field.Metadata = mergeHints(field.Metadata, fp.Metadata)
	field.UIHints = mergeHints(field.UIHints, fp.UIHints)
}

func lookupField(fields []model.Field, segments []string) *model.Field {
	if len(segments) == 0 || segments[0] == "" {
		return nil
	}
	for idx := range fields {
		if fields[idx].Name != segments[0] {
			continue
		}
		if len(segments) == 1 {
			return &fields[idx]
		}
		return lookupField(fields[idx].Nested, segments[1:])
	}
	return nil
}

func mergeHints(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
