package model

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	pkgopenapi "github.com/goliatone/go-novaform/pkg/openapi"
)

// hintPrefix marks extensions that become UI hints, minus the prefix.
const hintPrefix = "x-novaform-"

// Options configures a Builder.
type Options struct {
	// Labeler derives a label from a property name when the schema has no
	// title. Defaults to DefaultLabeler.
	Labeler func(string) string
}

// Builder turns an operation's request body into a FormModel.
type Builder struct {
	label func(string) string
}

func New(options Options) *Builder {
	label := options.Labeler
	if label == nil {
		label = DefaultLabeler
	}
	return &Builder{label: label}
}

// Build maps the request body properties to fields ordered by name. The
// x-novaform-* extensions of the operation and of each property become UI
// hints on the form and the field.
func (b *Builder) Build(op pkgopenapi.Operation) (FormModel, error) {
	switch {
	case op.ID == "":
		return FormModel{}, errors.New("model builder: operation id is required")
	case op.Path == "":
		return FormModel{}, errors.New("model builder: operation path is required")
	case op.Method == "":
		return FormModel{}, errors.New("model builder: operation method is required")
	}
	if err := op.RequestBody.Validate(); err != nil {
		return FormModel{}, fmt.Errorf("model builder: invalid request body: %w", err)
	}

	fields, err := b.properties(op.RequestBody)
	if err != nil {
		return FormModel{}, err
	}
	form := FormModel{
		OperationID: op.ID,
		Endpoint:    op.Path,
		Method:      strings.ToUpper(op.Method),
		Summary:     op.Summary,
		Description: op.Description,
		Fields:      fields,
		UIHints:     hints(op.Extensions),
	}
	if op.Summary != "" {
		form.Metadata = map[string]string{"summary": op.Summary}
	}
	return form, nil
}

func (b *Builder) properties(object pkgopenapi.Schema) ([]Field, error) {
	fields := make([]Field, 0, len(object.Properties))
	for _, name := range slices.Sorted(maps.Keys(object.Properties)) {
		field, err := b.field(name, object.Properties[name], slices.Contains(object.Required, name))
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return fields, nil
}

func (b *Builder) field(name string, schema pkgopenapi.Schema, required bool) (Field, error) {
	if schema.Type == "array" {
		return Field{}, fmt.Errorf("model builder: field %q: array fields are not supported", name)
	}
	field := Field{
		Name:        name,
		Type:        fieldType(schema),
		Format:      schema.Format,
		Required:    required,
		Label:       schema.Title,
		Description: schema.Description,
		Default:     schema.Default,
		Enum:        slices.Clone(schema.Enum),
		Validations: rules(schema),
		UIHints:     hints(schema.Extensions),
	}
	if field.Label == "" {
		field.Label = b.label(name)
	}
	if schema.Ref != "" {
		field.Metadata = map[string]string{"$ref": schema.Ref}
	}
	if field.Type == FieldTypeObject {
		nested, err := b.properties(schema)
		if err != nil {
			return Field{}, fmt.Errorf("model builder: field %q: %w", name, err)
		}
		field.Nested = nested
	}
	return field, nil
}

func fieldType(schema pkgopenapi.Schema) FieldType {
	switch schema.Type {
	case "integer":
		return FieldTypeInteger
	case "number":
		return FieldTypeNumber
	case "boolean":
		return FieldTypeBoolean
	case "object":
		return FieldTypeObject
	case "":
		if len(schema.Properties) > 0 {
			return FieldTypeObject
		}
	}
	return FieldTypeString
}

func rules(schema pkgopenapi.Schema) []ValidationRule {
	var out []ValidationRule
	if schema.MinLength != nil {
		out = append(out, ValidationRule{Kind: ValidationRuleMinLength, Params: map[string]string{"value": strconv.Itoa(*schema.MinLength)}})
	}
	if schema.MaxLength != nil {
		out = append(out, ValidationRule{Kind: ValidationRuleMaxLength, Params: map[string]string{"value": strconv.Itoa(*schema.MaxLength)}})
	}
	if schema.Pattern != "" {
		out = append(out, ValidationRule{Kind: ValidationRulePattern, Params: map[string]string{"pattern": schema.Pattern}})
	}
	return out
}

func hints(extensions map[string]any) map[string]string {
	var out map[string]string
	for key, value := range extensions {
		name, ok := strings.CutPrefix(key, hintPrefix)
		if !ok || name == "" || value == nil {
			continue
		}
		if out == nil {
			out = make(map[string]string)
		}
		out[name] = fmt.Sprint(value)
	}
	return out
}
