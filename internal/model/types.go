package model

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeInteger FieldType = "integer"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeObject  FieldType = "object"
)

const (
	ValidationRuleMinLength = "minLength"
	ValidationRuleMaxLength = "maxLength"
	ValidationRulePattern   = "pattern"
)

// ValidationRule is a single constraint carried from the schema. Length
// limits keep their threshold in Params["value"], patterns the expression in
// Params["pattern"].
type ValidationRule struct {
	Kind   string            `json:"kind"`
	Params map[string]string `json:"params,omitempty"`
}

// Field models one input of a form.
type Field struct {
	Name        string            `json:"name"`
	Type        FieldType         `json:"type"`
	Format      string            `json:"format,omitempty"`
	Required    bool              `json:"required"`
	Label       string            `json:"label,omitempty"`
	Placeholder string            `json:"placeholder,omitempty"`
	Description string            `json:"description,omitempty"`
	Default     any               `json:"default,omitempty"`
	Enum        []any             `json:"enum,omitempty"`
	Nested      []Field           `json:"nested,omitempty"`
	Validations []ValidationRule  `json:"validations,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	UIHints     map[string]string `json:"uiHints,omitempty"`
}

// ActionKind identifies toolbar controls.
type ActionKind string

const (
	ActionLocale  ActionKind = "locale"
	ActionPreview ActionKind = "preview"
	ActionSubmit  ActionKind = "submit"
)

// Action is a toolbar control rendered next to the form.
type Action struct {
	Kind     ActionKind `json:"kind"`
	Label    string     `json:"label,omitempty"`
	LabelKey string     `json:"labelKey,omitempty"`
	Icon     string     `json:"icon,omitempty"`
	Options  []string   `json:"options,omitempty"`
}

// FormModel is the renderer-facing description of a form. Layout chrome such
// as title, subtitle and logo travels in UIHints under the "layout." prefix.
type FormModel struct {
	OperationID string            `json:"operationId"`
	Endpoint    string            `json:"endpoint"`
	Method      string            `json:"method"`
	Summary     string            `json:"summary,omitempty"`
	Description string            `json:"description,omitempty"`
	Fields      []Field           `json:"fields"`
	Actions     []Action          `json:"actions,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	UIHints     map[string]string `json:"uiHints,omitempty"`
}

// Clone deep copies the form so decorators and localisation can run per
// request without touching a cached model.
func (f FormModel) Clone() FormModel {
	out := f
	out.Fields = cloneFields(f.Fields)
	out.Metadata = cloneStrings(f.Metadata)
	out.UIHints = cloneStrings(f.UIHints)
	if len(f.Actions) > 0 {
		out.Actions = make([]Action, len(f.Actions))
		for i, action := range f.Actions {
			action.Options = append([]string(nil), action.Options...)
			out.Actions[i] = action
		}
	}
	return out
}

// FieldByName finds a top level field.
func (f FormModel) FieldByName(name string) (Field, bool) {
	for _, field := range f.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

func cloneFields(in []Field) []Field {
	if in == nil {
		return nil
	}
	out := make([]Field, len(in))
	for i, field := range in {
		field.Nested = cloneFields(field.Nested)
		field.Metadata = cloneStrings(field.Metadata)
		field.UIHints = cloneStrings(field.UIHints)
		if len(field.Enum) > 0 {
			field.Enum = append([]any(nil), field.Enum...)
		}
		if len(field.Validations) > 0 {
			rules := make([]ValidationRule, len(field.Validations))
			for j, rule := range field.Validations {
				rule.Params = cloneStrings(rule.Params)
				rules[j] = rule
			}
			field.Validations = rules
		}
		out[i] = field
	}
	return out
}

func cloneStrings(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
