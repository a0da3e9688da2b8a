package uischema

// Store keeps the parsed operations from UI schema documents. It is safe for
// concurrent readers once LoadFS returns.
type Store struct {
	operations map[string]Operation
}

// Operation holds the UI overrides for one form, keyed by operation id.
type Operation struct {
	ID     string
	Source string
	Form   FormConfig
	Fields map[string]FieldConfig
}

// FormConfig describes the wrapper around the form: heading, logo and the
// toolbar.
type FormConfig struct {
	Title            string            `json:"title" yaml:"title"`
	TitleKey         string            `json:"titleKey" yaml:"titleKey"`
	Subtitle         string            `json:"subtitle" yaml:"subtitle"`
	SubtitleKey      string            `json:"subtitleKey" yaml:"subtitleKey"`
	DocumentTitleKey string            `json:"documentTitleKey" yaml:"documentTitleKey"`
	Logo             string            `json:"logo" yaml:"logo"`
	Actions          []ActionConfig    `json:"actions" yaml:"actions"`
	UIHints          map[string]string `json:"uiHints" yaml:"uiHints"`
}

// ActionConfig is a toolbar control.
type ActionConfig struct {
	Kind     string   `json:"kind" yaml:"kind"`
	Label    string   `json:"label" yaml:"label"`
	LabelKey string   `json:"labelKey,omitempty" yaml:"labelKey,omitempty"`
	Icon     string   `json:"icon,omitempty" yaml:"icon,omitempty"`
	Options  []string `json:"options,omitempty" yaml:"options,omitempty"`
}

// FieldConfig customises a single field.
type FieldConfig struct {
	Order          *int              `json:"order,omitempty" yaml:"order,omitempty"`
	Label          string            `json:"label,omitempty" yaml:"label,omitempty"`
	LabelKey       string            `json:"labelKey,omitempty" yaml:"labelKey,omitempty"`
	Placeholder    string            `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	PlaceholderKey string            `json:"placeholderKey,omitempty" yaml:"placeholderKey,omitempty"`
	Description    string            `json:"description,omitempty" yaml:"description,omitempty"`
	Component      string            `json:"component,omitempty" yaml:"component,omitempty"`
	UIHints        map[string]string `json:"uiHints,omitempty" yaml:"uiHints,omitempty"`
}
