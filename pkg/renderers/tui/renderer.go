package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-novaform/pkg/model"
	"github.com/goliatone/go-novaform/pkg/render"
)

// Renderer drives a terminal session over a form. It only accepts Editable
// bindings: each answer lands in the bound FormState.
type Renderer struct {
	driver        PromptDriver
	outputFormat  OutputFormat
	confirmSubmit bool
}

var _ render.Renderer = (*Renderer)(nil)

// New returns a renderer using the survey driver and JSON output unless
// options say otherwise.
func New(options ...Option) *Renderer {
	r := &Renderer{outputFormat: OutputFormatJSON}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	return r
}

func (r *Renderer) Name() string { return "tui" }

func (r *Renderer) ContentType() string {
	if r.outputFormat == OutputFormatText {
		return "text/plain"
	}
	return "application/json"
}

// Render walks the fields in order, seeding every prompt with the value
// already bound, and returns the final values in the configured format.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	state, ok := opts.Binding.State()
	if !ok {
		return nil, fmt.Errorf("tui: %s binding: %w", opts.Binding.Mode(), render.ErrUnsupportedBinding)
	}

	localized := form.Clone()
	render.LocalizeFormModel(&localized, opts)

	if title := strings.TrimSpace(localized.UIHints["layout.title"]); title != "" {
		if err := r.driver.Info(ctx, title); err != nil {
			return nil, err
		}
	}

	s := session{driver: r.driver, state: state}
	for _, field := range localized.Fields {
		if err := s.ask(ctx, field, field.Name); err != nil {
			return nil, err
		}
	}

	if r.confirmSubmit {
		ok, err := r.driver.Confirm(ctx, ConfirmConfig{Message: submitLabel(localized), Default: true})
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrAborted
		}
	}

	values := state.Values()
	if r.outputFormat == OutputFormatText {
		var b strings.Builder
		writeText(&b, "", values)
		return []byte(b.String()), nil
	}
	return json.Marshal(values)
}

func submitLabel(form model.FormModel) string {
	for _, action := range form.Actions {
		if action.Kind == model.ActionSubmit && action.Label != "" {
			return action.Label + "?"
		}
	}
	return "Submit?"
}

// session holds the per-render prompt state.
type session struct {
	driver PromptDriver
	state  *render.FormState
}

func (s session) ask(ctx context.Context, field model.Field, path string) error {
	switch {
	case field.Type == model.FieldTypeObject:
		for _, child := range field.Nested {
			if err := s.ask(ctx, child, path+"."+child.Name); err != nil {
				return err
			}
		}
		return nil
	case field.Type == model.FieldTypeBoolean:
		return s.askBool(ctx, field, path)
	case field.Type == model.FieldTypeInteger || field.Type == model.FieldTypeNumber:
		return s.askNumber(ctx, field, path)
	case len(field.Enum) > 0:
		return s.askChoice(ctx, field, path)
	default:
		return s.askText(ctx, field, path)
	}
}

func (s session) invalid(ctx context.Context, field model.Field, reason any) {
	_ = s.driver.Info(ctx, fmt.Sprintf("Invalid %s: %v", label(field), reason))
}

func (s session) askText(ctx context.Context, field model.Field, path string) error {
	check := newConstraints(field)
	current := s.current(path, field.Default)
	def, _ := current.(string)
	secret := field.Format == "password" || strings.EqualFold(field.Metadata["cli.secret"], "true")
	multiline := field.Format == "textarea" || field.UIHints["component"] == "textarea"

	for {
		var (
			answer string
			err    error
		)
		cfg := InputConfig{Message: label(field), Default: def, Help: help(field)}
		switch {
		case secret:
			answer, err = s.driver.Password(ctx, cfg)
		case multiline:
			answer, err = s.driver.TextArea(ctx, TextAreaConfig{Message: cfg.Message, Default: cfg.Default, Help: cfg.Help})
		default:
			answer, err = s.driver.Input(ctx, cfg)
		}
		if err != nil {
			return err
		}
		if strings.TrimSpace(answer) != "" || check.required {
			if err := check.validate(answer); err != nil {
				s.invalid(ctx, field, err)
				continue
			}
		}
		s.state.Set(path, answer)
		return nil
	}
}

func (s session) askBool(ctx context.Context, field model.Field, path string) error {
	def, _ := s.current(path, field.Default).(bool)
	answer, err := s.driver.Confirm(ctx, ConfirmConfig{Message: label(field), Default: def, Help: help(field)})
	if err != nil {
		return err
	}
	s.state.Set(path, answer)
	return nil
}

func (s session) askNumber(ctx context.Context, field model.Field, path string) error {
	integer := field.Type == model.FieldTypeInteger
	def := ""
	if n, ok := toFloat(s.current(path, field.Default)); ok {
		if integer {
			def = strconv.FormatInt(int64(n), 10)
		} else {
			def = strconv.FormatFloat(n, 'f', -1, 64)
		}
	}

	for {
		answer, err := s.driver.Input(ctx, InputConfig{Message: label(field), Default: def, Help: help(field)})
		if err != nil {
			return err
		}
		answer = strings.TrimSpace(answer)
		if answer == "" {
			if field.Required {
				s.invalid(ctx, field, "required")
				continue
			}
			s.state.Set(path, nil)
			return nil
		}
		var n float64
		if integer {
			var i int64
			i, err = strconv.ParseInt(answer, 10, 64)
			n = float64(i)
		} else {
			n, err = strconv.ParseFloat(answer, 64)
		}
		if err != nil {
			s.invalid(ctx, field, err)
			continue
		}
		// float64 matches values decoded from JSON submissions.
		s.state.Set(path, n)
		return nil
	}
}

func (s session) askChoice(ctx context.Context, field model.Field, path string) error {
	options := make([]string, 0, len(field.Enum))
	for _, v := range field.Enum {
		options = append(options, fmt.Sprint(v))
	}
	selected := -1
	if v, ok := s.state.Get(path); ok {
		selected = slices.Index(options, fmt.Sprint(v))
	}

	for {
		idx, err := s.driver.Select(ctx, SelectConfig{
			Message:      label(field),
			Options:      options,
			DefaultIndex: selected,
			Help:         help(field),
		})
		if err != nil {
			return err
		}
		if idx >= 0 && idx < len(options) {
			s.state.Set(path, options[idx])
			return nil
		}
		s.invalid(ctx, field, "selection out of range")
	}
}

func (s session) current(path string, fallback any) any {
	if v, ok := s.state.Get(path); ok && v != nil {
		return v
	}
	return fallback
}

func label(field model.Field) string {
	if field.Label != "" {
		return field.Label
	}
	return field.Name
}

func help(field model.Field) string {
	if h := field.Metadata["cli.help"]; h != "" {
		return h
	}
	return field.Description
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

type constraints struct {
	required bool
	min, max int
	pattern  *regexp.Regexp
}

func newConstraints(field model.Field) constraints {
	c := constraints{required: field.Required, min: -1, max: -1}
	for _, rule := range field.Validations {
		switch rule.Kind {
		case model.ValidationRuleMinLength:
			if n, err := strconv.Atoi(rule.Params["value"]); err == nil {
				c.min = n
			}
		case model.ValidationRuleMaxLength:
			if n, err := strconv.Atoi(rule.Params["value"]); err == nil {
				c.max = n
			}
		case model.ValidationRulePattern:
			if re, err := regexp.Compile(rule.Params["pattern"]); err == nil && rule.Params["pattern"] != "" {
				c.pattern = re
			}
		}
	}
	return c
}

func (c constraints) validate(value string) error {
	length := utf8.RuneCountInString(value)
	switch {
	case c.required && strings.TrimSpace(value) == "":
		return errors.New("required")
	case c.min >= 0 && length < c.min:
		return fmt.Errorf("min length %d", c.min)
	case c.max >= 0 && length > c.max:
		return fmt.Errorf("max length %d", c.max)
	case c.pattern != nil && !c.pattern.MatchString(value):
		return errors.New("does not match required pattern")
	}
	return nil
}

func writeText(b *strings.Builder, prefix string, value any) {
	m, ok := value.(map[string]any)
	if !ok {
		if prefix != "" {
			fmt.Fprintf(b, "%s=%v\n", prefix, value)
		}
		return
	}
	for _, key := range slices.Sorted(maps.Keys(m)) {
		next := key
		if prefix != "" {
			next = prefix + "." + key
		}
		writeText(b, next, m[key])
	}
}
