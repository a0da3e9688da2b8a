package uischema

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	pkgmodel "github.com/goliatone/go-novaform/pkg/model"
)

const (
	hintTitle            = "layout.title"
	hintTitleKey         = "layout.titleKey"
	hintSubtitle         = "layout.subtitle"
	hintSubtitleKey      = "layout.subtitleKey"
	hintDocumentTitleKey = "layout.documentTitleKey"
	hintLogo             = "layout.logo"
	hintLogoMarkup       = "layout.logoMarkup"

	hintComponent      = "component"
	hintLabelKey       = "labelKey"
	hintPlaceholderKey = "placeholderKey"
	hintOrder          = "order"
)

// DecoratorOption configures a Decorator.
type DecoratorOption func(*Decorator)

// WithAssets lets the decorator inline SVG logos referenced by the UI schema.
// The markup is sanitised before it reaches the form model.
func WithAssets(assets fs.FS) DecoratorOption {
	return func(d *Decorator) {
		d.assets = assets
	}
}

// Decorator applies UI schema configuration to a form model.
type Decorator struct {
	store  *Store
	assets fs.FS
}

// NewDecorator builds a Decorator backed by store. A nil or empty store makes
// the decorator a no-op.
func NewDecorator(store *Store, options ...DecoratorOption) *Decorator {
	d := &Decorator{store: store}
	for _, opt := range options {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Decorate augments form with the matching operation's configuration. Forms
// without a matching operation are left untouched.
func (d *Decorator) Decorate(form *pkgmodel.FormModel) error {
	if d == nil || d.store.Empty() || form == nil {
		return nil
	}
	op, ok := d.store.Operation(form.OperationID)
	if !ok {
		return nil
	}
	if err := d.applyForm(form, op); err != nil {
		return err
	}
	return applyFields(form, op)
}

func (d *Decorator) applyForm(form *pkgmodel.FormModel, op Operation) error {
	cfg := op.Form
	for key, value := range cfg.UIHints {
		setHint(&form.UIHints, key, value)
	}
	setHint(&form.UIHints, hintTitle, cfg.Title)
	setHint(&form.UIHints, hintTitleKey, cfg.TitleKey)
	setHint(&form.UIHints, hintSubtitle, cfg.Subtitle)
	setHint(&form.UIHints, hintSubtitleKey, cfg.SubtitleKey)
	setHint(&form.UIHints, hintDocumentTitleKey, cfg.DocumentTitleKey)
	setHint(&form.UIHints, hintLogo, cfg.Logo)

	if markup, err := d.logoMarkup(cfg.Logo); err != nil {
		return fmt.Errorf("uischema: operation %q (file %s): %w", op.ID, op.Source, err)
	} else if markup != "" {
		setHint(&form.UIHints, hintLogoMarkup, markup)
	}

	if len(cfg.Actions) == 0 {
		return nil
	}
	actions := make([]pkgmodel.Action, 0, len(cfg.Actions))
	for i, action := range cfg.Actions {
		kind := pkgmodel.ActionKind(strings.TrimSpace(action.Kind))
		switch kind {
		case pkgmodel.ActionLocale, pkgmodel.ActionPreview, pkgmodel.ActionSubmit:
		default:
			return fmt.Errorf("uischema: operation %q (file %s) action %d has unknown kind %q", op.ID, op.Source, i, action.Kind)
		}
		actions = append(actions, pkgmodel.Action{
			Kind:     kind,
			Label:    action.Label,
			LabelKey: action.LabelKey,
			Icon:     sanitizeIconMarkup(action.Icon),
			Options:  append([]string(nil), action.Options...),
		})
	}
	form.Actions = actions
	return nil
}

func (d *Decorator) logoMarkup(logo string) (string, error) {
	logo = strings.TrimSpace(logo)
	if d.assets == nil || logo == "" || !strings.EqualFold(path.Ext(logo), ".svg") {
		return "", nil
	}
	data, err := fs.ReadFile(d.assets, strings.TrimPrefix(logo, "/"))
	if err != nil {
		return "", fmt.Errorf("read logo %q: %w", logo, err)
	}
	return sanitizeIconMarkup(string(data)), nil
}

func applyFields(form *pkgmodel.FormModel, op Operation) error {
	known := make(map[string]int, len(form.Fields))
	for i, field := range form.Fields {
		known[field.Name] = i
	}

	for name, cfg := range op.Fields {
		idx, ok := known[name]
		if !ok {
			return fmt.Errorf("uischema: operation %q (file %s) configures unknown field %q", op.ID, op.Source, name)
		}
		field := &form.Fields[idx]
		if cfg.Label != "" {
			field.Label = cfg.Label
		}
		if cfg.Placeholder != "" {
			field.Placeholder = cfg.Placeholder
		}
		if cfg.Description != "" {
			field.Description = cfg.Description
		}
		for key, value := range cfg.UIHints {
			setHint(&field.UIHints, key, value)
		}
		setHint(&field.UIHints, hintComponent, cfg.Component)
		setHint(&field.UIHints, hintLabelKey, cfg.LabelKey)
		setHint(&field.UIHints, hintPlaceholderKey, cfg.PlaceholderKey)
		if cfg.Order != nil {
			setHint(&field.UIHints, hintOrder, fmt.Sprint(*cfg.Order))
		}
	}

	orderOf := func(field pkgmodel.Field) *int {
		if cfg, ok := op.Fields[field.Name]; ok {
			return cfg.Order
		}
		return nil
	}
	sort.SliceStable(form.Fields, func(i, j int) bool {
		a, b := orderOf(form.Fields[i]), orderOf(form.Fields[j])
		switch {
		case a != nil && b != nil:
			return *a < *b
		case a != nil:
			return true
		default:
			return false
		}
	})
	return nil
}

func setHint(target *map[string]string, key, value string) {
	value = strings.TrimSpace(value)
	if key == "" || value == "" {
		return
	}
	if *target == nil {
		*target = make(map[string]string)
	}
	(*target)[key] = value
}
