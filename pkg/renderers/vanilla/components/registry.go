package components

import (
	"bytes"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/goliatone/go-novaform/pkg/model"
	rendertemplate "github.com/goliatone/go-novaform/pkg/render/template"
)

// Renderer writes the control markup for field into buf.
type Renderer func(buf *bytes.Buffer, field model.Field, data ComponentData) error

// ComponentData is what a component sees of the current render.
type ComponentData struct {
	Template    rendertemplate.TemplateRenderer
	RenderChild func(value any) (string, error)
	Config      map[string]any
	// Value is the bound value, or the field default when the binding has
	// none.
	Value any
	// ReadOnly is set for Fixed bindings.
	ReadOnly bool
}

// Script is an external script a component needs on the page.
type Script struct {
	Src    string
	Defer  bool
	Module bool
}

// Descriptor pairs a component renderer with the page assets it needs.
type Descriptor struct {
	Name        string
	Renderer    Renderer
	Stylesheets []string
	Scripts     []Script
}

func (d Descriptor) clone() Descriptor {
	d.Stylesheets = slices.Clone(d.Stylesheets)
	d.Scripts = slices.Clone(d.Scripts)
	return d
}

// Registry maps component names, case-insensitively, to descriptors.
type Registry struct {
	mu         sync.RWMutex
	components map[string]Descriptor
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{components: make(map[string]Descriptor)}
}

// Register stores descriptor under name, replacing any existing entry.
func (r *Registry) Register(name string, descriptor Descriptor) error {
	key := normalize(name)
	switch {
	case key == "":
		return fmt.Errorf("components: component name is required")
	case descriptor.Renderer == nil:
		return fmt.Errorf("components: renderer for %q is nil", key)
	}

	descriptor.Name = key
	r.mu.Lock()
	r.components[key] = descriptor.clone()
	r.mu.Unlock()
	return nil
}

// MustRegister is Register that panics on error.
func (r *Registry) MustRegister(name string, descriptor Descriptor) {
	if err := r.Register(name, descriptor); err != nil {
		panic(err)
	}
}

// Descriptor returns a copy of the named descriptor.
func (r *Registry) Descriptor(name string) (Descriptor, bool) {
	r.mu.RLock()
	descriptor, ok := r.components[normalize(name)]
	r.mu.RUnlock()
	if !ok {
		return Descriptor{}, false
	}
	return descriptor.clone(), true
}

// Names lists registered components in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.components))
	for name := range r.components {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Assets collects the stylesheets and scripts of the named components,
// keeping first-seen order and dropping duplicates.
func (r *Registry) Assets(names []string) (stylesheets []string, scripts []Script) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	for _, name := range names {
		descriptor, ok := r.components[normalize(name)]
		if !ok {
			continue
		}
		for _, href := range descriptor.Stylesheets {
			if href != "" && !seen["css:"+href] {
				seen["css:"+href] = true
				stylesheets = append(stylesheets, href)
			}
		}
		for _, script := range descriptor.Scripts {
			if script.Src != "" && !seen["js:"+script.Src] {
				seen["js:"+script.Src] = true
				scripts = append(scripts, script)
			}
		}
	}
	return stylesheets, scripts
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
