package render

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"
)

// ErrRendererNotFound is returned when no renderer has the requested name.
var ErrRendererNotFound = errors.New("render: renderer not found")

// Registry maps output names ("vanilla", "pdf", "tui") to renderers so a
// single view definition can be emitted in any of them.
type Registry struct {
	mu    sync.RWMutex
	byKey map[string]Renderer
}

func NewRegistry() *Registry {
	return &Registry{byKey: make(map[string]Renderer)}
}

// Register stores renderer under its Name. Names must be unique.
func (r *Registry) Register(renderer Renderer) error {
	if renderer == nil || renderer.Name() == "" {
		return errors.New("render: renderer with a name is required")
	}
	name := renderer.Name()

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, dup := r.byKey[name]; dup {
		return fmt.Errorf("render: duplicate renderer %q", name)
	}
	r.byKey[name] = renderer
	return nil
}

// MustRegister is Register for static setup.
func (r *Registry) MustRegister(renderer Renderer) {
	if err := r.Register(renderer); err != nil {
		panic(err)
	}
}

func (r *Registry) Get(name string) (Renderer, error) {
	r.mu.RLock()
	renderer, ok := r.byKey[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrRendererNotFound, name)
	}
	return renderer, nil
}

// List returns the registered names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.byKey))
}

// ContentType reports the MIME type produced by the named renderer.
func (r *Registry) ContentType(name string) (string, error) {
	renderer, err := r.Get(name)
	if err != nil {
		return "", err
	}
	return renderer.ContentType(), nil
}
