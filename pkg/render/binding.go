package render

import (
	"errors"
	"strings"
	"sync"
)

// ErrUnsupportedBinding is returned by renderers that cannot serve the mode
// of the binding they were handed, such as a PDF renderer given live state.
var ErrUnsupportedBinding = errors.New("render: unsupported binding mode")

// Mode tells renderers whether bound values may still change.
type Mode int

const (
	// ModeNone is the zero binding: controls fall back to field defaults.
	ModeNone Mode = iota
	// ModeEditable binds controls to live session state.
	ModeEditable
	// ModeFixed binds controls to an immutable snapshot of submitted values.
	ModeFixed
)

func (m Mode) String() string {
	switch m {
	case ModeEditable:
		return "editable"
	case ModeFixed:
		return "fixed"
	default:
		return "none"
	}
}

// Binding is the rendering context handed down the render call chain. It is
// either Editable, wrapping a *FormState, or Fixed, owning a private copy of
// the values it was created from.
type Binding struct {
	mode     Mode
	state    *FormState
	snapshot map[string]any
}

// Editable binds a view to live state. A nil state yields the zero binding.
func Editable(state *FormState) Binding {
	if state == nil {
		return Binding{}
	}
	return Binding{mode: ModeEditable, state: state}
}

// Fixed binds a view to a deep copy of values. Later changes to values, or to
// the state they were read from, are not observed.
func Fixed(values map[string]any) Binding {
	return Binding{mode: ModeFixed, snapshot: cloneValues(values)}
}

// Mode reports the binding variant.
func (b Binding) Mode() Mode { return b.mode }

// ReadOnly reports whether controls must render without editing affordances.
func (b Binding) ReadOnly() bool { return b.mode == ModeFixed }

// State returns the live state of an Editable binding.
func (b Binding) State() (*FormState, bool) {
	return b.state, b.mode == ModeEditable && b.state != nil
}

// Value resolves a dotted field path against the bound data.
func (b Binding) Value(path string) (any, bool) {
	switch b.mode {
	case ModeEditable:
		return b.state.Get(path)
	case ModeFixed:
		return lookup(b.snapshot, path)
	default:
		return nil, false
	}
}

// Values returns a copy of all bound values.
func (b Binding) Values() map[string]any {
	switch b.mode {
	case ModeEditable:
		return b.state.Values()
	case ModeFixed:
		return cloneValues(b.snapshot)
	default:
		return nil
	}
}

// FormState is the mutable value store behind an interactive session. It is
// safe for concurrent use.
type FormState struct {
	mu      sync.RWMutex
	values  map[string]any
	version uint64
}

// NewFormState seeds a state with a copy of initial.
func NewFormState(initial map[string]any) *FormState {
	values := cloneValues(initial)
	if values == nil {
		values = make(map[string]any)
	}
	return &FormState{values: values}
}

// Get resolves a dotted path.
func (s *FormState) Get(path string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := lookup(s.values, path)
	if !ok {
		return nil, false
	}
	return cloneValue(value), true
}

// Set assigns value at a dotted path, creating intermediate maps.
func (s *FormState) Set(path string, value any) {
	segments := strings.Split(strings.TrimSpace(path), ".")
	if len(segments) == 0 || segments[0] == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.values
	for _, segment := range segments[:len(segments)-1] {
		next, ok := current[segment].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[segment] = next
		}
		current = next
	}
	current[segments[len(segments)-1]] = cloneValue(value)
	s.version++
}

// Values returns a deep copy of the current values.
func (s *FormState) Values() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneValues(s.values)
}

// Version increments on every Set.
func (s *FormState) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// Snapshot freezes the current values into a Fixed binding.
func (s *FormState) Snapshot() Binding {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Binding{mode: ModeFixed, snapshot: cloneValues(s.values)}
}

func lookup(values map[string]any, path string) (any, bool) {
	path = strings.TrimSpace(path)
	if values == nil || path == "" {
		return nil, false
	}
	var current any = values
	for _, segment := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}

func cloneValues(in map[string]any) map[string]any {
	if in == nil {
		return nil
	}
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return cloneValues(v)
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	case []string:
		return append([]string(nil), v...)
	case map[string]string:
		out := make(map[string]string, len(v))
		for k, s := range v {
			out[k] = s
		}
		return out
	default:
		return v
	}
}
