package gotemplate

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"maps"
	"reflect"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"

	"github.com/goliatone/go-novaform/pkg/render/template"
)

type Option func(*settings)

type settings struct {
	dir   string
	files fs.FS
	ext   string
	funcs map[string]any
}

// WithDir reads templates from a directory. Files found there shadow the
// ones in WithFS.
func WithDir(dir string) Option {
	return func(s *settings) { s.dir = strings.TrimSpace(dir) }
}

func WithFS(files fs.FS) Option {
	return func(s *settings) { s.files = files }
}

// WithExtension sets the suffix added to names passed without one.
func WithExtension(ext string) Option {
	return func(s *settings) {
		if ext = strings.TrimSpace(ext); ext != "" {
			s.ext = "." + strings.TrimPrefix(ext, ".")
		}
	}
}

// WithTemplateFunc exposes helpers to templates. A pongo2.FilterFunction is
// registered as a filter; other funcs become callable globals.
func WithTemplateFunc(funcs map[string]any) Option {
	return func(s *settings) {
		if s.funcs == nil {
			s.funcs = make(map[string]any, len(funcs))
		}
		maps.Copy(s.funcs, funcs)
	}
}

// Engine is a pongo2 template set with a parse cache.
type Engine struct {
	set *pongo2.TemplateSet
	ext string

	mu     sync.RWMutex
	parsed map[string]*pongo2.Template
}

var _ template.TemplateRenderer = (*Engine)(nil)

// New needs at least one of WithDir or WithFS.
func New(options ...Option) (*Engine, error) {
	s := settings{ext: ".tmpl"}
	for _, opt := range options {
		if opt != nil {
			opt(&s)
		}
	}

	var loaders []pongo2.TemplateLoader
	if s.dir != "" {
		local, err := pongo2.NewLocalFileSystemLoader(s.dir)
		if err != nil {
			return nil, fmt.Errorf("gotemplate: template dir: %w", err)
		}
		loaders = append(loaders, local)
	}
	if s.files != nil {
		loaders = append(loaders, pongo2.NewFSLoader(s.files))
	}
	if len(loaders) == 0 {
		return nil, errors.New("gotemplate: a template dir or fs.FS is required")
	}

	e := &Engine{
		set:    pongo2.NewSet("novaform", loaders...),
		ext:    s.ext,
		parsed: make(map[string]*pongo2.Template),
	}
	e.set.Globals = pongo2.Context{}
	if !pongo2.FilterExists("trim") {
		_ = pongo2.RegisterFilter("trim", func(in, _ *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
			return pongo2.AsValue(strings.TrimSpace(in.String())), nil
		})
	}

	for name, fn := range s.funcs {
		name = strings.TrimSpace(name)
		switch f := fn.(type) {
		case nil:
		case pongo2.FilterFunction:
			if !pongo2.FilterExists(name) {
				if err := pongo2.RegisterFilter(name, f); err != nil {
					return nil, fmt.Errorf("gotemplate: filter %q: %w", name, err)
				}
			}
		default:
			if reflect.ValueOf(fn).Kind() != reflect.Func {
				return nil, fmt.Errorf("gotemplate: helper %q: %T is not a func", name, fn)
			}
			e.set.Globals[name] = fn
		}
	}
	return e, nil
}

// SetGlobals merges data into the values every template can read.
func (e *Engine) SetGlobals(data map[string]any) error {
	converted, err := toContext(data)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.set.Globals.Update(converted)
	e.mu.Unlock()
	return nil
}

// RegisterFilter adds fn as a pongo2 filter. pongo2 keeps filters in a
// process-wide table, so a name can only be taken once.
func (e *Engine) RegisterFilter(name string, fn func(input, param any) (any, error)) error {
	if strings.TrimSpace(name) == "" || fn == nil {
		return errors.New("gotemplate: filter name and function required")
	}
	if pongo2.FilterExists(name) {
		return fmt.Errorf("gotemplate: filter %q already exists", name)
	}
	return pongo2.RegisterFilter(name, func(in, param *pongo2.Value) (*pongo2.Value, *pongo2.Error) {
		var p any
		if param != nil {
			p = param.Interface()
		}
		result, err := fn(in.Interface(), p)
		if err != nil {
			return nil, &pongo2.Error{Sender: "filter:" + name, OrigError: err}
		}
		return pongo2.AsValue(result), nil
	})
}

func (e *Engine) RenderTemplate(name string, data any, out ...io.Writer) (string, error) {
	if !strings.HasSuffix(name, e.ext) {
		name += e.ext
	}
	tmpl, err := e.lookup(name)
	if err != nil {
		return "", err
	}
	return e.exec(tmpl, name, data, out)
}

func (e *Engine) RenderString(source string, data any, out ...io.Writer) (string, error) {
	tmpl, err := e.set.FromString(source)
	if err != nil {
		return "", fmt.Errorf("gotemplate: parse template string: %w", err)
	}
	return e.exec(tmpl, "<string>", data, out)
}

func (e *Engine) lookup(name string) (*pongo2.Template, error) {
	e.mu.RLock()
	tmpl := e.parsed[name]
	e.mu.RUnlock()
	if tmpl != nil {
		return tmpl, nil
	}

	tmpl, err := e.set.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("gotemplate: load template %q: %w", name, err)
	}
	e.mu.Lock()
	e.parsed[name] = tmpl
	e.mu.Unlock()
	return tmpl, nil
}

func (e *Engine) exec(tmpl *pongo2.Template, name string, data any, out []io.Writer) (string, error) {
	ctx, err := toContext(data)
	if err != nil {
		return "", fmt.Errorf("gotemplate: convert data: %w", err)
	}
	var buf bytes.Buffer
	e.mu.RLock()
	err = tmpl.ExecuteWriter(ctx, &buf)
	e.mu.RUnlock()
	if err != nil {
		return "", fmt.Errorf("gotemplate: execute template %q: %w", name, err)
	}
	for _, w := range out {
		if _, err := w.Write(buf.Bytes()); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}
