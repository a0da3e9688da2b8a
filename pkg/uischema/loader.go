package uischema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

type schemaFile struct {
	Operations map[string]struct {
		Form   FormConfig             `json:"form" yaml:"form"`
		Fields map[string]FieldConfig `json:"fields" yaml:"fields"`
	} `json:"operations" yaml:"operations"`
}

// LoadFS reads every .json, .yaml and .yml file under fsys. An operation id
// may appear in one file only. A nil fsys gives an empty store.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{operations: map[string]Operation{}}
	if fsys == nil {
		return store, nil
	}

	// WalkDir visits entries in lexical order, so error messages are stable.
	err := fs.WalkDir(fsys, ".", func(name string, entry fs.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return err
		}
		decode := decoderFor(name)
		if decode == nil {
			return nil
		}
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("uischema: read %s: %w", name, err)
		}
		if len(bytes.TrimSpace(data)) == 0 {
			return fmt.Errorf("uischema: file %s is empty", name)
		}
		var file schemaFile
		if err := decode(data, &file); err != nil {
			return fmt.Errorf("uischema: parse %s: %w", name, err)
		}
		return store.add(name, file)
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

func decoderFor(name string) func([]byte, any) error {
	switch strings.ToLower(path.Ext(name)) {
	case ".json":
		return json.Unmarshal
	case ".yaml", ".yml":
		return yaml.Unmarshal
	}
	return nil
}

func (s *Store) add(source string, file schemaFile) error {
	for rawID, op := range file.Operations {
		id := strings.TrimSpace(rawID)
		if id == "" {
			return fmt.Errorf("uischema: file %s defines an empty operation id", source)
		}
		if prev, dup := s.operations[id]; dup {
			return fmt.Errorf("uischema: duplicate operation %q in %s and %s", id, prev.Source, source)
		}
		s.operations[id] = Operation{ID: id, Source: source, Form: op.Form, Fields: op.Fields}
	}
	return nil
}

// Operation looks up the overrides for an operation id.
func (s *Store) Operation(id string) (Operation, bool) {
	if s == nil {
		return Operation{}, false
	}
	op, ok := s.operations[id]
	return op, ok
}

func (s *Store) Empty() bool {
	return s == nil || len(s.operations) == 0
}
