package openapi

import "errors"

// Operation is what a form needs from an OpenAPI operation: where it submits
// and the request body that becomes its fields.
type Operation struct {
	ID          string
	Method      string
	Path        string
	Summary     string
	Description string
	RequestBody Schema
	// Extensions holds the x-novaform-* keys of the operation.
	Extensions map[string]any
}

func NewOperation(id, method, path string, request Schema) (Operation, error) {
	switch "" {
	case id:
		return Operation{}, errors.New("openapi: operation id is required")
	case method:
		return Operation{}, errors.New("openapi: operation method is required")
	case path:
		return Operation{}, errors.New("openapi: operation path is required")
	}
	return Operation{ID: id, Method: method, Path: path, RequestBody: request}, nil
}

func MustNewOperation(id, method, path string, request Schema) Operation {
	op, err := NewOperation(id, method, path, request)
	if err != nil {
		panic(err)
	}
	return op
}

// Schema is the part of a JSON schema the form builder reads.
type Schema struct {
	Ref         string
	Type        string
	Format      string
	Title       string
	Description string
	Default     any
	Enum        []any
	Required    []string
	Properties  map[string]Schema
	Items       *Schema
	MinLength   *int
	MaxLength   *int
	Pattern     string
	Extensions  map[string]any
}

// Validate rejects schemas the builder cannot turn into fields.
func (s Schema) Validate() error {
	if s.Type == "" && s.Ref == "" && len(s.Properties) == 0 {
		return errors.New("openapi: schema requires a type, ref or properties")
	}
	if s.Type == "array" && s.Items == nil {
		return errors.New("openapi: array schema must define items")
	}
	return nil
}
