package parser

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	pkgopenapi "github.com/goliatone/go-novaform/pkg/openapi"
)

// ExtensionPrefix selects the vendor extensions copied into operations and
// schemas.
const ExtensionPrefix = "x-novaform"

// preferredMediaTypes are tried in order before any other request body type.
var preferredMediaTypes = []string{"application/json", "application/x-www-form-urlencoded"}

// Parser reads operations with kin-openapi.
type Parser struct {
	validate bool
}

var _ pkgopenapi.Parser = (*Parser)(nil)

func New(options pkgopenapi.ParserOptions) *Parser {
	return &Parser{validate: options.ValidateDocument}
}

// Operations keys every operation by its operationId, or by
// "<method>:<path>" when it has none.
func (p *Parser) Operations(ctx context.Context, doc pkgopenapi.Document) (map[string]pkgopenapi.Operation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("openapi parser: document payload is empty")
	}

	spec, err := (&openapi3.Loader{Context: ctx}).LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi parser: load document: %w", err)
	}
	if p.validate {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi parser: validate: %w", err)
		}
	}
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return nil, errors.New("openapi parser: document does not contain any paths")
	}

	out := make(map[string]pkgopenapi.Operation)
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, operation := range item.Operations() {
			if operation == nil {
				continue
			}
			op, err := toOperation(method, path, operation)
			if err != nil {
				return nil, err
			}
			out[op.ID] = op
		}
	}
	if len(out) == 0 {
		return nil, errors.New("openapi parser: no operations extracted")
	}
	return out, ctx.Err()
}

func toOperation(method, path string, src *openapi3.Operation) (pkgopenapi.Operation, error) {
	method = strings.ToUpper(method)
	id := src.OperationID
	if id == "" {
		id = strings.ToLower(method) + ":" + path
	}
	op, err := pkgopenapi.NewOperation(id, method, path, requestBody(src.RequestBody))
	if err != nil {
		return op, fmt.Errorf("openapi parser: %s %s: %w", method, path, err)
	}
	op.Summary = src.Summary
	op.Description = src.Description
	op.Extensions = extensions(src.Extensions)
	return op, nil
}

func requestBody(body *openapi3.RequestBodyRef) pkgopenapi.Schema {
	switch {
	case body == nil:
		return pkgopenapi.Schema{}
	case body.Value == nil:
		return pkgopenapi.Schema{Ref: body.Ref}
	}
	content := body.Value.Content
	for _, mediaType := range preferredMediaTypes {
		if mt := content[mediaType]; mt != nil {
			return schema(mt.Schema)
		}
	}
	for _, mediaType := range slices.Sorted(maps.Keys(content)) {
		if mt := content[mediaType]; mt != nil {
			return schema(mt.Schema)
		}
	}
	return pkgopenapi.Schema{}
}

func schema(ref *openapi3.SchemaRef) pkgopenapi.Schema {
	if ref == nil {
		return pkgopenapi.Schema{}
	}
	src := ref.Value
	if src == nil {
		return pkgopenapi.Schema{Ref: ref.Ref}
	}

	out := pkgopenapi.Schema{
		Ref:         ref.Ref,
		Format:      src.Format,
		Title:       src.Title,
		Description: src.Description,
		Default:     src.Default,
		Pattern:     src.Pattern,
		Required:    slices.Clone(src.Required),
		Enum:        slices.Clone(src.Enum),
		Extensions:  extensions(src.Extensions),
	}
	if src.Type != nil && len(src.Type.Slice()) > 0 {
		out.Type = src.Type.Slice()[0]
	}
	if len(src.Properties) > 0 {
		out.Properties = make(map[string]pkgopenapi.Schema, len(src.Properties))
		for name, property := range src.Properties {
			out.Properties[name] = schema(property)
		}
	}
	if src.Items != nil {
		items := schema(src.Items)
		out.Items = &items
	}
	if src.MinLength > 0 {
		n := int(src.MinLength)
		out.MinLength = &n
	}
	if src.MaxLength != nil {
		n := int(*src.MaxLength)
		out.MaxLength = &n
	}
	return out
}

func extensions(raw map[string]any) map[string]any {
	var out map[string]any
	for key, value := range raw {
		if !strings.HasPrefix(key, ExtensionPrefix) {
			continue
		}
		if out == nil {
			out = make(map[string]any)
		}
		out[key] = value
	}
	return out
}
