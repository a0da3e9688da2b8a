package openapi

import "context"

// Parser lists the operations of a Document by operation id.
type Parser interface {
	Operations(ctx context.Context, doc Document) (map[string]Operation, error)
}

type ParserOptions struct {
	// ValidateDocument checks the document against the OpenAPI schema before
	// reading operations.
	ValidateDocument bool
}

type ParserOption func(*ParserOptions)

func WithDocumentValidation(enabled bool) ParserOption {
	return func(opts *ParserOptions) { opts.ValidateDocument = enabled }
}

// NewParserOptions starts from validation enabled.
func NewParserOptions(options ...ParserOption) ParserOptions {
	opts := ParserOptions{ValidateDocument: true}
	for _, opt := range options {
		if opt != nil {
			opt(&opts)
		}
	}
	return opts
}
