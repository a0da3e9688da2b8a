package model

import (
	"github.com/goliatone/go-novaform/internal/model"
	pkgopenapi "github.com/goliatone/go-novaform/pkg/openapi"
)

// Builder produces a FormModel from an operation.
type Builder interface {
	Build(op pkgopenapi.Operation) (FormModel, error)
}

type BuilderOption func(*model.Options)

// WithLabeler replaces the name-to-label function used for properties
// without a title.
func WithLabeler(labeler func(string) string) BuilderOption {
	return func(opts *model.Options) { opts.Labeler = labeler }
}

func NewBuilder(options ...BuilderOption) Builder {
	var opts model.Options
	for _, opt := range options {
		if opt != nil {
			opt(&opts)
		}
	}
	return model.New(opts)
}
