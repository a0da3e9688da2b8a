// Package submission receives filled demo forms and renders each one to a
// PDF document.
package submission

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-novaform/pkg/demo"
	"github.com/goliatone/go-novaform/pkg/pdfgen"
	"github.com/goliatone/go-novaform/pkg/render"
)

// Generator renders a bound view to a stored PDF.
type Generator interface {
	RenderForm(ctx context.Context, binding render.Binding, meta map[string]string) (pdfgen.Output, error)
}

// Result describes the rendered document of a successful submission.
// Output is the store location and is meant for logs, not for clients.
type Result struct {
	ID     string
	Key    string
	Output string
	Pages  int
	Size   int64
}

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the logger. Defaults to a disabled logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(h *Handler) {
		h.logger = logger
	}
}

// WithValidator replaces the validator used by Normalize.
func WithValidator(validate *validator.Validate) Option {
	return func(h *Handler) {
		if validate != nil {
			h.validate = validate
		}
	}
}

// WithClock overrides the time stamped on metadata without one.
func WithClock(now func() time.Time) Option {
	return func(h *Handler) {
		if now != nil {
			h.now = now
		}
	}
}

// Handler processes submissions. It keeps no state between calls, so
// identical submissions produce independent documents.
type Handler struct {
	generator Generator
	validate  *validator.Validate
	logger    zerolog.Logger
	now       func() time.Time
}

// NewHandler builds a Handler rendering through generator.
func NewHandler(generator Generator, options ...Option) (*Handler, error) {
	if generator == nil {
		return nil, fmt.Errorf("submission: generator is required")
	}
	h := &Handler{
		generator: generator,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		logger:    zerolog.Nop(),
		now:       time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(h)
		}
	}
	return h, nil
}

// Normalize clears the metadata hints that fail their validate tags so that
// callers fall back to their defaults. It never rejects a submission.
func (h *Handler) Normalize(meta demo.MetaData) demo.MetaData {
	var invalid validator.ValidationErrors
	if !errors.As(h.validate.Struct(meta), &invalid) {
		return meta
	}
	for _, fe := range invalid {
		switch fe.StructField() {
		case "Locale":
			meta.Locale = ""
		case "BaseURL":
			meta.BaseURL = ""
		default:
			continue
		}
		h.logger.Debug().
			Str("field", fe.Field()).
			Str("rule", fe.Tag()).
			Msg("ignoring meta data hint")
	}
	return meta
}

// Submit renders form once, bound to a fixed snapshot of its values. Any
// failure is reported as a *ServerError and the Result is zero.
func (h *Handler) Submit(ctx context.Context, form demo.DemoForm, meta demo.MetaData) (Result, error) {
	meta = h.Normalize(meta)
	if meta.SubmittedAt.IsZero() {
		meta.SubmittedAt = h.now()
	}

	h.logger.Debug().Interface("form_data", form).Msg("form data received")
	h.logger.Debug().Interface("meta_data", meta).Msg("meta data received")

	out, err := h.generator.RenderForm(ctx, render.Fixed(form.Values()), meta.Fields())
	if err != nil {
		return Result{}, h.fail("render", err)
	}

	h.logger.Info().
		Str("id", out.ID).
		Str("output", out.Location).
		Int("pages", out.Pages).
		Int64("size", out.Size).
		Msg("form successfully rendered")

	return Result{
		ID:     out.ID,
		Key:    out.Key,
		Output: out.Location,
		Pages:  out.Pages,
		Size:   out.Size,
	}, nil
}

func (h *Handler) fail(op string, err error) error {
	h.logger.Error().Err(err).Str("op", op).Msg("submission failed")
	return &ServerError{Op: op, Err: err}
}
