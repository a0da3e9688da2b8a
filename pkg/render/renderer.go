package render

import (
	"context"

	"github.com/goliatone/go-novaform/pkg/model"
)

// Renderer converts a FormModel into bytes (HTML, PDF, terminal output).
// The binding in RenderOptions decides whether controls are live or fixed.
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, form model.FormModel, options RenderOptions) ([]byte, error)
}
