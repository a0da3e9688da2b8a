package template

import "io"

// TemplateRenderer executes named templates or inline source. The result is
// returned and also copied to every writer in out.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(source string, data any, out ...io.Writer) (string, error)
}
