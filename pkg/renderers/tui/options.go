package tui

// OutputFormat controls how collected values are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits the values as a JSON object.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatText emits one sorted path=value line per field.
	OutputFormatText OutputFormat = "text"
)

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithConfirmSubmit asks for confirmation after the last field, using the
// localized label of the form's submit action. Declining returns ErrAborted
// with the answers kept in the bound state.
func WithConfirmSubmit(enabled bool) Option {
	return func(r *Renderer) {
		r.confirmSubmit = enabled
	}
}
