package render

// RenderOptions carry per-request data renderers use without mutating the
// cached form model.
type RenderOptions struct {
	// Binding supplies field values. Editable bindings render live controls,
	// Fixed bindings render the submitted values read-only.
	Binding Binding
	// Locale selects translations for `*Key` hints and template helpers.
	Locale string
	// Translator resolves translation keys. Nil leaves source strings as-is.
	Translator Translator
	// OnMissing decides what to show when a key cannot be translated.
	OnMissing MissingTranslationHandler
	// Meta is emitted as hidden request metadata next to the form so clients
	// can send it back with a submission.
	Meta map[string]string
	// BaseURL prefixes endpoints emitted into HTML so client scripts reach
	// the API when the page is served behind a path prefix or another host.
	BaseURL string
	// Partial asks HTML renderers for the form body only, without the page
	// shell. Used by the preview pane.
	Partial bool
}
