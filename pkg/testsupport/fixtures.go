package testsupport

import (
	"bytes"
	"context"
	"io"
	"testing"

	pkgmodel "github.com/goliatone/go-novaform/pkg/model"
	"github.com/goliatone/go-novaform/pkg/pdftext"
)

// FormModel returns a decorated, localised form model shaped like the demo
// form: one "test" text input, a heading and the full toolbar.
func FormModel() pkgmodel.FormModel {
	return pkgmodel.FormModel{
		OperationID: "submitDemoForm",
		Endpoint:    "/api/submit",
		Method:      "POST",
		UIHints: map[string]string{
			"layout.title":         "Nova Forms",
			"layout.subtitle":      "Demo Form",
			"layout.documentTitle": "Demo Form",
			"layout.logo":          "logo.svg",
		},
		Actions: []pkgmodel.Action{
			{Kind: pkgmodel.ActionLocale, Label: "Language", Options: []string{"de", "en"}},
			{Kind: pkgmodel.ActionPreview, Label: "Preview"},
			{Kind: pkgmodel.ActionSubmit, Label: "Submit"},
		},
		Fields: []pkgmodel.Field{
			{
				Name:    "test",
				Type:    pkgmodel.FieldTypeString,
				Label:   "Test Input",
				Default: "",
				UIHints: map[string]string{"component": "input"},
			},
		},
	}
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput runs render against a buffer and returns both the
// returned string and what was written, so tests can assert they match.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}

// PDFText extracts the plain text of every page of a PDF document.
func PDFText(t *testing.T, data []byte) string {
	t.Helper()

	text, err := pdftext.Extract(data)
	if err != nil {
		t.Fatalf("extract pdf text: %v", err)
	}
	return text
}
