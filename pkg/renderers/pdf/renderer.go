// Package pdf renders a form model to a PDF document. Only Fixed bindings
// are accepted: a document shows the values that were submitted, never live
// session state.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/goliatone/go-novaform/pkg/model"
	"github.com/goliatone/go-novaform/pkg/render"
)

const (
	defaultPageSize = "A4"
	defaultCreator  = "go-novaform"

	marginMM = 20.0
)

// Option customises the renderer.
type Option func(*Renderer)

// WithPageSize selects a page size understood by fpdf ("A4", "Letter", ...).
func WithPageSize(size string) Option {
	return func(r *Renderer) {
		if size = strings.TrimSpace(size); size != "" {
			r.pageSize = size
		}
	}
}

// WithCreator sets the Creator entry of the document info dictionary.
func WithCreator(creator string) Option {
	return func(r *Renderer) {
		r.creator = strings.TrimSpace(creator)
	}
}

// WithClock overrides the creation date source. Tests use it to produce
// stable output.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) {
		if now != nil {
			r.now = now
		}
	}
}

// WithFonts replaces the Go font family, for instance with faces covering
// CJK scripts.
func WithFonts(fonts FontSet) Option {
	return func(r *Renderer) {
		r.fonts = fonts
	}
}

// WithCompression toggles stream compression (enabled by default).
func WithCompression(enabled bool) Option {
	return func(r *Renderer) {
		r.compress = enabled
	}
}

// Renderer implements render.Renderer on top of fpdf.
type Renderer struct {
	pageSize string
	creator  string
	compress bool
	fonts    FontSet
	now      func() time.Time
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a Renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{
		pageSize: defaultPageSize,
		creator:  defaultCreator,
		compress: true,
		fonts:    GoFonts(),
		now:      time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Renderer) Name() string        { return "pdf" }
func (r *Renderer) ContentType() string { return "application/pdf" }

// Render draws the form chrome followed by one label/value block per field.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if options.Binding.Mode() != render.ModeFixed {
		return nil, fmt.Errorf("pdf renderer: %s binding: %w", options.Binding.Mode(), render.ErrUnsupportedBinding)
	}

	localized := form.Clone()
	render.LocalizeFormModel(&localized, options)

	doc := fpdf.New("P", "mm", r.pageSize, "")
	r.fonts.register(doc)
	w := &writer{doc: doc, binding: options.Binding}
	if markup := strings.TrimSpace(localized.UIHints["layout.logoMarkup"]); markup != "" {
		if data, ratio, err := rasterizeLogo(markup); err == nil {
			doc.RegisterImageOptionsReader(logoName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(data))
			w.logoRatio = ratio
		}
	}

	title := documentTitle(localized)
	doc.SetTitle(printable(title), true)
	doc.SetSubject(printable(localized.Summary), true)
	if r.creator != "" {
		doc.SetCreator(r.creator, true)
		doc.SetProducer(r.creator, true)
	}
	if locale := strings.TrimSpace(options.Locale); locale != "" {
		doc.SetLang(locale)
	}
	doc.SetCreationDate(r.now())
	doc.SetCompression(r.compress)
	doc.SetMargins(marginMM, marginMM, marginMM)
	doc.SetAutoPageBreak(true, marginMM)
	doc.AliasNbPages("")

	doc.SetHeaderFunc(func() { w.header(localized) })
	doc.SetFooterFunc(w.footer)
	doc.AddPage()

	for _, field := range localized.Fields {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		w.field(field, field.Name, 0)
	}
	if len(options.Meta) > 0 {
		w.meta(options.Meta)
	}

	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("pdf renderer: layout: %w", err)
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf renderer: output: %w", err)
	}
	return buf.Bytes(), nil
}

type writer struct {
	doc     *fpdf.Fpdf
	binding render.Binding

	// logoRatio is the logo's width over its height; zero means no logo.
	logoRatio float64
}

func (w *writer) header(form model.FormModel) {
	doc := w.doc
	left, top, right, _ := doc.GetMargins()
	textX, bottom := left, top
	if w.logoRatio > 0 {
		width := logoMM * w.logoRatio
		doc.ImageOptions(logoName, left, top, width, logoMM, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
		textX, bottom = left+width+4, top+logoMM
	}
	if title := strings.TrimSpace(form.UIHints["layout.title"]); title != "" {
		doc.SetX(textX)
		doc.SetFont(fontFamily, "B", 18)
		doc.SetTextColor(31, 41, 51)
		doc.CellFormat(0, 9, printable(title), "", 1, "L", false, 0, "")
	}
	if subtitle := strings.TrimSpace(form.UIHints["layout.subtitle"]); subtitle != "" {
		doc.SetX(textX)
		doc.SetFont(fontFamily, "", 12)
		doc.SetTextColor(82, 96, 109)
		doc.CellFormat(0, 7, printable(subtitle), "", 1, "L", false, 0, "")
	}
	width, _ := doc.GetPageSize()
	y := max(doc.GetY(), bottom) + 2
	doc.SetDrawColor(203, 210, 217)
	doc.Line(left, y, width-right, y)
	doc.SetY(y + 6)
	doc.SetTextColor(31, 41, 51)
}

func (w *writer) footer() {
	doc := w.doc
	doc.SetY(-15)
	doc.SetFont(fontFamily, "", 8)
	doc.SetTextColor(123, 135, 148)
	doc.CellFormat(0, 10, fmt.Sprintf("%d / {nb}", doc.PageNo()), "", 0, "C", false, 0, "")
}

func (w *writer) field(field model.Field, path string, depth int) {
	doc := w.doc
	indent := float64(depth) * 6
	left, _, _, _ := doc.GetMargins()

	label := strings.TrimSpace(field.Label)
	if label == "" {
		label = field.Name
	}

	if field.Type == model.FieldTypeObject && len(field.Nested) > 0 {
		doc.SetX(left + indent)
		doc.SetFont(fontFamily, "B", 12)
		doc.CellFormat(0, 8, printable(label), "", 1, "L", false, 0, "")
		for _, nested := range field.Nested {
			w.field(nested, path+"."+nested.Name, depth+1)
		}
		doc.Ln(2)
		return
	}

	value, ok := w.binding.Value(path)
	if !ok {
		value = field.Default
	}

	doc.SetX(left + indent)
	doc.SetFont(fontFamily, "B", 10)
	doc.CellFormat(0, 6, printable(label), "", 1, "L", false, 0, "")

	doc.SetX(left + indent)
	doc.SetFont(fontFamily, "", 11)
	doc.SetFillColor(240, 242, 245)
	doc.MultiCell(0, 7, printable(formatValue(value)), "", "L", true)

	if desc := strings.TrimSpace(field.Description); desc != "" {
		doc.SetX(left + indent)
		doc.SetFont(fontFamily, "I", 8)
		doc.MultiCell(0, 5, printable(desc), "", "L", false)
	}
	doc.Ln(4)
}

func (w *writer) meta(meta map[string]string) {
	doc := w.doc
	names := make([]string, 0, len(meta))
	for name := range meta {
		names = append(names, name)
	}
	sort.Strings(names)

	doc.Ln(4)
	doc.SetFont(fontFamily, "", 8)
	doc.SetTextColor(123, 135, 148)
	for _, name := range names {
		if strings.TrimSpace(meta[name]) == "" {
			continue
		}
		doc.CellFormat(0, 4, printable(name+": "+meta[name]), "", 1, "L", false, 0, "")
	}
	doc.SetTextColor(31, 41, 51)
}

func documentTitle(form model.FormModel) string {
	for _, key := range []string{"layout.documentTitle", "layout.subtitle", "layout.title"} {
		if value := strings.TrimSpace(form.UIHints[key]); value != "" {
			return value
		}
	}
	if form.Summary != "" {
		return form.Summary
	}
	return form.OperationID
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return " "
	case string:
		if strings.TrimSpace(v) == "" {
			return " "
		}
		return v
	case bool:
		if v {
			return "Yes"
		}
		return "No"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprint(v)
	}
}
