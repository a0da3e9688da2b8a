package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/goliatone/go-novaform/pkg/demo"
	"github.com/goliatone/go-novaform/pkg/orchestrator"
	"github.com/goliatone/go-novaform/pkg/render"
)

func runRender(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	flags := newFlagSet("render", stderr)
	format := flags.StringP("format", "f", "html", "Output format (html, pdf)")
	output := flags.StringP("output", "o", "", "Output file (stdout if empty)")
	locale := flags.StringP("locale", "l", demo.DefaultLocale, "Locale")
	value := flags.String("test", "", "Value of the test field")
	preset := flags.String("preset", "", "JSON or YAML preset patching fields and hints")
	partial := flags.Bool("partial", false, "html: render only the form element")
	baseURL := flags.String("base-url", "", "html: base URL for API calls")
	if err := flags.Parse(args); err != nil {
		return err
	}

	options, err := presetOptions(*preset)
	if err != nil {
		return err
	}
	view, err := demo.NewView(options...)
	if err != nil {
		return err
	}

	form := demo.DemoForm{Test: *value}
	meta := render.MergeMeta(nil, render.Meta("locale", view.Negotiate(*locale)))

	var opts render.RenderOptions
	var renderer string
	switch *format {
	case "html":
		renderer = demo.RendererHTML
		opts = render.RenderOptions{
			Binding: render.Editable(render.NewFormState(form.Values())),
			Partial: *partial,
			BaseURL: *baseURL,
		}
	case "pdf":
		renderer = demo.RendererPDF
		opts = render.RenderOptions{Binding: render.Fixed(form.Values())}
	default:
		return fmt.Errorf("render: unknown format %q (html, pdf)", *format)
	}
	opts.Locale = *locale
	opts.Meta = meta

	out, err := view.Render(ctx, renderer, opts)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return writeOutput(*output, stdout, out)
}

func presetOptions(path string) ([]demo.ViewOption, error) {
	if path == "" {
		return nil, nil
	}
	preset, err := orchestrator.LoadPreset(os.DirFS(filepath.Dir(path)), filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("load preset: %w", err)
	}
	return []demo.ViewOption{demo.WithTransformer(preset)}, nil
}
