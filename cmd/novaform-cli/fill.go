package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/AlecAivazis/survey/v2"

	"github.com/goliatone/go-novaform/internal/logging"
	"github.com/goliatone/go-novaform/pkg/client"
	"github.com/goliatone/go-novaform/pkg/demo"
	"github.com/goliatone/go-novaform/pkg/pdfgen"
	"github.com/goliatone/go-novaform/pkg/render"
	"github.com/goliatone/go-novaform/pkg/renderers/tui"
	"github.com/goliatone/go-novaform/pkg/storage"
	"github.com/goliatone/go-novaform/pkg/submission"
)

const userAgent = "novaform-cli"

// newPromptDriver builds the driver fill prompts through. Prompts go to
// stderr so stdout carries only the JSON result.
var newPromptDriver = func(stderr io.Writer) tui.PromptDriver {
	return tui.NewSurveyDriver(stderr, survey.WithStdio(os.Stdin, os.Stderr, os.Stderr))
}

func runFill(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	flags := newFlagSet("fill", stderr)
	serverURL := flags.StringP("server", "s", "", "Submit to a running server instead of rendering locally")
	outputDir := flags.StringP("output-dir", "o", "renders", "Directory for locally rendered PDFs")
	download := flags.String("download", "", "With --server: save the rendered PDF to this file")
	locale := flags.StringP("locale", "l", "", "Locale (defaults to $LANG)")
	logLevel := flags.String("log-level", "warn", "Log level")
	yes := flags.BoolP("yes", "y", false, "Skip the submit confirmation")
	if err := flags.Parse(args); err != nil {
		return err
	}

	view, err := demo.NewView(demo.WithTUIOptions(
		tui.WithPromptDriver(newPromptDriver(stderr)),
		tui.WithConfirmSubmit(!*yes),
	))
	if err != nil {
		return err
	}
	resolved := view.Negotiate(*locale, envLocale())

	state := render.NewFormState(demo.Defaults().Values())
	if _, err := view.Render(ctx, demo.RendererTUI, render.RenderOptions{
		Binding: render.Editable(state),
		Locale:  resolved,
	}); err != nil {
		return fmt.Errorf("fill: %w", err)
	}

	form := demo.FromValues(state.Values())
	meta := demo.MetaData{Locale: resolved, UserAgent: userAgent, SubmittedAt: time.Now().UTC()}

	if *serverURL != "" {
		return submitRemote(ctx, *serverURL, *download, form, meta, stdout)
	}

	store, err := storage.NewFileStore(*outputDir)
	if err != nil {
		return err
	}
	generator, err := pdfgen.New(view, store)
	if err != nil {
		return err
	}
	handler, err := submission.NewHandler(generator, submission.WithLogger(logging.NewWithWriter(stderr, *logLevel)))
	if err != nil {
		return err
	}
	result, err := handler.Submit(ctx, form, meta)
	if err != nil {
		return err
	}
	return printJSON(stdout, result)
}

func submitRemote(ctx context.Context, serverURL, download string, form demo.DemoForm, meta demo.MetaData, stdout io.Writer) error {
	c, err := client.New(serverURL)
	if err != nil {
		return err
	}
	resp, err := c.Submit(ctx, form, meta)
	if err != nil {
		return err
	}
	if download != "" {
		if err := downloadTo(ctx, c, resp.ID, download); err != nil {
			return err
		}
	}
	return printJSON(stdout, resp)
}

func downloadTo(ctx context.Context, c *client.Client, id, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if _, err := c.Download(ctx, id, file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// envLocale turns a POSIX locale such as de_DE.UTF-8 into a language tag.
func envLocale() string {
	lang, _, _ := strings.Cut(os.Getenv("LANG"), ".")
	return strings.ReplaceAll(lang, "_", "-")
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
