package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goliatone/go-novaform/pkg/pdfgen"
	"github.com/goliatone/go-novaform/pkg/pdftext"
)

func runInspect(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	flags := newFlagSet("inspect", stderr)
	strict := flags.Bool("strict", false, "Run full pdfcpu validation")
	noText := flags.Bool("no-text", false, "Only print the page count")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		return fmt.Errorf("inspect: expected one PDF file, got %d", flags.NArg())
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	path := flags.Arg(0)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("inspect: %w", err)
	}

	pages, err := pdfgen.CountPages(data, *strict)
	if err != nil {
		return fmt.Errorf("inspect %s: %w", path, err)
	}
	fmt.Fprintf(stdout, "pages: %d\n", pages)
	if *noText {
		return nil
	}

	text, err := pdftext.Extract(data)
	if err != nil {
		return fmt.Errorf("inspect %s: %w", path, err)
	}
	fmt.Fprintln(stdout, strings.TrimSpace(text))
	return nil
}
