package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-novaform/internal/server"
	"github.com/goliatone/go-novaform/pkg/api"
	"github.com/goliatone/go-novaform/pkg/demo"
	"github.com/goliatone/go-novaform/pkg/pdfgen"
	"github.com/goliatone/go-novaform/pkg/renderers/tui"
	"github.com/goliatone/go-novaform/pkg/storage"
	"github.com/goliatone/go-novaform/pkg/submission"
	"github.com/goliatone/go-novaform/pkg/testsupport"
)

type scriptedDriver struct {
	inputs  []string
	confirm []bool
	asked   []string
}

func (d *scriptedDriver) Input(_ context.Context, cfg tui.InputConfig) (string, error) {
	d.asked = append(d.asked, cfg.Message)
	if len(d.inputs) == 0 {
		return "", errors.New("no input scripted")
	}
	val := d.inputs[0]
	d.inputs = d.inputs[1:]
	return val, nil
}

func (d *scriptedDriver) Password(ctx context.Context, cfg tui.InputConfig) (string, error) {
	return d.Input(ctx, cfg)
}

func (d *scriptedDriver) TextArea(ctx context.Context, cfg tui.TextAreaConfig) (string, error) {
	return d.Input(ctx, tui.InputConfig{Message: cfg.Message, Default: cfg.Default})
}

func (d *scriptedDriver) Confirm(_ context.Context, cfg tui.ConfirmConfig) (bool, error) {
	d.asked = append(d.asked, cfg.Message)
	if len(d.confirm) == 0 {
		return false, errors.New("no confirm scripted")
	}
	val := d.confirm[0]
	d.confirm = d.confirm[1:]
	return val, nil
}

func (d *scriptedDriver) Select(context.Context, tui.SelectConfig) (int, error) {
	return -1, errors.New("no select scripted")
}

func (d *scriptedDriver) Info(context.Context, string) error { return nil }

func useDriver(t *testing.T, driver tui.PromptDriver) {
	t.Helper()
	previous := newPromptDriver
	newPromptDriver = func(io.Writer) tui.PromptDriver { return driver }
	t.Cleanup(func() { newPromptDriver = previous })
}

func TestFill_RendersLocally(t *testing.T) {
	driver := &scriptedDriver{inputs: []string{"hello"}, confirm: []bool{true}}
	useDriver(t, driver)
	dir := t.TempDir()

	out, err := runCLI(t, "fill", "--locale", "de", "-o", dir)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}

	var result submission.Result
	if err := json.Unmarshal([]byte(out), &result); err != nil {
		t.Fatalf("decode result %q: %v", out, err)
	}
	if !pdfgen.ValidID(result.ID) || result.Pages != 1 {
		t.Fatalf("unexpected result %#v", result)
	}
	data, err := os.ReadFile(filepath.Join(dir, result.Key))
	if err != nil {
		t.Fatalf("read rendered pdf: %v", err)
	}
	text := testsupport.PDFText(t, data)
	if !strings.Contains(text, "hello") || !strings.Contains(text, "Testeingabe") {
		t.Fatalf("expected localized label and value in %q", text)
	}
	if len(driver.asked) != 2 || driver.asked[0] != "Testeingabe" || driver.asked[1] != "Absenden?" {
		t.Fatalf("unexpected prompts %q", driver.asked)
	}
}

func TestFill_DeclinedConfirmationWritesNothing(t *testing.T) {
	useDriver(t, &scriptedDriver{inputs: []string{"hello"}, confirm: []bool{false}})
	dir := filepath.Join(t.TempDir(), "renders")

	_, err := runCLI(t, "fill", "--locale", "en", "-o", dir)
	if !errors.Is(err, tui.ErrAborted) {
		t.Fatalf("expected ErrAborted, got %v", err)
	}
	if _, statErr := os.Stat(dir); !os.IsNotExist(statErr) {
		t.Fatalf("no output directory expected, stat = %v", statErr)
	}
}

func TestFill_SubmitsToServer(t *testing.T) {
	view, err := demo.NewView()
	if err != nil {
		t.Fatalf("new view: %v", err)
	}
	store, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	gen, err := pdfgen.New(view, store)
	if err != nil {
		t.Fatalf("new generator: %v", err)
	}
	handler, err := submission.NewHandler(gen)
	if err != nil {
		t.Fatalf("new handler: %v", err)
	}
	srv, err := server.New(view, handler, store)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	useDriver(t, &scriptedDriver{inputs: []string{"remote value"}})
	download := filepath.Join(t.TempDir(), "out", "form.pdf")

	out, err := runCLI(t, "fill", "--yes", "--locale", "en", "--server", ts.URL, "--download", download)
	if err != nil {
		t.Fatalf("fill: %v", err)
	}

	var resp api.SubmitResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode response %q: %v", out, err)
	}
	if !pdfgen.ValidID(resp.ID) || resp.Key != pdfgen.Key(resp.ID) {
		t.Fatalf("unexpected response %#v", resp)
	}

	data, err := os.ReadFile(download)
	if err != nil {
		t.Fatalf("read download: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) || int64(len(data)) != resp.Size {
		t.Fatalf("download does not match the stored render (%d bytes, want %d)", len(data), resp.Size)
	}
	if text := testsupport.PDFText(t, data); !strings.Contains(text, "remote value") {
		t.Fatalf("submitted value missing from %q", text)
	}
}
