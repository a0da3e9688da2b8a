package loader_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-novaform/internal/openapi/loader"
	pkgopenapi "github.com/goliatone/go-novaform/pkg/openapi"
)

const minimalDoc = "openapi: 3.0.3\ninfo: {title: t, version: '1'}\npaths: {}\n"

func TestLoader_LoadFromFS(t *testing.T) {
	files := fstest.MapFS{
		"forms/demo.yaml": &fstest.MapFile{Data: []byte(minimalDoc)},
	}
	l := loader.New(pkgopenapi.NewLoaderOptions(pkgopenapi.WithFileSystem(files)))

	doc, err := l.Load(context.Background(), pkgopenapi.SourceFromFS("forms/demo.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(doc.Raw()) != minimalDoc {
		t.Fatalf("unexpected payload %q", doc.Raw())
	}
	if doc.Location() != "forms/demo.yaml" {
		t.Fatalf("unexpected location %q", doc.Location())
	}
}

func TestLoader_LoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.yaml")
	if err := os.WriteFile(path, []byte(minimalDoc), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	doc, err := loader.New(pkgopenapi.LoaderOptions{}).Load(context.Background(), pkgopenapi.SourceFromFile(path))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Source().Kind() != pkgopenapi.SourceKindFile {
		t.Fatalf("expected file source, got %q", doc.Source().Kind())
	}
}

func TestLoader_Errors(t *testing.T) {
	l := loader.New(pkgopenapi.LoaderOptions{})

	if _, err := l.Load(context.Background(), pkgopenapi.SourceFromFS("demo.yaml")); err == nil ||
		!strings.Contains(err.Error(), "filesystem is not configured") {
		t.Fatalf("expected missing filesystem error, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := l.Load(ctx, pkgopenapi.SourceFromFile("demo.yaml")); err == nil {
		t.Fatalf("expected cancelled context error")
	}
}
