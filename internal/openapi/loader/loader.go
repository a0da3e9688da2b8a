package loader

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	pkgopenapi "github.com/goliatone/go-novaform/pkg/openapi"
)

// Loader reads documents from the OS or from a configured fs.FS.
type Loader struct {
	files fs.FS
}

var _ pkgopenapi.Loader = (*Loader)(nil)

func New(options pkgopenapi.LoaderOptions) *Loader {
	return &Loader{files: options.FileSystem}
}

func (l *Loader) Load(ctx context.Context, src pkgopenapi.Source) (pkgopenapi.Document, error) {
	if src == nil {
		return pkgopenapi.Document{}, errors.New("openapi loader: source is nil")
	}
	if err := ctx.Err(); err != nil {
		return pkgopenapi.Document{}, err
	}

	name := src.Location()
	var read func() ([]byte, error)
	switch src.Kind() {
	case pkgopenapi.SourceKindFile:
		if name == "" || name == "." {
			return pkgopenapi.Document{}, errors.New("openapi loader: file path is required")
		}
		read = func() ([]byte, error) { return os.ReadFile(name) }
	case pkgopenapi.SourceKindFS:
		if l.files == nil {
			return pkgopenapi.Document{}, errors.New("openapi loader: filesystem is not configured")
		}
		if name == "" {
			return pkgopenapi.Document{}, errors.New("openapi loader: fs path is required")
		}
		read = func() ([]byte, error) { return fs.ReadFile(l.files, name) }
	default:
		return pkgopenapi.Document{}, fmt.Errorf("openapi loader: unsupported source kind %q", src.Kind())
	}

	data, err := read()
	if err != nil {
		return pkgopenapi.Document{}, fmt.Errorf("openapi loader: read %q: %w", name, err)
	}
	return pkgopenapi.NewDocument(src, data)
}
