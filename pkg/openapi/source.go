package openapi

import "path/filepath"

// SourceKind tells a Loader where to read from.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
)

// Source names a document and the place it lives.
type Source interface {
	Kind() SourceKind
	Location() string
}

type source struct {
	kind     SourceKind
	location string
}

func (s source) Kind() SourceKind { return s.kind }
func (s source) Location() string { return s.location }

// SourceFromFile is a document on the local disk.
func SourceFromFile(path string) Source {
	return source{kind: SourceKindFile, location: filepath.Clean(path)}
}

// SourceFromFS is a document inside the loader's fs.FS, usually the form
// definitions compiled into the binary.
func SourceFromFS(name string) Source {
	return source{kind: SourceKindFS, location: name}
}
