package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
)

// FileStore keeps objects as files below a root directory.
type FileStore struct {
	root string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates root if needed.
func NewFileStore(root string) (*FileStore, error) {
	if root == "" {
		return nil, errors.New("storage: root directory is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("storage: create root: %w", err)
	}
	return &FileStore{root: abs}, nil
}

// Root returns the absolute root directory.
func (s *FileStore) Root() string {
	return s.root
}

// Put writes data to a temporary file and renames it into place so readers
// never see a partial document.
func (s *FileStore) Put(ctx context.Context, key, contentType string, data []byte) (Object, error) {
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}
	if err := ValidateKey(key); err != nil {
		return Object{}, err
	}

	target := filepath.Join(s.root, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return Object{}, fmt.Errorf("storage: create dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".upload-*")
	if err != nil {
		return Object{}, fmt.Errorf("storage: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return Object{}, fmt.Errorf("storage: write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return Object{}, fmt.Errorf("storage: close %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), target); err != nil {
		return Object{}, fmt.Errorf("storage: move %s: %w", key, err)
	}

	return Object{
		Key:         key,
		ContentType: contentType,
		Size:        int64(len(data)),
		Location:    target,
	}, nil
}

// Open returns the file for key. The content type is derived from the file
// extension.
func (s *FileStore) Open(ctx context.Context, key string) (io.ReadCloser, Object, error) {
	if err := ctx.Err(); err != nil {
		return nil, Object{}, err
	}
	if err := ValidateKey(key); err != nil {
		return nil, Object{}, err
	}

	target := filepath.Join(s.root, filepath.FromSlash(key))
	file, err := os.Open(target)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, Object{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if err != nil {
		return nil, Object{}, fmt.Errorf("storage: open %s: %w", key, err)
	}
	info, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, Object{}, fmt.Errorf("storage: stat %s: %w", key, err)
	}
	return file, Object{
		Key:         key,
		ContentType: mime.TypeByExtension(filepath.Ext(target)),
		Size:        info.Size(),
		Location:    target,
	}, nil
}
