// Package storage persists rendered documents. FileStore writes to a local
// directory, S3Store to an S3 compatible bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
)

// ErrNotFound is returned when a key has no stored object.
var ErrNotFound = errors.New("storage: object not found")

// Object describes a stored document.
type Object struct {
	Key         string
	ContentType string
	Size        int64
	// Location is a backend specific address: a file path or an s3:// URL.
	Location string
}

// Store saves and retrieves documents by key.
type Store interface {
	Put(ctx context.Context, key, contentType string, data []byte) (Object, error)
	Open(ctx context.Context, key string) (io.ReadCloser, Object, error)
}

// ValidateKey rejects keys that are empty, absolute or escape the store
// root.
func ValidateKey(key string) error {
	switch {
	case strings.TrimSpace(key) == "":
		return errors.New("storage: key is required")
	case strings.HasPrefix(key, "/") || strings.Contains(key, `\`):
		return fmt.Errorf("storage: invalid key %q", key)
	case path.Clean(key) != key || key == ".." || strings.HasPrefix(key, "../"):
		return fmt.Errorf("storage: invalid key %q", key)
	}
	return nil
}
