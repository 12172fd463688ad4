package storage

import (
	"context"
	"errors"
	"io"
)

var (
	ErrFileNotFound = errors.New("file not found")
	ErrFileTooLarge = errors.New("file too large")
	ErrInvalidKey   = errors.New("invalid storage key")
)

// PhotoStore keeps car photos. Keys are slash separated relative paths such
// as "cars/12/3f2a....jpg".
type PhotoStore interface {
	// Save writes the body under key, failing with ErrFileTooLarge when it
	// exceeds maxBytes. A partially written file is removed.
	Save(ctx context.Context, key string, body io.Reader, maxBytes int64) (int64, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	// URL returns the public download address of key.
	URL(key string) string
}
