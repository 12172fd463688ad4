package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"carrent-backend/internal/logger"
)

// LocalStore implements PhotoStore on the local filesystem and serves the
// files back through the API's photo route.
type LocalStore struct {
	baseURL   string // Public URL prefix, e.g. "http://localhost:8080/api/v1/photos"
	photosDir string
}

func NewLocalStore(baseURL, uploadsDir string) (*LocalStore, error) {
	photosDir := filepath.Join(uploadsDir, "photos")
	if err := os.MkdirAll(photosDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create photos directory: %w", err)
	}
	return &LocalStore{
		baseURL:   strings.TrimRight(baseURL, "/"),
		photosDir: photosDir,
	}, nil
}

// resolve maps a key to a path inside photosDir, refusing keys that would
// escape it.
func (s *LocalStore) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	if key == "" || clean == "/" || strings.Contains(key, "\\") || strings.Contains(key, "..") {
		return "", ErrInvalidKey
	}
	return filepath.Join(s.photosDir, filepath.FromSlash(clean[1:])), nil
}

func (s *LocalStore) Save(ctx context.Context, key string, body io.Reader, maxBytes int64) (int64, error) {
	fullPath, err := s.resolve(key)
	if err != nil {
		return 0, err
	}
	logger.ExternalServiceCall("local-storage", "save", "key", key)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return 0, fmt.Errorf("failed to create directories: %w", err)
	}
	file, err := os.Create(fullPath)
	if err != nil {
		return 0, fmt.Errorf("failed to create file: %w", err)
	}

	// Read one byte past the limit to detect oversized bodies.
	n, err := io.Copy(file, io.LimitReader(body, maxBytes+1))
	closeErr := file.Close()
	if err == nil && n > maxBytes {
		err = ErrFileTooLarge
	}
	if err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(fullPath)
		logger.ExternalServiceResult("local-storage", "save", err, "key", key)
		if errors.Is(err, ErrFileTooLarge) {
			return 0, err
		}
		return 0, fmt.Errorf("failed to write file: %w", err)
	}
	logger.ExternalServiceResult("local-storage", "save", nil, "key", key, "bytes", n)
	return n, nil
}

func (s *LocalStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	fullPath, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

func (s *LocalStore) Delete(ctx context.Context, key string) error {
	fullPath, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (s *LocalStore) URL(key string) string {
	return s.baseURL + "/" + key
}

// ContentTypeFor guesses the image MIME type from the key's extension.
func ContentTypeFor(key string) string {
	switch strings.ToLower(filepath.Ext(key)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	}
	return "application/octet-stream"
}

// ExtensionFor is the inverse of ContentTypeFor.
func ExtensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	}
	return ""
}
