// Package storage persists uploaded product images.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Store saves uploaded files and returns the public path they are served from.
type Store interface {
	// Save writes the file contents under the given name and returns the
	// public URL path for the stored file.
	Save(ctx context.Context, name string, contents []byte) (string, error)
}

// diskStore implements Store on the local file system.
type diskStore struct {
	dir    string
	logger zerolog.Logger
}

// NewDiskStore creates a local file system store rooted at dir. The directory
// is created if it does not exist.
func NewDiskStore(dir string, logger zerolog.Logger) (Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &diskStore{
		dir:    dir,
		logger: logger.With().Str("component", "disk-store").Logger(),
	}, nil
}

// Save writes the file to the upload directory.
func (s *diskStore) Save(ctx context.Context, name string, contents []byte) (string, error) {
	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		s.logger.Error().Err(err).Str("path", path).Msg("failed to write uploaded file")
		return "", fmt.Errorf("failed to write uploaded file %s: %w", path, err)
	}

	s.logger.Info().
		Str("path", path).
		Int("bytes", len(contents)).
		Msg("uploaded file stored")

	return "/" + filepath.ToSlash(path), nil
}
