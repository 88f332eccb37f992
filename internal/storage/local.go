package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalStore keeps photos in a directory on the local filesystem.
type LocalStore struct {
	dir string
}

// NewLocalStore creates dir if needed.
func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: creating uploads directory %s: %w", dir, err)
	}
	return &LocalStore{dir: dir}, nil
}

// Save writes data to dir/filename and returns that path, relative when dir
// is relative (e.g. "uploads/20240601_101500_me.jpg").
func (s *LocalStore) Save(ctx context.Context, filename string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name := cleanName(filename)
	if name == "" {
		return "", fmt.Errorf("storage: invalid photo filename %q", filename)
	}

	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("storage: writing %s: %w", path, err)
	}
	return path, nil
}
