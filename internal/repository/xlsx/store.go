// Package xlsx implements repository.HelperRepository on a single
// spreadsheet file.
//
// Every Append reads the whole table, adds one row and writes the whole
// table back. That is fine for the few hundred rows this registry holds.
// The new file is written next to the old one and renamed over it, so a
// crash mid-write leaves the previous table in place.
//
// Known limitations:
//   - The mutex only serialises writers inside one process. Two processes
//     appending to the same file race and the last writer wins.
//   - A photo stored before a failed Append is not removed.
package xlsx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/Riddhikharpe/house-helpers/internal/apperror"
	"github.com/Riddhikharpe/house-helpers/internal/model"
	"github.com/Riddhikharpe/house-helpers/internal/repository"
)

var _ repository.HelperRepository = (*Store)(nil)

// Store is the spreadsheet-backed table store.
type Store struct {
	path string
	mu   sync.Mutex
}

// New returns a Store for the file at path. Call Initialize before use.
func New(path string) *Store {
	return &Store{path: path}
}

// Path is the location of the table file.
func (s *Store) Path() string {
	return s.path
}

// Filename is the base name of the table file.
func (s *Store) Filename() string {
	return filepath.Base(s.path)
}

func (s *Store) Initialize(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := os.Stat(s.path)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return apperror.Storage("checking helper table", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return apperror.Storage("creating helper table directory", err)
	}
	if err := s.write(nil); err != nil {
		return apperror.Storage("creating helper table", err)
	}
	return nil
}

func (s *Store) Append(ctx context.Context, record *model.HelperRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return apperror.Storage("reading helper table", err)
	}
	records = append(records, *record)
	if err := s.write(records); err != nil {
		return apperror.Storage("writing helper table", err)
	}
	return nil
}

func (s *Store) QueryAll(ctx context.Context) ([]model.HelperRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.read()
	if err != nil {
		return nil, apperror.Storage("reading helper table", err)
	}
	return records, nil
}

// Export returns the table file exactly as it is on disk.
func (s *Store) Export(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, apperror.Storage("reading helper table", err)
	}
	return data, nil
}

func (s *Store) read() ([]model.HelperRecord, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}
	return Decode(bytes.NewReader(data))
}

func (s *Store) write(records []model.HelperRecord) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+s.Filename()+"-*")
	if err != nil {
		return err
	}
	// No-op once the rename succeeded.
	defer os.Remove(tmp.Name())

	if err := Encode(tmp, records); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing %s: %w", s.path, err)
	}
	return nil
}
