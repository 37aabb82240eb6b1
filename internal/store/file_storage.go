package store

import (
	"context"
	"os"
	"path/filepath"
)

type fileStorage struct {
	path string
}

// NewFileStorage returns a Storage backed by a single JSON file, intended for
// local development. Saves go through a temp file and an atomic rename so a
// crash mid-write never leaves a truncated blob behind.
func NewFileStorage(path string) Storage {
	return &fileStorage{path: path}
}

func (s *fileStorage) Load(_ context.Context) ([]byte, error) {
	blob, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, ErrNoData
	}
	if err != nil {
		return nil, err
	}
	return blob, nil
}

func (s *fileStorage) Save(_ context.Context, blob []byte) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, blob, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, s.path)
}

func (s *fileStorage) Reset(_ context.Context) error {
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
