package repositories

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// ErrEntryNotFound is returned by Storage.Get when the named entry does not exist.
var ErrEntryNotFound = errors.New("storage entry not found")

// Storage is a durable key-value store of named entries, scoped to one profile.
type Storage interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Remove(key string) error
}

var unsafeKeyChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// FileStorage keeps each entry in its own file under a profile directory.
type FileStorage struct {
	dir string
}

// NewFileStorage creates a storage rooted at dir. The directory is created on first write.
func NewFileStorage(dir string) *FileStorage {
	return &FileStorage{dir: dir}
}

func (s *FileStorage) path(key string) string {
	return filepath.Join(s.dir, unsafeKeyChars.ReplaceAllString(key, "_")+".json")
}

// Get reads the entry named key.
func (s *FileStorage) Get(key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrEntryNotFound
	}
	return data, err
}

// Set replaces the entry named key. The write goes through a temporary file
// so a crash never leaves a half-written entry behind.
func (s *FileStorage) Set(key string, value []byte) error {
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("create storage dir: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".entry-*")
	if err != nil {
		return fmt.Errorf("create temp entry: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp entry: %w", err)
	}

	return os.Rename(tmp.Name(), s.path(key))
}

// Remove deletes the entry named key. Removing a missing entry is not an error.
func (s *FileStorage) Remove(key string) error {
	err := os.Remove(s.path(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
