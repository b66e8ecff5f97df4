package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/Tiliavir/trivial-attendance-tracker/internal/model"
)

// BaseDir returns the root data directory (~/.tat).
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".tat"), nil
}

// FileStore keeps one human-readable JSON file per (user, date) under base:
// <base>/<user>/YYYY/MM/DD.json.
type FileStore struct {
	base string
}

// NewFileStore returns a FileStore rooted at base.
func NewFileStore(base string) *FileStore {
	return &FileStore{base: base}
}

// userDir encodes user as a single directory name below the base. A leading
// dot is escaped so "." and ".." never resolve to the base or its parent.
func userDir(user string) (string, error) {
	if user == "" {
		return "", fmt.Errorf("storage error: empty user")
	}
	name := url.PathEscape(user)
	if strings.HasPrefix(name, ".") {
		name = "%2E" + name[1:]
	}
	return name, nil
}

// dayFilePath returns the path for the given key's JSON file.
func (s *FileStore) dayFilePath(key model.Key) (string, error) {
	dir, err := userDir(key.User)
	if err != nil {
		return "", err
	}
	parts := strings.Split(key.Date, "/")
	elems := append([]string{s.base, dir}, parts...)
	elems[len(elems)-1] += ".json"
	return filepath.Join(elems...), nil
}

// Get loads the intervals for key. Returns an empty slice if no file exists.
func (s *FileStore) Get(_ context.Context, key model.Key) ([]model.WorkInterval, error) {
	path, err := s.dayFilePath(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return []model.WorkInterval{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage error reading %s: %w", path, err)
	}

	var intervals []model.WorkInterval
	if err := json.Unmarshal(data, &intervals); err != nil {
		// Back up corrupt file and abort.
		backupPath := path + ".corrupt"
		_ = os.Rename(path, backupPath)
		return nil, fmt.Errorf("corrupt JSON in %s (backed up to %s): %w", path, backupPath, err)
	}
	if intervals == nil {
		intervals = []model.WorkInterval{}
	}
	return intervals, nil
}

// Set atomically writes the intervals for key.
func (s *FileStore) Set(_ context.Context, key model.Key, value []model.WorkInterval) error {
	path, err := s.dayFilePath(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}

	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}

	// Atomic write: write to temp file then rename.
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}

// Remove deletes the file for key. A missing file is not an error.
func (s *FileStore) Remove(_ context.Context, key model.Key) error {
	path, err := s.dayFilePath(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage error removing %s: %w", path, err)
	}
	return nil
}

// Close is a no-op; files are not kept open.
func (s *FileStore) Close() error {
	return nil
}
