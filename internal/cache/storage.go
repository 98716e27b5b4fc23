package cache

import (
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
)

// FileStorage is a directory of one JSON file per key, filename
// "<key>.json". The directory is created lazily on first write.
type FileStorage struct {
	dir    string
	logger *slog.Logger
}

// NewFileStorage returns a FileStorage rooted at dir. A nil logger falls
// back to slog.Default().
func NewFileStorage(dir string, logger *slog.Logger) *FileStorage {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStorage{dir: dir, logger: logger}
}

func (s *FileStorage) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get reads and unmarshals the entry for key into v. A missing, corrupt, or
// unreadable file is reported as (false, nil) — a miss, not an error — so
// the caller can proceed as if nothing were cached. Corrupt and unreadable
// files are logged at debug level; a missing file is not logged.
func (s *FileStorage) Get(key string, v any) (bool, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Debug("cache: unreadable entry treated as miss", "key", key, "error", err)
		}
		return false, nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		s.logger.Debug("cache: corrupt entry treated as miss", "key", key, "error", err)
		return false, nil
	}
	return true, nil
}

// Set writes v as the entry for key. Errors are returned to the caller (as
// Cache.Set is best-effort, it decides whether to ignore them).
func (s *FileStorage) Set(key string, v any) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(s.path(key), data, 0o644)
}

// Clear removes every entry from the directory.
func (s *FileStorage) Clear() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

// ListKeys returns every key currently stored, derived from filenames.
func (s *FileStorage) ListKeys() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		const ext = ".json"
		if len(name) > len(ext) && name[len(name)-len(ext):] == ext {
			keys = append(keys, name[:len(name)-len(ext)])
		}
	}
	return keys, nil
}
