// Package storage is a small string key-value store used to persist
// client state between runs.
package storage

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// Storage is a string key-value store. A missing key reports ok=false.
type Storage interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Remove(key string) error
}

// FileStorage keeps every key in a single JSON object on disk.
// Writes go through a temp file and a rename so a crash never leaves a
// half-written file behind.
type FileStorage struct {
	path   string
	mu     sync.Mutex
	logger *slog.Logger
}

// NewFileStorage returns a FileStorage backed by path. The file and its
// parent directory are created on first write.
func NewFileStorage(path string, logger *slog.Logger) *FileStorage {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &FileStorage{path: path, logger: logger}
}

// Path returns the backing file path.
func (s *FileStorage) Path() string { return s.path }

// Get returns the value stored under key.
func (s *FileStorage) Get(key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := entries[key]
	return v, ok, nil
}

// Set stores value under key.
func (s *FileStorage) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		// A corrupt file is replaced rather than blocking every write.
		s.logger.Warn("storage file unreadable, starting fresh", "path", s.path, "error", err)
		entries = map[string]string{}
	}
	entries[key] = value
	return s.save(entries)
}

// Remove deletes key. Removing a missing key is not an error.
func (s *FileStorage) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		s.logger.Warn("storage file unreadable, starting fresh", "path", s.path, "error", err)
		entries = map[string]string{}
	}
	if _, ok := entries[key]; !ok && err == nil {
		return nil
	}
	delete(entries, key)
	return s.save(entries)
}

func (s *FileStorage) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("storage.load: %w", err)
	}
	entries := map[string]string{}
	if len(data) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("storage.load: parse %s: %w", s.path, err)
	}
	return entries, nil
}

func (s *FileStorage) save(entries map[string]string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("storage.save: marshal: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("storage.save: mkdir: %w", err)
	}
	if err := s.writeAtomic(data); err != nil {
		return err
	}
	if err := os.Chmod(s.path, 0o600); err != nil {
		s.logger.Warn("failed to set permissions on storage file", "error", err)
	}
	return nil
}

// writeAtomic writes to a temp file, fsyncs it and renames it over the
// target. The temp file is removed on any error.
func (s *FileStorage) writeAtomic(data []byte) error {
	tmpPath := s.path + ".tmp"

	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("storage.save: create temp file: %w", err)
	}
	cleanup := func() {
		_ = f.Close()
		_ = os.Remove(tmpPath)
	}

	if _, err := f.Write(data); err != nil {
		cleanup()
		return fmt.Errorf("storage.save: write temp file: %w", err)
	}
	if err := f.Sync(); err != nil {
		cleanup()
		return fmt.Errorf("storage.save: fsync temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage.save: close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage.save: rename: %w", err)
	}
	return nil
}

// MemoryStorage is an in-process Storage.
type MemoryStorage struct {
	mu      sync.Mutex
	entries map[string]string
}

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{entries: map[string]string{}}
}

// Get returns the value stored under key.
func (m *MemoryStorage) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[key]
	return v, ok, nil
}

// Set stores value under key.
func (m *MemoryStorage) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

// Remove deletes key.
func (m *MemoryStorage) Remove(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}
