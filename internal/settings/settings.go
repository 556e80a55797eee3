package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Keys for the persisted subset of player state
const (
	KeyVolume = "player.volume"
	KeyRate   = "player.rate"
	KeyTheme  = "ui.theme"
)

// Store is a durable string key-value store backed by a JSON file.
// A missing or corrupt file is treated as empty: settings are an
// overlay on defaults, never a hard dependency.
type Store struct {
	path   string
	mu     sync.RWMutex
	values map[string]string
}

// Open loads the store at path, creating parent directories as needed
func Open(path string) (*Store, error) {
	s := &Store{
		path:   path,
		values: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read settings file: %w", err)
	}

	if err := json.Unmarshal(data, &s.values); err != nil {
		// Corrupt file: start empty, next Put rewrites it
		s.values = make(map[string]string)
	}
	return s, nil
}

// Get returns the stored value for key and whether it was present
func (s *Store) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	return v, ok
}

// Put stores value under key and writes the file
func (s *Store) Put(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return s.save()
}

// Delete removes key and writes the file; no-op if absent
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.values[key]; !ok {
		return nil
	}
	delete(s.values, key)
	return s.save()
}

// save writes the values atomically (temp file + rename). Must be
// called with the lock held.
func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}

	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write settings file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace settings file: %w", err)
	}
	return nil
}
