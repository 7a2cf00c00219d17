// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package localstore is a process-local durable key/value store.
//
// It plays the role a browser's local storage plays for a web reader: a few
// small JSON values that survive restarts on this machine only. The whole map
// lives in one JSON file under XDG_STATE_HOME/mushaf (or ~/.local/state/mushaf)
// and is rewritten atomically on every Set.
package localstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/taibuivan/mushaf/internal/platform/constants"
)

// Store manages the persistent key/value file.
type Store struct {
	path string
	data map[string]json.RawMessage
	mu   sync.RWMutex
}

// Open creates or loads the store file inside dir.
//
// An empty dir selects the XDG state directory. A corrupt file is not fatal:
// the store starts empty and the next Set replaces it.
func Open(dir string) (*Store, error) {
	if dir == "" {
		dir = DefaultDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("localstore: create dir: %w", err)
	}

	store := &Store{
		path: filepath.Join(dir, constants.StateFileName),
		data: make(map[string]json.RawMessage),
	}
	if err := store.load(); err != nil {
		store.data = make(map[string]json.RawMessage)
	}
	return store, nil
}

// DefaultDir returns XDG_STATE_HOME/mushaf or ~/.local/state/mushaf.
func DefaultDir() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return filepath.Join(dir, constants.StateDirName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "state", constants.StateDirName)
}

// Path returns the backing file location.
func (s *Store) Path() string {
	return s.path
}

// Get decodes the value stored under key into dest.
// It reports false when the key has never been written.
func (s *Store) Get(key string, dest any) (bool, error) {
	s.mu.RLock()
	raw, ok := s.data[key]
	s.mu.RUnlock()

	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("localstore: decode %q: %w", key, err)
	}
	return true, nil
}

// Set stores value under key, replacing any previous value, and flushes to disk.
func (s *Store) Set(key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("localstore: encode %q: %w", key, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	previous, existed := s.data[key]
	s.data[key] = raw
	if err := s.save(); err != nil {
		// Keep memory and disk in agreement.
		if existed {
			s.data[key] = previous
		} else {
			delete(s.data, key)
		}
		return err
	}
	return nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	return json.Unmarshal(data, &s.data)
}

// save writes through a temp file and renames it over the target.
func (s *Store) save() error {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("localstore: encode: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".state-*.json")
	if err != nil {
		return fmt.Errorf("localstore: temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("localstore: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("localstore: close: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("localstore: replace: %w", err)
	}
	return nil
}
