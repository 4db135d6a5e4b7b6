package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// KVStore keeps preferences in a small YAML file so they survive restarts
// of the terminal game. Every Set rewrites the file atomically.
type KVStore struct {
	path string

	mu     sync.Mutex
	loaded bool
	data   map[string]string
}

func NewKVStore(path string) *KVStore {
	return &KVStore{path: path}
}

func (s *KVStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(); err != nil {
		return "", false, err
	}
	value, ok := s.data[key]
	return value, ok, nil
}

func (s *KVStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.loadLocked(); err != nil {
		return err
	}

	next := make(map[string]string, len(s.data)+1)
	for k, v := range s.data {
		next[k] = v
	}
	next[key] = value
	if err := s.writeLocked(next); err != nil {
		return err
	}
	s.data = next
	return nil
}

func (s *KVStore) loadLocked() error {
	if s.loaded {
		return nil
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.data = make(map[string]string)
		s.loaded = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("read preferences: %w", err)
	}
	values := make(map[string]string)
	if err := yaml.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("parse preferences %s: %w", s.path, err)
	}
	s.data = values
	s.loaded = true
	return nil
}

func (s *KVStore) writeLocked(values map[string]string) error {
	data, err := yaml.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create preferences dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace preferences: %w", err)
	}
	return nil
}
