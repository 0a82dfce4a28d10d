package link

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

// FileKeyStore keeps pairing keys in a YAML file keyed by TV address
type FileKeyStore struct {
	path string

	mu   sync.Mutex
	keys map[string]string
}

// NewFileKeyStore loads the key file at path. A missing file is an empty store.
func NewFileKeyStore(path string) (*FileKeyStore, error) {
	s := &FileKeyStore{
		path: path,
		keys: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}

	if err := yaml.Unmarshal(data, &s.keys); err != nil {
		return nil, fmt.Errorf("failed to parse key file: %w", err)
	}
	if s.keys == nil {
		s.keys = make(map[string]string)
	}
	return s, nil
}

// Get returns the key for addr
func (s *FileKeyStore) Get(addr string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keys[addr]
}

// Put stores the key for addr and rewrites the file
func (s *FileKeyStore) Put(addr, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.keys[addr] = key

	data, err := yaml.Marshal(s.keys)
	if err != nil {
		return fmt.Errorf("failed to encode keys: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create key directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("failed to write key file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace key file: %w", err)
	}
	return nil
}

// MemoryKeyStore is a KeyStore that keeps keys for the life of the process
type MemoryKeyStore struct {
	mu   sync.Mutex
	keys map[string]string
}

// NewMemoryKeyStore creates an empty in-memory key store
func NewMemoryKeyStore() *MemoryKeyStore {
	return &MemoryKeyStore{keys: make(map[string]string)}
}

func (s *MemoryKeyStore) Get(addr string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keys[addr]
}

func (s *MemoryKeyStore) Put(addr, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keys[addr] = key
	return nil
}
