package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// FileStore persists VPC records as one JSON document per VPC under a
// state directory. Writes go through a temp file and rename, so a crash
// never leaves a half-written record.
type FileStore struct {
	dir string
	mu  sync.RWMutex
}

// NewFileStore creates a file store rooted at dir, creating it if needed.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

// Dir returns the state directory.
func (s *FileStore) Dir() string {
	return s.dir
}

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Get returns the record for name, or ErrNotFound.
func (s *FileStore) Get(name string) (*VPC, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read record %s: %w", name, err)
	}

	var vpc VPC
	if err := json.Unmarshal(data, &vpc); err != nil {
		return nil, fmt.Errorf("parse record %s: %w", name, err)
	}
	if vpc.Subnets == nil {
		vpc.Subnets = make(map[string]Subnet)
	}
	return &vpc, nil
}

// Put writes the record atomically, replacing any previous record.
func (s *FileStore) Put(vpc *VPC) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(vpc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal record %s: %w", vpc.Name, err)
	}

	path := s.path(vpc.Name)
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("write record %s: %w", vpc.Name, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("commit record %s: %w", vpc.Name, err)
	}
	return nil
}

// Delete removes the record for name.
func (s *FileStore) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(name)); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("delete record %s: %w", name, err)
	}
	return nil
}

// List returns all records sorted by name. Unreadable files are skipped
// rather than failing the whole listing.
func (s *FileStore) List() ([]*VPC, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("read state directory: %w", err)
	}

	var vpcs []*VPC
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			continue
		}
		var vpc VPC
		if err := json.Unmarshal(data, &vpc); err != nil {
			continue
		}
		if vpc.Subnets == nil {
			vpc.Subnets = make(map[string]Subnet)
		}
		vpcs = append(vpcs, &vpc)
	}

	sort.Slice(vpcs, func(i, j int) bool { return vpcs[i].Name < vpcs[j].Name })
	return vpcs, nil
}
