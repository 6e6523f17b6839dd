package store

import (
	"sort"
	"sync"
)

// MemoryStore is an in-memory Store for tests and dry runs.
type MemoryStore struct {
	mu   sync.RWMutex
	vpcs map[string]*VPC
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{vpcs: make(map[string]*VPC)}
}

// Get returns the record for name, or ErrNotFound.
func (s *MemoryStore) Get(name string) (*VPC, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vpc, ok := s.vpcs[name]
	if !ok {
		return nil, ErrNotFound
	}
	return vpc.Clone(), nil
}

// Put writes the record, replacing any previous record.
func (s *MemoryStore) Put(vpc *VPC) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.vpcs[vpc.Name] = vpc.Clone()
	return nil
}

// Delete removes the record for name.
func (s *MemoryStore) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.vpcs[name]; !ok {
		return ErrNotFound
	}
	delete(s.vpcs, name)
	return nil
}

// List returns all records sorted by name.
func (s *MemoryStore) List() ([]*VPC, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	vpcs := make([]*VPC, 0, len(s.vpcs))
	for _, vpc := range s.vpcs {
		vpcs = append(vpcs, vpc.Clone())
	}
	sort.Slice(vpcs, func(i, j int) bool { return vpcs[i].Name < vpcs[j].Name })
	return vpcs, nil
}
