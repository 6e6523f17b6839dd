// Package store is the durable VPC inventory: the single source of truth
// for what should exist on the host. Keys are VPC names; values are whole
// VPC records. Put is atomic per key.
package store

import "errors"

// ErrNotFound is returned by Get and Delete when no record exists for the
// given name.
var ErrNotFound = errors.New("record not found")

// Store is the persisted record store consumed by the lifecycle managers.
type Store interface {
	// Get returns the record for name, or ErrNotFound.
	Get(name string) (*VPC, error)
	// Put writes the record, replacing any previous record for the name.
	Put(vpc *VPC) error
	// Delete removes the record for name, or returns ErrNotFound.
	Delete(name string) error
	// List returns all records, sorted by name.
	List() ([]*VPC, error)
}
