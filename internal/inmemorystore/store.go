// Package inmemorystore provides an ephemeral, thread-safe, in-memory
// implementation of the nodestore.Store interface.
//
// A fresh store is created for every pipeline run. It uses sync.Map because
// the key space (all node IDs) is known up front while values change often
// and each node's state is written by a single worker.
package inmemorystore

import (
	"context"
	"sync"

	"github.com/specialistvlad/mlgridgo/internal/nodestore"
)

// Store is an in-memory implementation of nodestore.Store.
//
// The store maintains three independent sync.Maps:
//   - states: node ID to nodestore.Status
//   - outputs: node ID to the value the node produced
//   - errors: node ID to the error of a failed or skipped node
type Store struct {
	states  sync.Map
	outputs sync.Map
	errors  sync.Map
}

// New creates a new, empty in-memory node state store.
func New() *Store {
	return &Store{}
}

var _ nodestore.Store = (*Store)(nil)

// SetStatus updates the execution status of a specific node.
func (s *Store) SetStatus(ctx context.Context, id string, status nodestore.Status) error {
	s.states.Store(id, status)
	return nil
}

// GetStatus retrieves the execution status of a specific node.
// If a status has not been set, it returns StatusPending.
func (s *Store) GetStatus(ctx context.Context, id string) (nodestore.Status, error) {
	status, ok := s.states.Load(id)
	if !ok {
		return nodestore.StatusPending, nil
	}
	return status.(nodestore.Status), nil
}

// SetOutput records the successful output of a node.
func (s *Store) SetOutput(ctx context.Context, id string, output any) error {
	s.outputs.Store(id, output)
	return nil
}

// GetOutput retrieves the recorded output of a completed node.
func (s *Store) GetOutput(ctx context.Context, id string) (any, bool, error) {
	output, ok := s.outputs.Load(id)
	return output, ok, nil
}

// SetError records the failure error of a node.
func (s *Store) SetError(ctx context.Context, id string, nodeErr error) error {
	s.errors.Store(id, nodeErr)
	return nil
}

// GetError retrieves the recorded error of a failed node.
func (s *Store) GetError(ctx context.Context, id string) (error, error) {
	err, ok := s.errors.Load(id)
	if !ok {
		return nil, nil // If not found, there is no error.
	}
	return err.(error), nil
}

// Snapshot returns the status of every node that has one.
func (s *Store) Snapshot() map[string]nodestore.Status {
	out := make(map[string]nodestore.Status)
	s.states.Range(func(k, v any) bool {
		out[k.(string)] = v.(nodestore.Status)
		return true
	})
	return out
}
