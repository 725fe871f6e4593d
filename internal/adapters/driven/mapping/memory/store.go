// Package memory provides an in-memory mapping store, used in tests
// and for dry runs where persistence across invocations is unwanted.
package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/wikiport-cli/internal/core/domain"
	"github.com/custodia-labs/wikiport-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.MappingStore = (*Store)(nil)

// Store is an in-memory implementation of driven.MappingStore.
type Store struct {
	mu       sync.RWMutex
	mappings map[string]string
}

// NewStore creates a new in-memory mapping store.
func NewStore() *Store {
	return &Store{mappings: make(map[string]string)}
}

// Get returns the page id recorded for a node id.
func (s *Store) Get(_ context.Context, nodeID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	pageID, ok := s.mappings[nodeID]
	if !ok {
		return "", domain.ErrNotFound
	}
	return pageID, nil
}

// Put records or replaces the mapping for a node id.
func (s *Store) Put(_ context.Context, nodeID, pageID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mappings[nodeID] = pageID
	return nil
}

// Delete removes the mapping for a node id.
func (s *Store) Delete(_ context.Context, nodeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.mappings, nodeID)
	return nil
}

// List returns all mappings keyed by node id.
func (s *Store) List(_ context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]string, len(s.mappings))
	for k, v := range s.mappings {
		out[k] = v
	}
	return out, nil
}
