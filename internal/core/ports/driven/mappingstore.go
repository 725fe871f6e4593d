package driven

import "context"

// MappingStore persists node-id to page-id associations across runs.
// It is what makes re-running a migration reconcile instead of
// duplicate: every create is preceded by a lookup here.
//
// The store offers no conditional-create primitive; lookup-before-create
// is a check-then-act race under concurrent migration requests.
type MappingStore interface {
	// Get returns the page id previously recorded for a node id.
	// Returns domain.ErrNotFound when no mapping exists.
	Get(ctx context.Context, nodeID string) (string, error)

	// Put records or replaces the mapping for a node id.
	Put(ctx context.Context, nodeID, pageID string) error

	// Delete removes the mapping for a node id. Deleting an absent
	// mapping is not an error.
	Delete(ctx context.Context, nodeID string) error

	// List returns all mappings, keyed by node id.
	List(ctx context.Context) (map[string]string, error)
}
