package driven

import (
	"context"

	"github.com/custodia-labs/wikiport-cli/internal/core/domain"
)

// PageStore is the target wiki's page and space API.
// Backed by the Confluence-style REST adapter.
type PageStore interface {
	// ListSpaces returns all spaces visible to the configured
	// identities, following pagination to the end.
	ListSpaces(ctx context.Context) ([]domain.Space, error)

	// GetSpace retrieves a space by its id.
	GetSpace(ctx context.Context, id string) (*domain.Space, error)

	// GetSpaceByKey retrieves a space by its key.
	// Returns domain.ErrNotFound when no space matches.
	GetSpaceByKey(ctx context.Context, key string) (*domain.Space, error)

	// GetPage retrieves a page by id, including its current version
	// number and storage-format body.
	GetPage(ctx context.Context, id string) (*domain.Page, error)

	// FindPageByTitle looks a page up by title within a space.
	// Returns domain.ErrNotFound when no page matches.
	FindPageByTitle(ctx context.Context, spaceID, title string) (*domain.Page, error)

	// CreatePage creates a page. ParentID on the input is optional.
	CreatePage(ctx context.Context, input CreatePageInput) (*domain.Page, error)

	// UpdatePage overwrites a page's title and body at the given
	// version. The store rejects stale versions.
	UpdatePage(ctx context.Context, input UpdatePageInput) (*domain.Page, error)
}

// CreatePageInput carries the fields of a page create call.
type CreatePageInput struct {
	SpaceID  string
	Title    string
	ParentID string
	Body     string
}

// UpdatePageInput carries the fields of a page update call.
// Version must be the store's current version plus one.
type UpdatePageInput struct {
	ID             string
	SpaceID        string
	Title          string
	Body           string
	Version        int
	VersionMessage string
}
