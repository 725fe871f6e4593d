package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/wikiport-cli/internal/core/domain"
	"github.com/custodia-labs/wikiport-cli/internal/core/ports/driven"
	"github.com/custodia-labs/wikiport-cli/internal/logger"
)

// Publisher commits markup to the page store as create-or-update calls
// under version-based optimistic concurrency. It performs no
// pre-existing-page checks of its own; callers needing get-or-create
// semantics (hub and placeholder logic) look up first.
type Publisher struct {
	store driven.PageStore
}

// NewPublisher creates a publisher over the given page store.
func NewPublisher(store driven.PageStore) *Publisher {
	return &Publisher{store: store}
}

// ResolveSpaceID returns the effective space id: an explicit id wins,
// else the key is resolved through the store. With neither present the
// call fails with domain.ErrMissingSpace.
func (p *Publisher) ResolveSpaceID(ctx context.Context, spaceID, spaceKey string) (string, error) {
	if spaceID != "" {
		return spaceID, nil
	}
	if spaceKey == "" {
		return "", domain.ErrMissingSpace
	}
	space, err := p.store.GetSpaceByKey(ctx, spaceKey)
	if err != nil {
		return "", fmt.Errorf("resolving space key %q: %w", spaceKey, err)
	}
	return space.ID, nil
}

// Create creates a page. The space id must already be resolved.
func (p *Publisher) Create(ctx context.Context, spaceID, title, parentID, body string) (*domain.Page, error) {
	if spaceID == "" {
		return nil, domain.ErrMissingSpace
	}
	page, err := p.store.CreatePage(ctx, driven.CreatePageInput{
		SpaceID:  spaceID,
		Title:    title,
		ParentID: parentID,
		Body:     body,
	})
	if err != nil {
		return nil, fmt.Errorf("creating page %q: %w", title, err)
	}
	logger.Info("Created page %s (%q) in space %s", page.ID, title, spaceID)
	return page, nil
}

// Update overwrites a page's title and body. The current version is
// read first and the write carries version+1; read-then-write is not
// atomic, a truly concurrent update is only caught by the store's own
// version check.
func (p *Publisher) Update(ctx context.Context, pageID, spaceID, title, body, message string) (*domain.Page, error) {
	if pageID == "" {
		return nil, domain.ErrMissingPage
	}
	if spaceID == "" {
		return nil, domain.ErrMissingSpace
	}
	current, err := p.store.GetPage(ctx, pageID)
	if err != nil {
		return nil, fmt.Errorf("fetching page %s for update: %w", pageID, err)
	}
	if title == "" {
		title = current.Title
	}
	page, err := p.store.UpdatePage(ctx, driven.UpdatePageInput{
		ID:             pageID,
		SpaceID:        spaceID,
		Title:          title,
		Body:           body,
		Version:        current.Version + 1,
		VersionMessage: message,
	})
	if err != nil {
		return nil, fmt.Errorf("updating page %s: %w", pageID, err)
	}
	logger.Info("Updated page %s (%q) to version %d", page.ID, title, page.Version)
	return page, nil
}

// FindByTitle looks up a page by title within a space.
func (p *Publisher) FindByTitle(ctx context.Context, spaceID, title string) (*domain.Page, error) {
	return p.store.FindPageByTitle(ctx, spaceID, title)
}

// GetPage fetches a page by id.
func (p *Publisher) GetPage(ctx context.Context, id string) (*domain.Page, error) {
	return p.store.GetPage(ctx, id)
}
