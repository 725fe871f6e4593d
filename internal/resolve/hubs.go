package resolve

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/net/html"

	"github.com/custodia-labs/wikiport-cli/internal/core/domain"
	"github.com/custodia-labs/wikiport-cli/internal/extract"
	"github.com/custodia-labs/wikiport-cli/internal/logger"
	"github.com/custodia-labs/wikiport-cli/internal/markup"
)

// ParagraphTitle is the field naming a shared paragraph; its value
// keys hub deduplication within the hub space.
const fieldParagraphTitle = "ParagraphTitle"

// rewriteSharedAnchor hoists shared content to its hub space and
// replaces the referencing site with a transclusion of the hub page.
// A missing hub space key is fatal: there is no valid target to
// deduplicate against.
func (r *Resolver) rewriteSharedAnchor(ctx context.Context, a *html.Node, node *domain.Node, hubSpaceKey string) error {
	if hubSpaceKey == "" {
		return fmt.Errorf("hub space for %s node %s: %w", node.ItemType, node.ID, domain.ErrMissingSpace)
	}
	page, err := r.ensureHub(ctx, node, hubSpaceKey)
	if err != nil {
		return err
	}
	markup.Replace(a, markup.IncludeMacro(hubSpaceKey, page.Title))
	return nil
}

// hubTitle is the dedup key: the ParagraphTitle field when present,
// else the node's resolved title.
func hubTitle(node *domain.Node) string {
	if v, ok := node.Field(fieldParagraphTitle); ok && v != "" {
		return v
	}
	return node.ResolvedTitle()
}

// ensureHub returns the hub page for a shared node with get-or-create
// semantics: the memo, then a title lookup in the hub space, then a
// create. Matching is by title only; two differently-authored
// paragraphs sharing a title collide silently.
func (r *Resolver) ensureHub(ctx context.Context, node *domain.Node, hubSpaceKey string) (*domain.Page, error) {
	title := hubTitle(node)
	memoKey := hubSpaceKey + "\x00" + title

	r.mu.Lock()
	if page, ok := r.hubs[memoKey]; ok {
		r.mu.Unlock()
		return page, nil
	}
	r.mu.Unlock()

	spaceID, err := r.cfg.Publisher.ResolveSpaceID(ctx, "", hubSpaceKey)
	if err != nil {
		return nil, fmt.Errorf("resolving hub space %q: %w", hubSpaceKey, err)
	}

	page, err := r.cfg.Publisher.FindByTitle(ctx, spaceID, title)
	switch {
	case err == nil:
		logger.Debug("Reusing hub page %s for %q", page.ID, title)
	case errors.Is(err, domain.ErrNotFound):
		page, err = r.cfg.Publisher.Create(ctx, spaceID, title, "", extract.Content(node))
		if err != nil {
			return nil, fmt.Errorf("creating hub page %q: %w", title, err)
		}
	default:
		return nil, fmt.Errorf("looking up hub page %q: %w", title, err)
	}

	r.mu.Lock()
	r.hubs[memoKey] = page
	r.mu.Unlock()
	return page, nil
}
