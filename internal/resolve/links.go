package resolve

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/net/html"

	"github.com/custodia-labs/wikiport-cli/internal/core/domain"
	"github.com/custodia-labs/wikiport-cli/internal/markup"
)

// rewriteItemAnchor translates one cross-document anchor into the
// matching native construct. Unresolvable references are left in place
// rather than dropped.
func (r *Resolver) rewriteItemAnchor(ctx context.Context, a *html.Node) error {
	id, _ := markup.Attr(a, attrItemID)
	node := r.cfg.Index.Get(id)
	if node == nil {
		r.logSkip(id, "id not present in tree")
		return nil
	}

	switch {
	case node.IsType(domain.ItemTypeLink):
		url, ok := node.Field(domain.FieldURL)
		if !ok || url == "" {
			r.logSkip(id, "link node without URL field")
			return nil
		}
		markup.Replace(a, markup.URLLink(url, anchorText(a)))
		return nil

	case node.IsType(domain.ItemTypeSharedParagraph):
		return r.rewriteSharedAnchor(ctx, a, node, r.cfg.SharedParagraphSpaceKey)

	case node.IsType(domain.ItemTypeImage):
		return r.rewriteSharedAnchor(ctx, a, node, r.cfg.ImageHubSpaceKey)

	default:
		ref := r.ref(id)
		if ref == nil || ref.state == refPending {
			// Stubbing failed or was skipped; fail open.
			r.logSkip(id, "no target page")
			return nil
		}
		markup.Replace(a, markup.PageLink(ref.title, r.cfg.SpaceKey, anchorText(a)))
		return nil
	}
}

// ensureStub guarantees a target page exists for a referenced id:
// a previously recorded mapping is reused, otherwise a page holding
// the placeholder marker is created and recorded. The mapping-store
// check immediately before create is the only duplicate guard.
func (r *Resolver) ensureStub(ctx context.Context, id string) error {
	ref := r.ref(id)
	if ref == nil || ref.state != refPending {
		return nil
	}

	pageID, err := r.cfg.Mapping.Get(ctx, id)
	switch {
	case err == nil:
		page, err := r.cfg.Publisher.GetPage(ctx, pageID)
		if err != nil {
			return fmt.Errorf("fetching mapped page %s for node %s: %w", pageID, id, err)
		}
		r.mu.Lock()
		ref.pageID = page.ID
		ref.title = page.Title
		ref.state = refStubbed
		r.mu.Unlock()
		return nil

	case errors.Is(err, domain.ErrNotFound):
		page, err := r.cfg.Publisher.Create(ctx, r.cfg.SpaceID, ref.title, "", PlaceholderMarker)
		if err != nil {
			return fmt.Errorf("creating stub for node %s: %w", id, err)
		}
		if err := r.cfg.Mapping.Put(ctx, id, page.ID); err != nil {
			return fmt.Errorf("recording mapping for node %s: %w", id, err)
		}
		r.mu.Lock()
		ref.pageID = page.ID
		ref.state = refStubbed
		r.mu.Unlock()
		return nil

	default:
		return fmt.Errorf("looking up mapping for node %s: %w", id, err)
	}
}
