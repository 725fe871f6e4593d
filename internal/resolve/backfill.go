package resolve

import (
	"context"
	"fmt"
	"sort"

	"github.com/custodia-labs/wikiport-cli/internal/extract"
	"github.com/custodia-labs/wikiport-cli/internal/logger"
)

// Backfill is phase 2: every stubbed reference is re-resolved against
// the export tree and its placeholder page body replaced with the
// resolved content. Ids whose node cannot be found anywhere in the
// tree keep their marker; each id is visited to completion exactly
// once.
func (r *Resolver) Backfill(ctx context.Context) error {
	for _, id := range r.stubbedIDs() {
		if err := r.backfillOne(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (r *Resolver) stubbedIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for id, ref := range r.refs {
		if ref.state == refStubbed {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func (r *Resolver) backfillOne(ctx context.Context, id string) error {
	ref := r.ref(id)
	if ref == nil || ref.state != refStubbed {
		return nil
	}

	// Match by id first, then by title.
	node := r.cfg.Index.Get(id)
	if node == nil {
		node = r.cfg.Index.GetByTitle(ref.title)
	}
	if node == nil {
		logger.Warn("Placeholder for %q left unresolved: node not found", id)
		return nil
	}

	deepest := extract.DeepestContent(node)
	body := extract.FieldsMarkup(deepest)
	if body == "" {
		logger.Warn("Placeholder for %q left unresolved: no field content", id)
		return nil
	}

	title := linkTitle(node, ref.title)
	if _, err := r.cfg.Publisher.Update(ctx, ref.pageID, r.cfg.SpaceID, title, body,
		"wikiport backfill "+r.cfg.RunID); err != nil {
		return fmt.Errorf("backfilling stub %s for node %s: %w", ref.pageID, id, err)
	}

	r.mu.Lock()
	ref.state = refResolved
	r.mu.Unlock()
	return nil
}
