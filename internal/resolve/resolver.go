// Package resolve rewrites extracted markup so that cross-document
// anchors, bookmarks, shared paragraphs and tooltip references become
// native constructs of the target wiki, creating placeholder pages for
// forward references and backfilling them once extraction completes.
package resolve

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/net/html"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/wikiport-cli/internal/core/domain"
	"github.com/custodia-labs/wikiport-cli/internal/core/ports/driven"
	"github.com/custodia-labs/wikiport-cli/internal/logger"
	"github.com/custodia-labs/wikiport-cli/internal/markup"
)

// PlaceholderMarker is the literal body of a stub page created for a
// forward reference. Backfill replaces it; its presence on a published
// page means the referenced node was never found.
const PlaceholderMarker = "wikiport: not yet migrated"

// stubFanOut bounds concurrent stub creation across distinct ids.
// Work for any single id always runs on exactly one goroutine.
const stubFanOut = 4

// Anchor attributes produced by the legacy export.
const (
	attrItemID     = "data-itemid"
	attrAnchor     = "data-anchor"
	attrExternalID = "data-externalid"
)

// Publisher is the slice of the publish engine the resolver drives for
// stub, hub and backfill pages.
type Publisher interface {
	Create(ctx context.Context, spaceID, title, parentID, body string) (*domain.Page, error)
	Update(ctx context.Context, pageID, spaceID, title, body, message string) (*domain.Page, error)
	FindByTitle(ctx context.Context, spaceID, title string) (*domain.Page, error)
	GetPage(ctx context.Context, id string) (*domain.Page, error)
	ResolveSpaceID(ctx context.Context, spaceID, spaceKey string) (string, error)
}

// Config wires a resolver for one migration request.
type Config struct {
	// Index is the read-only id lookup over the export tree.
	Index *domain.NodeIndex

	// Publisher commits stub, hub and backfill pages.
	Publisher Publisher

	// Mapping is the persisted node-id to page-id store.
	Mapping driven.MappingStore

	// SpaceID is the resolved target space id; SpaceKey its key, used
	// on page-link constructs.
	SpaceID  string
	SpaceKey string

	// SharedParagraphSpaceKey and ImageHubSpaceKey name the hub
	// spaces for deduplicated shared content.
	SharedParagraphSpaceKey string
	ImageHubSpaceKey        string

	// External is the caller-supplied tooltip lookup table.
	External map[string][]domain.ExternalInfo

	// RunID tags version messages written during backfill.
	RunID string
}

// refState tracks a pending reference id through the two-phase
// protocol.
type refState int

const (
	refPending refState = iota
	refStubbed
	refResolved
)

// reference is one worklist entry. Each distinct id is visited to
// completion exactly once; re-encountering an id (including through a
// reference cycle) reuses the existing entry.
type reference struct {
	nodeID string
	title  string
	state  refState
	pageID string
}

// Resolver performs reference resolution over one parsed markup tree.
// Not safe for concurrent Apply calls; internal fan-out is guarded.
type Resolver struct {
	cfg Config

	mu        sync.Mutex
	refs      map[string]*reference
	hubs      map[string]*domain.Page
	bookmarks []bookmark
}

// New creates a resolver for one migration request.
func New(cfg Config) *Resolver {
	return &Resolver{
		cfg:  cfg,
		refs: make(map[string]*reference),
		hubs: make(map[string]*domain.Page),
	}
}

// Apply is phase 1: it rewrites every resolvable anchor in the tree,
// creating stub pages for references whose target page does not yet
// exist. Malformed or unresolvable anchors pass through unchanged.
func (r *Resolver) Apply(ctx context.Context, container *html.Node) error {
	anchors := markup.FindAll(container, func(n *html.Node) bool {
		return n.Data == "a"
	})

	// Stub distinct referenced ids first, with bounded fan-out, so
	// every page-link written below targets a page that exists.
	if err := r.stubReferences(ctx, anchors); err != nil {
		return err
	}

	for _, a := range anchors {
		if a.Parent == nil {
			continue // already rewritten
		}
		switch {
		case hasAttr(a, attrItemID):
			if err := r.rewriteItemAnchor(ctx, a); err != nil {
				return err
			}
		case hasAttr(a, attrAnchor):
			r.rewriteBookmarkAnchor(a)
		case hasAttr(a, attrExternalID):
			r.rewriteExternalAnchor(a)
		}
	}

	r.insertBookmarkTargets(container)
	return nil
}

// stubReferences collects the distinct document-typed reference ids
// from the anchors and ensures a target page exists for each.
func (r *Resolver) stubReferences(ctx context.Context, anchors []*html.Node) error {
	for _, a := range anchors {
		id, ok := markup.Attr(a, attrItemID)
		if !ok || id == "" {
			continue
		}
		node := r.cfg.Index.Get(id)
		if node == nil || !needsStub(node) {
			continue
		}
		r.track(id, linkTitle(node, anchorText(a)))
	}

	pending := r.pendingIDs()
	if len(pending) == 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(stubFanOut)
	for _, id := range pending {
		g.Go(func() error {
			return r.ensureStub(gctx, id)
		})
	}
	return g.Wait()
}

// track registers an id on the worklist; ids already tracked are
// short-circuited, which is also the cycle-breaking policy.
func (r *Resolver) track(id, title string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, seen := r.refs[id]; seen {
		return
	}
	r.refs[id] = &reference{nodeID: id, title: title, state: refPending}
}

func (r *Resolver) pendingIDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []string
	for id, ref := range r.refs {
		if ref.state == refPending {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func (r *Resolver) ref(id string) *reference {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.refs[id]
}

// StubbedPages returns the page ids created or reused as placeholder
// targets, keyed by node id. Diagnostic surface for the service layer.
func (r *Resolver) StubbedPages() map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]string, len(r.refs))
	for id, ref := range r.refs {
		if ref.pageID != "" {
			out[id] = ref.pageID
		}
	}
	return out
}

// needsStub reports whether references to the node require an existing
// target page. Link nodes become plain URLs and shared content goes to
// hub spaces, so neither is stubbed.
func needsStub(node *domain.Node) bool {
	if node.IsType(domain.ItemTypeLink) {
		return false
	}
	if node.IsType(domain.ItemTypeSharedParagraph) || node.IsType(domain.ItemTypeImage) {
		return false
	}
	return true
}

func hasAttr(n *html.Node, key string) bool {
	_, ok := markup.Attr(n, key)
	return ok
}

func anchorText(a *html.Node) string {
	return markup.Text(a)
}

// linkTitle resolves the display title for a reference target:
// DocumentTitle field, else node title, else the literal anchor text,
// else the node id.
func linkTitle(node *domain.Node, anchorText string) string {
	if v, ok := node.Field(domain.FieldDocumentTitle); ok && v != "" {
		return v
	}
	if node.Title != "" {
		return node.Title
	}
	if anchorText != "" {
		return anchorText
	}
	return node.ID
}

func (r *Resolver) logSkip(id, reason string) {
	logger.Debug("Leaving reference %q unresolved: %s", id, reason)
}
