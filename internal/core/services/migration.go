package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/custodia-labs/wikiport-cli/internal/core/domain"
	"github.com/custodia-labs/wikiport-cli/internal/core/ports/driven"
	"github.com/custodia-labs/wikiport-cli/internal/core/ports/driving"
	"github.com/custodia-labs/wikiport-cli/internal/extract"
	"github.com/custodia-labs/wikiport-cli/internal/logger"
	"github.com/custodia-labs/wikiport-cli/internal/markup"
	"github.com/custodia-labs/wikiport-cli/internal/normalisers/style"
	"github.com/custodia-labs/wikiport-cli/internal/resolve"
)

// Ensure MigrationService implements the interfaces.
var (
	_ driving.Migrator    = (*MigrationService)(nil)
	_ driving.SpaceLister = (*MigrationService)(nil)
)

// MigrationService runs the migration pipeline for one request:
// index, extract, resolve, normalise, publish. Stages run
// sequentially; a failure aborts the remaining stages without rolling
// back pages already committed.
type MigrationService struct {
	store      driven.PageStore
	mapping    driven.MappingStore
	publisher  *Publisher
	normaliser *style.Normaliser

	strictDuplicates bool
	external         map[string][]domain.ExternalInfo
}

// MigrationOption configures a MigrationService.
type MigrationOption func(*MigrationService)

// WithStrictDuplicates makes index construction reject export trees
// containing duplicate node ids instead of keeping the later
// occurrence.
func WithStrictDuplicates() MigrationOption {
	return func(s *MigrationService) { s.strictDuplicates = true }
}

// WithExternalLookup supplies the tooltip/external-info lookup table
// used during reference resolution.
func WithExternalLookup(lookup map[string][]domain.ExternalInfo) MigrationOption {
	return func(s *MigrationService) { s.external = lookup }
}

// NewMigrationService creates the migration pipeline over a page store
// and a mapping store.
func NewMigrationService(store driven.PageStore, mapping driven.MappingStore, opts ...MigrationOption) *MigrationService {
	s := &MigrationService{
		store:      store,
		mapping:    mapping,
		publisher:  NewPublisher(store),
		normaliser: style.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListSpaces lists the spaces visible to the configured identities.
func (s *MigrationService) ListSpaces(ctx context.Context) ([]domain.Space, error) {
	return s.store.ListSpaces(ctx)
}

// Migrate transforms the request's export tree into storage markup and
// commits it as a create-or-update against the page store.
func (s *MigrationService) Migrate(ctx context.Context, req domain.MigrationRequest) (*domain.MigrationResult, error) {
	if req.Root == nil {
		return nil, fmt.Errorf("%w: missing json payload", domain.ErrInvalidInput)
	}
	runID := uuid.New().String()

	logger.Section("index")
	var indexOpts []domain.IndexOption
	if s.strictDuplicates {
		indexOpts = append(indexOpts, domain.StrictDuplicates())
	}
	index, err := domain.NewNodeIndex(req.Root, indexOpts...)
	if err != nil {
		return nil, fmt.Errorf("indexing tree: %w", err)
	}
	logger.Debug("Indexed %d nodes", index.Len())

	spaceID, err := s.publisher.ResolveSpaceID(ctx, req.SpaceID, req.SpaceKey)
	if err != nil {
		return nil, err
	}

	logger.Section("extract")
	extracted := extract.Content(req.Root)

	logger.Section("resolve")
	resolver := resolve.New(resolve.Config{
		Index:                   index,
		Publisher:               s.publisher,
		Mapping:                 s.mapping,
		SpaceID:                 spaceID,
		SpaceKey:                req.SpaceKey,
		SharedParagraphSpaceKey: req.SharedParagraphSpaceKey,
		ImageHubSpaceKey:        req.ImageHubSpaceKey,
		External:                s.external,
		RunID:                   runID,
	})

	body, err := s.transform(ctx, resolver, extracted)
	if err != nil {
		return nil, err
	}

	logger.Section("publish")
	title := req.Title
	if title == "" {
		title = req.Root.ResolvedTitle()
	}
	result, err := s.publish(ctx, req, spaceID, title, body, runID)
	if err != nil {
		return nil, err
	}

	logger.Section("backfill")
	if err := resolver.Backfill(ctx); err != nil {
		return nil, err
	}

	return result, nil
}

// transform resolves references and normalises styling on the parsed
// markup tree. Markup that fails to parse is published unmodified
// rather than aborting the request.
func (s *MigrationService) transform(ctx context.Context, resolver *resolve.Resolver, extracted string) (string, error) {
	container, err := markup.ParseFragment(extracted)
	if err != nil {
		logger.Warn("Markup failed to parse, publishing unmodified: %v", err)
		return extracted, nil
	}
	if err := resolver.Apply(ctx, container); err != nil {
		return "", err
	}
	s.normaliser.Apply(container)
	body, err := markup.Render(container)
	if err != nil {
		logger.Warn("Markup failed to render, publishing unmodified: %v", err)
		return extracted, nil
	}
	return body, nil
}

// publish commits the root page. An explicit page id forces an update;
// otherwise a previously recorded mapping for the root node makes the
// re-run reconcile instead of creating a duplicate.
func (s *MigrationService) publish(ctx context.Context, req domain.MigrationRequest, spaceID, title, body, runID string) (*domain.MigrationResult, error) {
	pageID := req.PageID
	if pageID == "" && req.Root.ID != "" {
		mapped, err := s.mapping.Get(ctx, req.Root.ID)
		switch {
		case err == nil:
			pageID = mapped
		case errors.Is(err, domain.ErrNotFound):
			// First run for this tree.
		default:
			return nil, fmt.Errorf("looking up mapping for root %s: %w", req.Root.ID, err)
		}
	}

	var (
		page   *domain.Page
		action domain.MigrationAction
	)
	if pageID != "" {
		updated, err := s.publisher.Update(ctx, pageID, spaceID, title, body, "wikiport migration "+runID)
		if err != nil {
			return nil, err
		}
		page, action = updated, domain.ActionUpdated
	} else {
		created, err := s.publisher.Create(ctx, spaceID, title, req.ParentPageID, body)
		if err != nil {
			return nil, err
		}
		page, action = created, domain.ActionCreated
	}

	if req.Root.ID != "" {
		if err := s.mapping.Put(ctx, req.Root.ID, page.ID); err != nil {
			return nil, fmt.Errorf("recording mapping for root %s: %w", req.Root.ID, err)
		}
	}

	return &domain.MigrationResult{RunID: runID, Action: action, Page: *page}, nil
}
