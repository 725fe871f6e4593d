package driving

import (
	"context"

	"github.com/custodia-labs/wikiport-cli/internal/core/domain"
)

// Migrator runs one migration request end to end: index, extract,
// resolve, normalise, publish.
type Migrator interface {
	// Migrate transforms and publishes the request's export tree.
	// Pages committed before a mid-pipeline failure are not rolled
	// back; the error reports the failing stage only.
	Migrate(ctx context.Context, req domain.MigrationRequest) (*domain.MigrationResult, error)
}

// SpaceLister lists the spaces visible to the configured identities.
// Convenience surface for operators choosing a migration target.
type SpaceLister interface {
	ListSpaces(ctx context.Context) ([]domain.Space, error)
}
