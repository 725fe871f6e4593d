package domain

// MigrationAction distinguishes whether a migration created a new page
// or updated an existing one.
type MigrationAction string

const (
	// ActionCreated indicates a new page was created.
	ActionCreated MigrationAction = "created"

	// ActionUpdated indicates an existing page was updated.
	ActionUpdated MigrationAction = "updated"
)

// MigrationRequest describes one migration invocation: the export tree
// to transform and where to publish the result.
type MigrationRequest struct {
	// Root is the export tree to migrate. Required.
	Root *Node

	// SpaceID is the target space identifier. Optional when SpaceKey
	// is set; the space is then resolved by key.
	SpaceID string

	// SpaceKey is the target space key, resolved to an id before
	// publishing.
	SpaceKey string

	// PageID selects update semantics: when set, the existing page is
	// updated instead of a new one being created.
	PageID string

	// Title overrides the root node's resolved title.
	Title string

	// ParentPageID makes created pages children of this page.
	ParentPageID string

	// SharedParagraphSpaceKey is the hub space for deduplicated
	// shared paragraphs.
	SharedParagraphSpaceKey string

	// ImageHubSpaceKey is the hub space for deduplicated images.
	ImageHubSpaceKey string
}

// MigrationResult is the outcome of a successful migration request.
type MigrationResult struct {
	// RunID correlates log lines and version messages of one request.
	RunID string

	// Action records whether the target page was created or updated.
	Action MigrationAction

	// Page is the committed page record.
	Page Page
}
