package domain

// Page is the externally persisted wiki page record.
type Page struct {
	// ID is the page store's identifier.
	ID string

	// Title is the page title, unique per space on most installations.
	Title string

	// SpaceID identifies the containing space.
	SpaceID string

	// Version is the store's monotonically increasing version number.
	Version int

	// Body is the page body in the storage markup dialect.
	Body string

	// WebUILink is the relative navigation link to the page.
	WebUILink string

	// BaseLink is the absolute base URL of the installation.
	BaseLink string
}

// Space is a wiki space summary.
type Space struct {
	ID   string
	Key  string
	Name string
}
