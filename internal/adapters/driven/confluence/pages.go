package confluence

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/custodia-labs/wikiport-cli/internal/core/domain"
	"github.com/custodia-labs/wikiport-cli/internal/core/ports/driven"
)

// statusCurrent is the only content status this tool publishes.
const statusCurrent = "current"

// Wire shapes of the content API.

type storageJSON struct {
	Value          string `json:"value"`
	Representation string `json:"representation"`
}

type bodyJSON struct {
	Storage storageJSON `json:"storage"`
}

type versionJSON struct {
	Number  int    `json:"number"`
	Message string `json:"message,omitempty"`
}

type pageJSON struct {
	ID      json.Number `json:"id"`
	Title   string      `json:"title"`
	SpaceID json.Number `json:"spaceId"`
	Version versionJSON `json:"version"`
	Body    bodyJSON    `json:"body"`
	Links   struct {
		WebUI string `json:"webui"`
		Base  string `json:"base"`
	} `json:"_links"`
}

type pageCollection struct {
	Results []pageJSON `json:"results"`
}

type createPageJSON struct {
	SpaceID  string   `json:"spaceId"`
	Status   string   `json:"status"`
	Title    string   `json:"title"`
	ParentID string   `json:"parentId,omitempty"`
	Body     bodyJSON `json:"body"`
}

type updatePageJSON struct {
	ID      string      `json:"id"`
	Status  string      `json:"status"`
	Title   string      `json:"title"`
	SpaceID string      `json:"spaceId"`
	Body    bodyJSON    `json:"body"`
	Version versionJSON `json:"version"`
}

func (p pageJSON) toDomain() domain.Page {
	return domain.Page{
		ID:        p.ID.String(),
		Title:     p.Title,
		SpaceID:   p.SpaceID.String(),
		Version:   p.Version.Number,
		Body:      p.Body.Storage.Value,
		WebUILink: p.Links.WebUI,
		BaseLink:  p.Links.Base,
	}
}

func storageBody(value string) bodyJSON {
	return bodyJSON{Storage: storageJSON{Value: value, Representation: "storage"}}
}

// GetPage retrieves a page by id with its storage-format body.
func (c *Client) GetPage(ctx context.Context, id string) (*domain.Page, error) {
	var p pageJSON
	path := "/api/v2/pages/" + url.PathEscape(id) + "?body-format=storage"
	if err := c.do(ctx, http.MethodGet, path, nil, &p); err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("page %s: %w (%w)", id, domain.ErrNotFound, err)
		}
		return nil, err
	}
	page := p.toDomain()
	return &page, nil
}

// FindPageByTitle looks a page up by exact title within a space.
func (c *Client) FindPageByTitle(ctx context.Context, spaceID, title string) (*domain.Page, error) {
	path := fmt.Sprintf("/api/v2/pages?space-id=%s&title=%s&body-format=storage",
		url.QueryEscape(spaceID), url.QueryEscape(title))
	var coll pageCollection
	if err := c.do(ctx, http.MethodGet, path, nil, &coll); err != nil {
		return nil, err
	}
	if len(coll.Results) == 0 {
		return nil, fmt.Errorf("page %q in space %s: %w", title, spaceID, domain.ErrNotFound)
	}
	page := coll.Results[0].toDomain()
	return &page, nil
}

// CreatePage creates a page.
func (c *Client) CreatePage(ctx context.Context, input driven.CreatePageInput) (*domain.Page, error) {
	payload := createPageJSON{
		SpaceID:  input.SpaceID,
		Status:   statusCurrent,
		Title:    input.Title,
		ParentID: input.ParentID,
		Body:     storageBody(input.Body),
	}
	var p pageJSON
	if err := c.do(ctx, http.MethodPost, "/api/v2/pages", payload, &p); err != nil {
		return nil, err
	}
	page := p.toDomain()
	return &page, nil
}

// UpdatePage overwrites a page at the given version. Stale versions
// are rejected by the store's own optimistic-concurrency check.
func (c *Client) UpdatePage(ctx context.Context, input driven.UpdatePageInput) (*domain.Page, error) {
	payload := updatePageJSON{
		ID:      input.ID,
		Status:  statusCurrent,
		Title:   input.Title,
		SpaceID: input.SpaceID,
		Body:    storageBody(input.Body),
		Version: versionJSON{Number: input.Version, Message: input.VersionMessage},
	}
	var p pageJSON
	if err := c.do(ctx, http.MethodPut, "/api/v2/pages/"+url.PathEscape(input.ID), payload, &p); err != nil {
		return nil, err
	}
	page := p.toDomain()
	return &page, nil
}
