package confluence

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/custodia-labs/wikiport-cli/internal/core/domain"
)

// spaceJSON mirrors the API's space summary. Space ids are numeric on
// server installations and strings on cloud; json.Number tolerates
// both.
type spaceJSON struct {
	ID   json.Number `json:"id"`
	Key  string      `json:"key"`
	Name string      `json:"name"`
}

type spaceCollection struct {
	Results []spaceJSON `json:"results"`
	Links   struct {
		Next string `json:"next"`
	} `json:"_links"`
}

func (s spaceJSON) toDomain() domain.Space {
	return domain.Space{ID: s.ID.String(), Key: s.Key, Name: s.Name}
}

// ListSpaces returns all visible spaces, following cursor pagination
// to the end.
func (c *Client) ListSpaces(ctx context.Context) ([]domain.Space, error) {
	var spaces []domain.Space
	cursor := ""
	for {
		path := "/api/v2/spaces?limit=100"
		if cursor != "" {
			path += "&cursor=" + url.QueryEscape(cursor)
		}
		var page spaceCollection
		if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
			return nil, err
		}
		for _, s := range page.Results {
			spaces = append(spaces, s.toDomain())
		}
		cursor = nextCursor(page.Links.Next)
		if cursor == "" {
			return spaces, nil
		}
	}
}

// nextCursor extracts the cursor parameter from a _links.next value.
func nextCursor(next string) string {
	if next == "" {
		return ""
	}
	u, err := url.Parse(next)
	if err != nil {
		return ""
	}
	return u.Query().Get("cursor")
}

// GetSpace retrieves a space by id.
func (c *Client) GetSpace(ctx context.Context, id string) (*domain.Space, error) {
	var s spaceJSON
	if err := c.do(ctx, http.MethodGet, "/api/v2/spaces/"+url.PathEscape(id), nil, &s); err != nil {
		if IsNotFound(err) {
			return nil, fmt.Errorf("space %s: %w (%w)", id, domain.ErrNotFound, err)
		}
		return nil, err
	}
	space := s.toDomain()
	return &space, nil
}

// GetSpaceByKey retrieves a space by key.
func (c *Client) GetSpaceByKey(ctx context.Context, key string) (*domain.Space, error) {
	var page spaceCollection
	path := "/api/v2/spaces?keys=" + url.QueryEscape(key)
	if err := c.do(ctx, http.MethodGet, path, nil, &page); err != nil {
		return nil, err
	}
	if len(page.Results) == 0 {
		return nil, fmt.Errorf("space key %q: %w", key, domain.ErrNotFound)
	}
	space := page.Results[0].toDomain()
	return &space, nil
}
