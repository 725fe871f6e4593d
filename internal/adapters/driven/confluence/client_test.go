package confluence

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/wikiport-cli/internal/core/domain"
	"github.com/custodia-labs/wikiport-cli/internal/core/ports/driven"
)

const (
	primaryAuth   = "Bearer primary-token"
	secondaryAuth = "Bearer secondary-token"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(context.Background(), Config{
		BaseURL:        srv.URL,
		PrimaryToken:   "primary-token",
		SecondaryToken: "secondary-token",
	})
}

func pageBody(id, title, spaceID string, version int, body string) map[string]any {
	return map[string]any{
		"id":      id,
		"title":   title,
		"spaceId": spaceID,
		"version": map[string]any{"number": version},
		"body": map[string]any{
			"storage": map[string]any{"value": body, "representation": "storage"},
		},
		"_links": map[string]any{"webui": "/pages/" + id, "base": "https://wiki.example.com"},
	}
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestGetPage_MapsWireFormat(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/pages/123", r.URL.Path)
		assert.Equal(t, "storage", r.URL.Query().Get("body-format"))
		writeJSON(t, w, pageBody("123", "Home", "10", 4, "<p>x</p>"))
	})

	page, err := client.GetPage(context.Background(), "123")
	require.NoError(t, err)

	assert.Equal(t, "123", page.ID)
	assert.Equal(t, "Home", page.Title)
	assert.Equal(t, "10", page.SpaceID)
	assert.Equal(t, 4, page.Version)
	assert.Equal(t, "<p>x</p>", page.Body)
	assert.Equal(t, "/pages/123", page.WebUILink)
	assert.Equal(t, "https://wiki.example.com", page.BaseLink)
}

func TestGetPage_NumericIDsTolerated(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		// Server installations return numbers where cloud returns strings.
		writeJSON(t, w, map[string]any{
			"id":      123,
			"title":   "Home",
			"spaceId": 10,
			"version": map[string]any{"number": 1},
		})
	})

	page, err := client.GetPage(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, "123", page.ID)
	assert.Equal(t, "10", page.SpaceID)
}

func TestDo_SecondaryIdentityRecoversNotFound(t *testing.T) {
	var primarySeen, secondarySeen bool
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Header.Get("Authorization") {
		case primaryAuth:
			primarySeen = true
			w.WriteHeader(http.StatusNotFound)
		case secondaryAuth:
			secondarySeen = true
			writeJSON(t, w, pageBody("123", "Restricted", "10", 2, "<p>secret</p>"))
		default:
			t.Errorf("unexpected authorization %q", r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusUnauthorized)
		}
	})

	page, err := client.GetPage(context.Background(), "123")
	require.NoError(t, err)

	assert.True(t, primarySeen)
	assert.True(t, secondarySeen)
	assert.Equal(t, "Restricted", page.Title)
}

func TestDo_BothIdentitiesNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetPage(context.Background(), "123")
	require.Error(t, err)

	var accessErr *AccessError
	require.ErrorAs(t, err, &accessErr)
	assert.Equal(t, "primary", accessErr.Primary.Identity)
	assert.Equal(t, "secondary", accessErr.Secondary.Identity)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDo_NonNotFoundSkipsFallback(t *testing.T) {
	var calls int
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.GetPage(context.Background(), "123")
	require.Error(t, err)

	assert.Equal(t, 1, calls)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "primary", apiErr.Identity)
	assert.False(t, IsNotFound(err))
}

func TestCreatePage_WireShape(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v2/pages", r.URL.Path)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "10", payload["spaceId"])
		assert.Equal(t, "current", payload["status"])
		assert.Equal(t, "Home", payload["title"])
		assert.Equal(t, "99", payload["parentId"])
		body := payload["body"].(map[string]any)["storage"].(map[string]any)
		assert.Equal(t, "<p>x</p>", body["value"])
		assert.Equal(t, "storage", body["representation"])

		writeJSON(t, w, pageBody("123", "Home", "10", 1, "<p>x</p>"))
	})

	page, err := client.CreatePage(context.Background(), driven.CreatePageInput{
		SpaceID: "10", Title: "Home", ParentID: "99", Body: "<p>x</p>",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Version)
}

func TestUpdatePage_CarriesVersionAndMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v2/pages/123", r.URL.Path)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		version := payload["version"].(map[string]any)
		assert.Equal(t, float64(5), version["number"])
		assert.Equal(t, "wikiport migration run-1", version["message"])

		writeJSON(t, w, pageBody("123", "Home", "10", 5, "<p>new</p>"))
	})

	page, err := client.UpdatePage(context.Background(), driven.UpdatePageInput{
		ID: "123", SpaceID: "10", Title: "Home", Body: "<p>new</p>",
		Version: 5, VersionMessage: "wikiport migration run-1",
	})
	require.NoError(t, err)
	assert.Equal(t, 5, page.Version)
}

func TestFindPageByTitle_NoMatch(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "10", r.URL.Query().Get("space-id"))
		assert.Equal(t, "Missing", r.URL.Query().Get("title"))
		writeJSON(t, w, map[string]any{"results": []any{}})
	})

	_, err := client.FindPageByTitle(context.Background(), "10", "Missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListSpaces_FollowsPagination(t *testing.T) {
	var calls int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		switch r.URL.Query().Get("cursor") {
		case "":
			writeJSON(t, w, map[string]any{
				"results": []any{
					map[string]any{"id": "10", "key": "DOCS", "name": "Documentation"},
					map[string]any{"id": "20", "key": "HUB", "name": "Shared"},
				},
				"_links": map[string]any{"next": "/api/v2/spaces?cursor=abc&limit=100"},
			})
		case "abc":
			writeJSON(t, w, map[string]any{
				"results": []any{
					map[string]any{"id": 30, "key": "IMG", "name": "Images"},
				},
			})
		default:
			t.Errorf("unexpected cursor %q", r.URL.Query().Get("cursor"))
		}
	})

	spaces, err := client.ListSpaces(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	require.Len(t, spaces, 3)
	assert.Equal(t, "DOCS", spaces[0].Key)
	assert.Equal(t, "30", spaces[2].ID)
}

func TestGetSpaceByKey(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "DOCS", r.URL.Query().Get("keys"))
		writeJSON(t, w, map[string]any{
			"results": []any{map[string]any{"id": "10", "key": "DOCS", "name": "Documentation"}},
		})
	})

	space, err := client.GetSpaceByKey(context.Background(), "DOCS")
	require.NoError(t, err)
	assert.Equal(t, "10", space.ID)
}

func TestGetSpaceByKey_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(t, w, map[string]any{"results": []any{}})
	})

	_, err := client.GetSpaceByKey(context.Background(), "NOPE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
