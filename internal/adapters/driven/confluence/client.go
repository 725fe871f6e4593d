package confluence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/wikiport-cli/internal/core/ports/driven"
	"github.com/custodia-labs/wikiport-cli/internal/logger"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// Ensure Client implements the interface.
var _ driven.PageStore = (*Client)(nil)

// identity is one set of credentials tried against the API.
type identity struct {
	name   string
	client *http.Client
}

// Config configures a page store client.
type Config struct {
	// BaseURL is the installation root, e.g. "https://acme.example.com/wiki".
	BaseURL string

	// PrimaryToken authenticates normal operation.
	PrimaryToken string

	// SecondaryToken, when set, is the fallback identity tried on 404
	// responses. Optional.
	SecondaryToken string

	// RequestsPerSecond throttles outbound calls. Zero or negative
	// disables throttling.
	RequestsPerSecond float64

	// HTTPClient overrides the token-based clients. Test seam.
	HTTPClient *http.Client
}

// Client talks to the page store REST API with identity fallback and
// proactive rate limiting.
type Client struct {
	baseURL    string
	identities []identity
	limiter    *rate.Limiter
}

// NewClient creates a page store client from config.
func NewClient(ctx context.Context, cfg Config) *Client {
	c := &Client{
		baseURL: cfg.BaseURL,
		limiter: newLimiter(cfg.RequestsPerSecond),
	}
	c.identities = append(c.identities, identity{
		name:   "primary",
		client: tokenClient(ctx, cfg.PrimaryToken, cfg.HTTPClient),
	})
	if cfg.SecondaryToken != "" {
		c.identities = append(c.identities, identity{
			name:   "secondary",
			client: tokenClient(ctx, cfg.SecondaryToken, cfg.HTTPClient),
		})
	}
	return c
}

func tokenClient(ctx context.Context, token string, override *http.Client) *http.Client {
	if override != nil {
		return override
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	client := oauth2.NewClient(ctx, ts)
	client.Timeout = DefaultTimeout
	return client
}

// do executes one API call under the identity-fallback policy and
// decodes a success response into out (when out is non-nil).
func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
	}

	url := c.baseURL + path
	var attempts []*APIError
	for _, id := range c.identities {
		data, apiErr, err := c.attempt(ctx, id, method, url, body)
		if err != nil {
			return err
		}
		if apiErr == nil {
			if len(attempts) > 0 {
				logger.Warn("Identity discrepancy on %s %s: primary got %d, %s succeeded",
					method, path, attempts[0].StatusCode, id.name)
			}
			if out == nil {
				return nil
			}
			if err := json.Unmarshal(data, out); err != nil {
				return fmt.Errorf("decoding response from %s: %w", url, err)
			}
			return nil
		}
		attempts = append(attempts, apiErr)
		// Only "not found" is ambiguous enough to warrant the
		// secondary identity; other statuses surface immediately.
		if apiErr.StatusCode != http.StatusNotFound {
			break
		}
	}

	if len(attempts) == 2 {
		return &AccessError{Primary: attempts[0], Secondary: attempts[1]}
	}
	return attempts[0]
}

// attempt runs the request once under one identity. A transport-level
// failure is returned as err; an API-level failure as apiErr.
func (c *Client) attempt(ctx context.Context, id identity, method, url string, body []byte) (data []byte, apiErr *APIError, err error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := id.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request %s %s as %s: %w", method, url, id.name, err)
	}
	defer resp.Body.Close()

	data, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("reading response from %s: %w", url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Body:       string(data),
			URL:        url,
			Identity:   id.name,
		}, nil
	}
	return data, nil, nil
}
