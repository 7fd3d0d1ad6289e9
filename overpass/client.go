package overpass

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// DefaultEndpoint is the public Overpass interpreter
const DefaultEndpoint = "https://www.overpass-api.de/api/interpreter"

// Cache stores raw responses keyed by query. *store.Store implements it.
type Cache interface {
	Get(ctx context.Context, key string, maxAge time.Duration) ([]byte, error)
	Put(ctx context.Context, key string, body []byte) error
}

// Client queries one city's bounding box
type Client struct {
	endpoint    string
	boundingBox string
	httpClient  *http.Client
	cache       Cache
	ttl         time.Duration
}

// Option configures a Client
type Option func(*Client)

// WithCache caches responses for ttl. A zero ttl never expires entries.
func WithCache(c Cache, ttl time.Duration) Option {
	return func(cl *Client) {
		cl.cache = c
		cl.ttl = ttl
	}
}

// WithHTTPClient replaces the default HTTP client
func WithHTTPClient(h *http.Client) Option {
	return func(cl *Client) { cl.httpClient = h }
}

// NewClient creates a client for boundingBox, formatted the Overpass way:
// "(south,west,north,east)". An empty endpoint selects DefaultEndpoint.
func NewClient(endpoint, boundingBox string, opts ...Option) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	c := &Client{
		endpoint:    endpoint,
		boundingBox: boundingBox,
		httpClient:  &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// LinesQuery returns the query selecting every subway relation in the box
func (c *Client) LinesQuery() string {
	return "[out:json];relation[route=subway]" + c.boundingBox + ";out meta;"
}

// StationsQuery returns the query selecting the given nodes
func StationsQuery(ids []string) string {
	return "[out:json];node(id:" + strings.Join(ids, ",") + ");out meta;"
}

// FetchLines returns the raw route relation response
func (c *Client) FetchLines(ctx context.Context) ([]byte, error) {
	return c.query(ctx, c.LinesQuery())
}

// FetchStations returns the raw node response for ids
func (c *Client) FetchStations(ctx context.Context, ids []string) ([]byte, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("no station ids requested")
	}
	return c.query(ctx, StationsQuery(ids))
}

func (c *Client) query(ctx context.Context, q string) ([]byte, error) {
	if c.cache != nil {
		if body, err := c.cache.Get(ctx, q, c.ttl); err == nil {
			return body, nil
		}
	}

	u := c.endpoint + "?" + url.Values{"data": {q}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build overpass request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", c.endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, c.endpoint)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read overpass response: %w", err)
	}

	if c.cache != nil {
		if err := c.cache.Put(ctx, q, body); err != nil {
			log.Printf("Warning: failed to cache overpass response: %v", err)
		}
	}
	return body, nil
}
