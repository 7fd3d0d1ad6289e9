// Package geocode resolves free-text addresses to coordinates through the
// OpenCage API. Results are memoized per query.
package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bluele/gcache"

	"github.com/theoremus-urban-solutions/metro-pacman/transit"
)

// DefaultEndpoint is the OpenCage forward geocoding endpoint
const DefaultEndpoint = "https://api.opencagedata.com/geocode/v1/json"

// ErrNoResult is returned when the geocoder found nothing
var ErrNoResult = errors.New("address not found")

// Result is the best match for an address
type Result struct {
	Coord     transit.Coordinate `json:"coord"`
	Formatted string             `json:"formatted"`
}

type response struct {
	Results []struct {
		Formatted string `json:"formatted"`
		Geometry  struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"geometry"`
	} `json:"results"`
	Status struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"status"`
}

// Client resolves addresses within one city
type Client struct {
	endpoint   string
	apiKey     string
	city       string
	httpClient *http.Client
	memo       gcache.Cache
}

// NewClient creates a client that scopes queries to city and keeps up to
// cacheSize results. An empty endpoint selects DefaultEndpoint.
func NewClient(endpoint, apiKey, city string, cacheSize int) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if cacheSize <= 0 {
		cacheSize = 128
	}
	return &Client{
		endpoint:   endpoint,
		apiKey:     apiKey,
		city:       city,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		memo:       gcache.New(cacheSize).LRU().Expiration(24 * time.Hour).Build(),
	}
}

// Query returns the text sent to the geocoder. The city name is appended
// unless the address already mentions it.
func (c *Client) Query(address string) string {
	q := strings.TrimSpace(address)
	if c.city != "" && !strings.Contains(strings.ToLower(q), strings.ToLower(c.city)) {
		q += " " + c.city
	}
	return q
}

// statusError describes a non-200 reply. OpenCage explains errors in a JSON
// status block; proxies in front of it may answer with plain text or HTML.
func statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var body response
	if err := json.Unmarshal(raw, &body); err == nil && body.Status.Message != "" {
		return fmt.Errorf("HTTP %d from geocoder: %s", resp.StatusCode, body.Status.Message)
	}
	return fmt.Errorf("HTTP %d from geocoder", resp.StatusCode)
}

// Resolve returns the first match for address
func (c *Client) Resolve(ctx context.Context, address string) (Result, error) {
	q := c.Query(address)
	if v, err := c.memo.Get(q); err == nil {
		return v.(Result), nil
	}

	params := url.Values{"q": {q}, "key": {c.apiKey}, "limit": {"1"}, "no_annotations": {"1"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return Result{}, fmt.Errorf("build geocode request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("failed to geocode %q: %w", q, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return Result{}, statusError(resp)
	}
	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Result{}, fmt.Errorf("decode geocode response: %w", err)
	}
	if len(body.Results) == 0 {
		return Result{}, fmt.Errorf("%w: %q", ErrNoResult, q)
	}

	first := body.Results[0]
	res := Result{
		Coord:     transit.Coordinate{Lat: first.Geometry.Lat, Lon: first.Geometry.Lng},
		Formatted: first.Formatted,
	}
	_ = c.memo.Set(q, res)
	return res, nil
}
