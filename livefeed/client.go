package livefeed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Client fetches VehiclePositions feeds from a URL or a local file
type Client struct {
	httpClient *http.Client
}

// NewClient creates a new feed client
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch returns raw protobuf bytes from urlOrPath.
// Returns nil if urlOrPath is empty (the feed is optional).
func (c *Client) Fetch(ctx context.Context, urlOrPath string) ([]byte, error) {
	if urlOrPath == "" {
		return nil, nil
	}
	if !strings.HasPrefix(urlOrPath, "http://") && !strings.HasPrefix(urlOrPath, "https://") {
		return os.ReadFile(urlOrPath)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlOrPath, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", urlOrPath, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d from %s", resp.StatusCode, urlOrPath)
	}
	return io.ReadAll(resp.Body)
}

// Vehicles fetches and parses a feed in one step
func (c *Client) Vehicles(ctx context.Context, urlOrPath string) ([]Vehicle, error) {
	b, err := c.Fetch(ctx, urlOrPath)
	if err != nil || b == nil {
		return nil, err
	}
	return Parse(b)
}
