package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/metro-pacman/transit"
)

func TestClient_Query(t *testing.T) {
	c := NewClient("", "key", "Berlin", 0)

	assert.Equal(t, "Alexanderplatz Berlin", c.Query("Alexanderplatz"))
	assert.Equal(t, "Unter den Linden 1, berlin", c.Query("Unter den Linden 1, berlin"))
}

func TestClient_Resolve(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		assert.Equal(t, "Alexanderplatz Berlin", r.URL.Query().Get("q"))
		assert.Equal(t, "secret", r.URL.Query().Get("key"))
		_, _ = w.Write([]byte(`{
		  "results": [{"formatted": "Alexanderplatz, 10178 Berlin, Germany",
		               "geometry": {"lat": 52.5219, "lng": 13.4132}}],
		  "status": {"code": 200, "message": "OK"}
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret", "Berlin", 8)

	res, err := c.Resolve(context.Background(), "Alexanderplatz")
	require.NoError(t, err)
	assert.Equal(t, transit.Coordinate{Lat: 52.5219, Lon: 13.4132}, res.Coord)
	assert.Equal(t, "Alexanderplatz, 10178 Berlin, Germany", res.Formatted)

	_, err = c.Resolve(context.Background(), "Alexanderplatz")
	require.NoError(t, err)
	assert.Equal(t, 1, hits)
}

func TestClient_ResolveFailures(t *testing.T) {
	t.Run("no results", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"results": [], "status": {"code": 200, "message": "OK"}}`))
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, "k", "Berlin", 1).Resolve(context.Background(), "Nowhere")
		assert.ErrorIs(t, err, ErrNoResult)
	})

	t.Run("invalid key", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"results": [], "status": {"code": 401, "message": "invalid API key"}}`))
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, "bad", "Berlin", 1).Resolve(context.Background(), "Mitte")
		assert.ErrorContains(t, err, "invalid API key")
	})

	t.Run("html error page", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte(`<html><body><h1>502 Bad Gateway</h1></body></html>`))
		}))
		defer srv.Close()

		_, err := NewClient(srv.URL, "k", "Berlin", 1).Resolve(context.Background(), "Mitte")
		require.Error(t, err)
		assert.Equal(t, "HTTP 502 from geocoder", err.Error())
	})
}
