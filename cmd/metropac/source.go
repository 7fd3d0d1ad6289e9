package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/theoremus-urban-solutions/metro-pacman/config"
	"github.com/theoremus-urban-solutions/metro-pacman/ingest"
	"github.com/theoremus-urban-solutions/metro-pacman/overpass"
	"github.com/theoremus-urban-solutions/metro-pacman/store"
)

// newSource picks saved payloads when both paths are given and the Overpass
// API otherwise. The returned func releases the payload cache.
func newSource(cfg *config.AppConfig, city config.City, linesPath, stationsPath string) (ingest.Source, func(), error) {
	noop := func() {}
	if linesPath != "" || stationsPath != "" {
		if linesPath == "" || stationsPath == "" {
			return nil, noop, fmt.Errorf("offline mode needs both -lines and -stations")
		}
		return ingest.FileSource{LinesPath: linesPath, StationsPath: stationsPath}, noop, nil
	}

	opts := []overpass.Option{
		overpass.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Overpass.TimeoutMS) * time.Millisecond}),
	}
	closer := noop
	if cfg.Cache.Path != "" {
		cache, err := store.Open(context.Background(), cfg.Cache.Path)
		if err != nil {
			return nil, noop, err
		}
		ttl := time.Duration(cfg.Overpass.CacheTTLHours) * time.Hour
		if ttl > 0 {
			if n, err := cache.Prune(context.Background(), ttl); err != nil {
				log.Printf("Warning: prune cache: %v", err)
			} else if n > 0 {
				log.Printf("pruned %d stale payloads", n)
			}
		}
		opts = append(opts, overpass.WithCache(cache, ttl))
		closer = func() {
			if err := cache.Close(); err != nil {
				log.Printf("close cache: %v", err)
			}
		}
	}
	return overpass.NewClient(cfg.Overpass.Endpoint, city.BoundingBox, opts...), closer, nil
}
