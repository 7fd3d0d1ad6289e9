package ingest

import (
	"context"
	"fmt"
	"os"
)

// Source returns raw Overpass-style payloads
type Source interface {
	FetchLines(ctx context.Context) ([]byte, error)
	FetchStations(ctx context.Context, ids []string) ([]byte, error)
}

// FileSource serves previously saved payloads from disk. The station file is
// expected to describe at least the stations the line file references.
type FileSource struct {
	LinesPath    string
	StationsPath string
}

func (f FileSource) FetchLines(ctx context.Context) ([]byte, error) {
	return readFile(ctx, f.LinesPath)
}

func (f FileSource) FetchStations(ctx context.Context, _ []string) ([]byte, error) {
	return readFile(ctx, f.StationsPath)
}

func readFile(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return b, nil
}
