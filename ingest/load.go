package ingest

import (
	"context"
	"fmt"
	"log"

	"github.com/theoremus-urban-solutions/metro-pacman/schematic"
	"github.com/theoremus-urban-solutions/metro-pacman/transit"
)

// Report counts what ingestion kept and skipped
type Report struct {
	LinesParsed        int `json:"linesParsed"`
	LinesSkipped       int `json:"linesSkipped"`
	LinesAdded         int `json:"linesAdded"`
	StationsReferenced int `json:"stationsReferenced"`
	StationsParsed     int `json:"stationsParsed"`
	StationsSkipped    int `json:"stationsSkipped"`
	StationsMerged     int `json:"stationsMerged"`
	Stations           int `json:"stations"`
	Lines              int `json:"lines"`
}

// Load runs both ingestion phases against src and returns the finished graph
// with schematic coordinates applied. Malformed records are skipped and
// counted; a failed fetch or an empty result leaves no graph.
func Load(ctx context.Context, src Source) (*transit.Graph, Report, error) {
	var rep Report

	raw, err := src.FetchLines(ctx)
	if err != nil {
		return nil, rep, fmt.Errorf("fetch lines: %w", err)
	}
	lines, skipped, err := transit.ParseLineElements(raw)
	if err != nil {
		return nil, rep, fmt.Errorf("parse lines: %w", err)
	}
	rep.LinesParsed, rep.LinesSkipped = len(lines), skipped

	b := transit.NewBuilder()
	rep.LinesAdded = b.AddLines(lines)
	ids := b.StationIDs()
	rep.StationsReferenced = len(ids)
	log.Printf("ingest: %d lines added (%d skipped), %d stations referenced",
		rep.LinesAdded, rep.LinesSkipped, rep.StationsReferenced)
	if len(ids) == 0 {
		return nil, rep, fmt.Errorf("no usable lines: %w", transit.ErrGraphNotBuilt)
	}

	raw, err = src.FetchStations(ctx, ids)
	if err != nil {
		return nil, rep, fmt.Errorf("fetch stations: %w", err)
	}
	stations, skipped, err := transit.ParseStationElements(raw)
	if err != nil {
		return nil, rep, fmt.Errorf("parse stations: %w", err)
	}
	rep.StationsParsed, rep.StationsSkipped = len(stations), skipped

	merged, unused := b.AddStations(stations)
	rep.StationsMerged = merged
	rep.StationsSkipped += unused

	g, err := b.Build()
	if err != nil {
		return nil, rep, fmt.Errorf("build graph: %w", err)
	}
	if err := schematic.Apply(g); err != nil {
		return nil, rep, fmt.Errorf("schematic layout: %w", err)
	}

	builtStations, err := g.Stations()
	if err != nil {
		return nil, rep, err
	}
	builtLines, err := g.Lines()
	if err != nil {
		return nil, rep, err
	}
	rep.Stations, rep.Lines = len(builtStations), len(builtLines)
	log.Printf("ingest: graph ready with %d stations on %d lines (%d merged, %d station records skipped)",
		rep.Stations, rep.Lines, rep.StationsMerged, rep.StationsSkipped)
	return g, rep, nil
}
