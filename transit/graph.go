package transit

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrGraphNotBuilt is returned by queries on a graph that Build did not produce
	ErrGraphNotBuilt = errors.New("transit graph not built")
	// ErrNotFound is returned when a station or line id does not resolve
	ErrNotFound = errors.New("not found")
	// ErrNoLineThroughStation is returned when no line serves a station
	ErrNoLineThroughStation = errors.New("no line serves station")
)

// Graph is the finalized station/line structure. It is read-mostly: after
// Build only ApplySchematic mutates it.
type Graph struct {
	stations map[string]*Station // canonical id -> station
	order    []string            // table iteration order
	lines    []*MetroLine
	lineIdx  map[string]int // line id -> index in lines
}

func newGraph() *Graph {
	return &Graph{
		stations: map[string]*Station{},
		lineIdx:  map[string]int{},
	}
}

func (g *Graph) built() bool {
	return g != nil && len(g.lines) > 0 && len(g.order) > 0
}

// Station returns a copy of the station with the given id
func (g *Graph) Station(id string) (Station, error) {
	if !g.built() {
		return Station{}, ErrGraphNotBuilt
	}
	s, ok := g.stations[id]
	if !ok {
		return Station{}, fmt.Errorf("station %s: %w", id, ErrNotFound)
	}
	return s.clone(), nil
}

// HasStation reports whether id resolves in the station table. It is false
// for every id on an unbuilt graph.
func (g *Graph) HasStation(id string) bool {
	if !g.built() {
		return false
	}
	_, ok := g.stations[id]
	return ok
}

// StationCount returns the size of the station table
func (g *Graph) StationCount() (int, error) {
	if !g.built() {
		return 0, ErrGraphNotBuilt
	}
	return len(g.order), nil
}

// StationIDs returns the station ids in table order
func (g *Graph) StationIDs() ([]string, error) {
	if !g.built() {
		return nil, ErrGraphNotBuilt
	}
	return append([]string(nil), g.order...), nil
}

// Stations returns copies of all stations in table order
func (g *Graph) Stations() ([]Station, error) {
	if !g.built() {
		return nil, ErrGraphNotBuilt
	}
	out := make([]Station, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.stations[id].clone())
	}
	return out, nil
}

// Lines returns copies of all lines in ingestion order
func (g *Graph) Lines() ([]MetroLine, error) {
	if !g.built() {
		return nil, ErrGraphNotBuilt
	}
	out := make([]MetroLine, 0, len(g.lines))
	for _, l := range g.lines {
		out = append(out, l.clone())
	}
	return out, nil
}

// Line returns a copy of the line with the given id
func (g *Graph) Line(id string) (MetroLine, error) {
	if !g.built() {
		return MetroLine{}, ErrGraphNotBuilt
	}
	idx, ok := g.lineIdx[id]
	if !ok {
		return MetroLine{}, fmt.Errorf("line %s: %w", id, ErrNotFound)
	}
	return g.lines[idx].clone(), nil
}

// LinesThrough returns every line whose sequence contains stationID, in line order
func (g *Graph) LinesThrough(stationID string) ([]MetroLine, error) {
	if !g.built() {
		return nil, ErrGraphNotBuilt
	}
	var out []MetroLine
	for _, l := range g.lines {
		if l.Contains(stationID) {
			out = append(out, l.clone())
		}
	}
	return out, nil
}

// FirstLineThrough returns the first line whose sequence contains stationID
func (g *Graph) FirstLineThrough(stationID string) (MetroLine, error) {
	if !g.built() {
		return MetroLine{}, ErrGraphNotBuilt
	}
	for _, l := range g.lines {
		if l.Contains(stationID) {
			return l.clone(), nil
		}
	}
	return MetroLine{}, ErrNoLineThroughStation
}

// Counterpart returns the other direction of a line pair: the first line with
// the same name and a different terminus.
func (g *Graph) Counterpart(line MetroLine) (MetroLine, error) {
	if !g.built() {
		return MetroLine{}, ErrGraphNotBuilt
	}
	for _, l := range g.lines {
		if l.Name == line.Name && l.Terminus != line.Terminus {
			return l.clone(), nil
		}
	}
	return MetroLine{}, ErrNotFound
}

// ResolvedLinks returns the outgoing links of stationID whose targets still
// exist. Dangling targets are treated as no neighbor at all.
func (g *Graph) ResolvedLinks(stationID string) ([]StationLink, error) {
	if !g.built() {
		return nil, ErrGraphNotBuilt
	}
	s, ok := g.stations[stationID]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]StationLink, 0, len(s.Links))
	for _, l := range s.Links {
		if _, ok := g.stations[l.TargetID]; ok {
			out = append(out, l)
		}
	}
	return out, nil
}

// Nearest returns the station whose active coordinate is closest to c by
// great-circle distance. Ties go to the station first in table order.
func (g *Graph) Nearest(c Coordinate, schematic bool) (Station, error) {
	if !g.built() {
		return Station{}, ErrGraphNotBuilt
	}
	var best *Station
	minDist := math.MaxFloat64
	for _, id := range g.order {
		s := g.stations[id]
		if d := Distance(s.Coord(schematic), c); d < minDist {
			minDist = d
			best = s
		}
	}
	return best.clone(), nil
}

// ApplySchematic stores computed schematic coordinates. Stations missing from
// coords keep no schematic coordinate and display geographically.
func (g *Graph) ApplySchematic(coords map[string]Coordinate) error {
	if !g.built() {
		return ErrGraphNotBuilt
	}
	for id, s := range g.stations {
		c, ok := coords[id]
		if !ok {
			s.Schematic = nil
			continue
		}
		s.Schematic = &c
	}
	return nil
}
