// Package schematic computes straightened, subway-map style coordinates for
// every station of a transit graph. The geographic coordinate is never lost:
// the layout is stored next to it and renderers pick one per display mode.
package schematic

import (
	"github.com/theoremus-urban-solutions/metro-pacman/transit"
)

// AxisThresholdMeters bounds how far a free line end may drift across an
// axis before it is drawn diagonally instead of horizontally or vertically.
const AxisThresholdMeters = 2500.0

type orientation int

const (
	diagonal orientation = iota
	horizontal
	vertical
)

// Compute returns a schematic coordinate for every station of g. It reads only
// geographic coordinates and graph order, so repeated calls on an unchanged
// graph return identical results.
func Compute(g *transit.Graph) (map[string]transit.Coordinate, error) {
	all, err := g.Stations()
	if err != nil {
		return nil, err
	}
	lines, err := g.Lines()
	if err != nil {
		return nil, err
	}

	out := map[string]transit.Coordinate{}
	stations := map[string]transit.Station{}
	for _, s := range all {
		stations[s.ID] = s
		if s.IsAnchor() {
			out[s.ID] = s.Geo
		}
	}

	for _, line := range lines {
		seq := make([]transit.Station, 0, len(line.StationIDs))
		for _, id := range line.StationIDs {
			if s, ok := stations[id]; ok {
				seq = append(seq, s)
			}
		}
		if allPlaced(seq, out) {
			continue
		}
		cuts := segmentBounds(seq)
		for i := 1; i < len(cuts); i++ {
			layoutSegment(seq, cuts[i-1], cuts[i], out)
		}
	}

	for id, s := range stations {
		if _, ok := out[id]; !ok {
			out[id] = s.Geo
		}
	}
	return out, nil
}

// Apply computes the layout and stores it on the graph
func Apply(g *transit.Graph) error {
	coords, err := Compute(g)
	if err != nil {
		return err
	}
	return g.ApplySchematic(coords)
}

func allPlaced(seq []transit.Station, out map[string]transit.Coordinate) bool {
	for _, s := range seq {
		if _, ok := out[s.ID]; !ok {
			return false
		}
	}
	return true
}

// segmentBounds returns the sequence positions that close segments: the first
// station, every interior anchor and the last station.
func segmentBounds(seq []transit.Station) []int {
	if len(seq) < 2 {
		return nil
	}
	cuts := []int{0}
	for i := 1; i < len(seq)-1; i++ {
		if seq[i].IsAnchor() {
			cuts = append(cuts, i)
		}
	}
	return append(cuts, len(seq)-1)
}

func layoutSegment(seq []transit.Station, start, end int, out map[string]transit.Coordinate) {
	if start >= end {
		return
	}
	last := len(seq) - 1
	freeStart := start == 0 && !seq[0].IsAnchor()
	freeEnd := end == last && !seq[last].IsAnchor()

	from, to := seq[start].Geo, seq[end].Geo
	orient := diagonal
	fixed := from
	if freeStart || freeEnd {
		// the axis runs through the endpoint opposite a free start
		if freeStart {
			fixed = to
		}
		orient = classify(from, to)
	}

	n := float64(end - start)
	for i := start; i <= end; i++ {
		s := seq[i]
		if s.IsAnchor() {
			continue
		}
		var p transit.Coordinate
		switch i {
		case start:
			p = from
		case end:
			p = to
		default:
			p = transit.Interpolate(from, to, float64(i-start)/n)
		}
		switch orient {
		case horizontal:
			p.Lat = fixed.Lat
		case vertical:
			p.Lon = fixed.Lon
		}
		out[s.ID] = p
	}
}

func classify(from, to transit.Coordinate) orientation {
	latDist := transit.LatDistance(from, to)
	lonDist := transit.LonDistance(from, to)
	if latDist < AxisThresholdMeters && latDist < lonDist {
		return horizontal
	}
	if lonDist < AxisThresholdMeters {
		return vertical
	}
	return diagonal
}
