package schematic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/metro-pacman/transit"
)

func build(t *testing.T, lines []transit.LineRecord, stations []transit.StationRecord) *transit.Graph {
	t.Helper()
	b := transit.NewBuilder()
	b.AddLines(lines)
	b.AddStations(stations)
	g, err := b.Build()
	require.NoError(t, err)
	return g
}

func compute(t *testing.T, g *transit.Graph) map[string]transit.Coordinate {
	t.Helper()
	coords, err := Compute(g)
	require.NoError(t, err)
	return coords
}

func stations(t *testing.T, g *transit.Graph) []transit.Station {
	t.Helper()
	all, err := g.Stations()
	require.NoError(t, err)
	return all
}

// junctionGraph has one line A-B-C-D where only A is a junction (three
// outgoing links), plus two short spurs from A.
func junctionGraph(t *testing.T) *transit.Graph {
	return build(t,
		[]transit.LineRecord{
			{ID: "main", Ref: "M", To: "D", StationIDs: []string{"A", "B", "C", "D"}},
			{ID: "spur-p", Ref: "P", To: "P", StationIDs: []string{"A", "P"}},
			{ID: "spur-q", Ref: "Q", To: "Q", StationIDs: []string{"A", "Q"}},
		},
		[]transit.StationRecord{
			{ID: "A", Name: "A", Lat: 52.500, Lon: 13.300},
			{ID: "B", Name: "B", Lat: 52.520, Lon: 13.330},
			{ID: "C", Name: "C", Lat: 52.490, Lon: 13.370},
			{ID: "D", Name: "D", Lat: 52.510, Lon: 13.400},
			{ID: "P", Name: "P", Lat: 52.600, Lon: 13.300},
			{ID: "Q", Name: "Q", Lat: 52.400, Lon: 13.200},
		},
	)
}

func TestCompute_HorizontalFromAnchor(t *testing.T) {
	g := junctionGraph(t)
	a, err := g.Station("A")
	require.NoError(t, err)
	require.True(t, a.IsAnchor())

	coords := compute(t, g)

	assert.Equal(t, a.Geo, coords["A"])
	for _, id := range []string{"B", "C", "D"} {
		assert.Equal(t, 52.500, coords[id].Lat, "station %s latitude", id)
	}
	assert.InDelta(t, 13.300+0.1/3, coords["B"].Lon, 1e-9)
	assert.InDelta(t, 13.300+0.2/3, coords["C"].Lon, 1e-9)
	assert.Equal(t, 13.400, coords["D"].Lon)
}

func TestCompute_Vertical(t *testing.T) {
	g := build(t,
		[]transit.LineRecord{{ID: "1", Ref: "U8", To: "C", StationIDs: []string{"A", "B", "C"}}},
		[]transit.StationRecord{
			{ID: "A", Name: "A", Lat: 52.40, Lon: 13.400},
			{ID: "B", Name: "B", Lat: 52.45, Lon: 13.420},
			{ID: "C", Name: "C", Lat: 52.60, Lon: 13.410},
		},
	)

	coords := compute(t, g)

	// both ends are free, so the axis runs through the last station
	for _, id := range []string{"A", "B", "C"} {
		assert.Equal(t, 13.410, coords[id].Lon, "station %s longitude", id)
	}
	assert.Equal(t, 52.40, coords["A"].Lat)
	assert.InDelta(t, 52.50, coords["B"].Lat, 1e-9)
	assert.Equal(t, 52.60, coords["C"].Lat)
}

func TestCompute_Diagonal(t *testing.T) {
	g := build(t,
		[]transit.LineRecord{{ID: "1", Ref: "U5", To: "C", StationIDs: []string{"A", "B", "C"}}},
		[]transit.StationRecord{
			{ID: "A", Name: "A", Lat: 52.40, Lon: 13.30},
			{ID: "B", Name: "B", Lat: 52.41, Lon: 13.49},
			{ID: "C", Name: "C", Lat: 52.60, Lon: 13.50},
		},
	)

	coords := compute(t, g)

	assert.Equal(t, transit.Coordinate{Lat: 52.40, Lon: 13.30}, coords["A"])
	assert.Equal(t, transit.Coordinate{Lat: 52.60, Lon: 13.50}, coords["C"])
	assert.InDelta(t, 52.50, coords["B"].Lat, 1e-9)
	assert.InDelta(t, 13.40, coords["B"].Lon, 1e-9)
}

func TestCompute_InteriorSegmentIsDiagonal(t *testing.T) {
	// J1 and J2 become junctions through the cross lines
	g := build(t,
		[]transit.LineRecord{
			{ID: "main", Ref: "M", To: "Z", StationIDs: []string{"S", "J1", "B", "J2", "Z"}},
			{ID: "x1", Ref: "X1", To: "E1", StationIDs: []string{"J1", "E1"}},
			{ID: "x2", Ref: "X2", To: "F1", StationIDs: []string{"J1", "F1"}},
			{ID: "y1", Ref: "Y1", To: "E2", StationIDs: []string{"J2", "E2"}},
			{ID: "y2", Ref: "Y2", To: "F2", StationIDs: []string{"J2", "F2"}},
		},
		[]transit.StationRecord{
			{ID: "S", Name: "S", Lat: 52.50, Lon: 13.20},
			{ID: "J1", Name: "J1", Lat: 52.50, Lon: 13.30},
			{ID: "B", Name: "B", Lat: 52.58, Lon: 13.33},
			{ID: "J2", Name: "J2", Lat: 52.60, Lon: 13.40},
			{ID: "Z", Name: "Z", Lat: 52.60, Lon: 13.50},
			{ID: "E1", Name: "E1", Lat: 52.45, Lon: 13.31},
			{ID: "F1", Name: "F1", Lat: 52.55, Lon: 13.29},
			{ID: "E2", Name: "E2", Lat: 52.65, Lon: 13.41},
			{ID: "F2", Name: "F2", Lat: 52.55, Lon: 13.39},
		},
	)

	coords := compute(t, g)

	assert.InDelta(t, 52.55, coords["B"].Lat, 1e-9)
	assert.InDelta(t, 13.35, coords["B"].Lon, 1e-9)
}

func TestCompute_AnchorsKeepGeographicCoordinates(t *testing.T) {
	g := junctionGraph(t)
	coords := compute(t, g)

	for _, s := range stations(t, g) {
		if s.IsAnchor() {
			assert.Equal(t, s.Geo, coords[s.ID], "anchor %s", s.ID)
		}
	}
}

func TestCompute_CounterpartDirectionDoesNotOverride(t *testing.T) {
	g := build(t,
		[]transit.LineRecord{
			{ID: "east", Ref: "U1", To: "C", StationIDs: []string{"A", "B", "C"}},
			{ID: "west", Ref: "U1", To: "A", StationIDs: []string{"C", "B", "A"}},
		},
		[]transit.StationRecord{
			{ID: "A", Name: "A", Lat: 52.500, Lon: 13.30},
			{ID: "B", Name: "B", Lat: 52.505, Lon: 13.35},
			{ID: "C", Name: "C", Lat: 52.510, Lon: 13.40},
		},
	)

	coords := compute(t, g)

	// the eastbound pass fixes latitude at its terminus
	for _, id := range []string{"A", "B", "C"} {
		assert.Equal(t, 52.510, coords[id].Lat, "station %s latitude", id)
	}
}

func TestCompute_SingleStationFallsBackToGeographic(t *testing.T) {
	g := build(t,
		[]transit.LineRecord{{ID: "shuttle", Ref: "S", To: "S", StationIDs: []string{"S"}}},
		[]transit.StationRecord{{ID: "S", Name: "Solo", Lat: 52.1, Lon: 13.1}},
	)

	coords := compute(t, g)
	assert.Equal(t, transit.Coordinate{Lat: 52.1, Lon: 13.1}, coords["S"])
}

func TestCompute_Deterministic(t *testing.T) {
	g := junctionGraph(t)

	first := compute(t, g)
	require.NoError(t, Apply(g))
	second := compute(t, g)

	assert.Equal(t, first, second)
	for _, s := range stations(t, g) {
		require.NotNil(t, s.Schematic)
		assert.Equal(t, first[s.ID], *s.Schematic)
	}
}

func TestCompute_NotBuilt(t *testing.T) {
	var g *transit.Graph

	coords, err := Compute(g)
	assert.ErrorIs(t, err, transit.ErrGraphNotBuilt)
	assert.Nil(t, coords)
	assert.ErrorIs(t, Apply(g), transit.ErrGraphNotBuilt)
}
