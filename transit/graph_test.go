package transit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pairGraph(t *testing.T) *Graph {
	t.Helper()
	return buildGraph(t,
		[]LineRecord{
			{ID: "u1-east", Ref: "U1", Colour: "#7DAD4C", To: "Warschauer Straße", StationIDs: []string{"a", "b", "c"}},
			{ID: "u1-west", Ref: "U1", Colour: "#7DAD4C", To: "Uhlandstraße", StationIDs: []string{"c", "b", "a"}},
			{ID: "u2", Ref: "U2", Colour: "#DA421E", To: "Pankow", StationIDs: []string{"x", "b", "y"}},
		},
		[]StationRecord{
			{ID: "a", Name: "Uhlandstraße", Lat: 52.5027, Lon: 13.3270},
			{ID: "b", Name: "Wittenbergplatz", Lat: 52.5019, Lon: 13.3431},
			{ID: "c", Name: "Warschauer Straße", Lat: 52.5050, Lon: 13.4490},
			{ID: "x", Name: "Ruhleben", Lat: 52.5255, Lon: 13.2418},
			{ID: "y", Name: "Pankow", Lat: 52.5672, Lon: 13.4122},
		},
	)
}

func TestMetroLine_Neighbors(t *testing.T) {
	line := MetroLine{ID: "1", StationIDs: []string{"a", "b", "c"}}

	tests := []struct {
		name     string
		station  string
		next     string
		previous string
	}{
		{name: "first station", station: "a", next: "b", previous: "a"},
		{name: "middle station", station: "b", next: "c", previous: "a"},
		{name: "terminus is idempotent", station: "c", next: "c", previous: "b"},
		{name: "unknown station", station: "zzz", next: "zzz", previous: "zzz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.next, line.Next(tt.station))
			assert.Equal(t, tt.previous, line.Previous(tt.station))
		})
	}
}

func TestGraph_NotBuilt(t *testing.T) {
	var g *Graph

	_, err := g.Nearest(Coordinate{}, false)
	assert.ErrorIs(t, err, ErrGraphNotBuilt)

	_, err = g.LinesThrough("a")
	assert.ErrorIs(t, err, ErrGraphNotBuilt)

	_, err = g.FirstLineThrough("a")
	assert.ErrorIs(t, err, ErrGraphNotBuilt)

	_, err = newGraph().Counterpart(MetroLine{})
	assert.ErrorIs(t, err, ErrGraphNotBuilt)

	_, err = newGraph().ResolvedLinks("a")
	assert.ErrorIs(t, err, ErrGraphNotBuilt)

	_, err = g.Station("a")
	assert.ErrorIs(t, err, ErrGraphNotBuilt)

	_, err = g.Line("1")
	assert.ErrorIs(t, err, ErrGraphNotBuilt)

	stations, err := g.Stations()
	assert.ErrorIs(t, err, ErrGraphNotBuilt)
	assert.Nil(t, stations)

	lines, err := newGraph().Lines()
	assert.ErrorIs(t, err, ErrGraphNotBuilt)
	assert.Nil(t, lines)

	ids, err := g.StationIDs()
	assert.ErrorIs(t, err, ErrGraphNotBuilt)
	assert.Nil(t, ids)

	_, err = g.StationCount()
	assert.ErrorIs(t, err, ErrGraphNotBuilt)

	assert.ErrorIs(t, g.ApplySchematic(map[string]Coordinate{"a": {}}), ErrGraphNotBuilt)
	assert.False(t, g.HasStation("a"))
}

func TestGraph_LookupUnknownID(t *testing.T) {
	g := pairGraph(t)

	_, err := g.Station("zzz")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = g.Line("zzz")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGraph_LinesThrough(t *testing.T) {
	g := pairGraph(t)

	lines, err := g.LinesThrough("b")
	require.NoError(t, err)
	ids := []string{}
	for _, l := range lines {
		ids = append(ids, l.ID)
	}
	assert.Equal(t, []string{"u1-east", "u1-west", "u2"}, ids)

	first, err := g.FirstLineThrough("y")
	require.NoError(t, err)
	assert.Equal(t, "u2", first.ID)

	_, err = g.FirstLineThrough("nowhere")
	assert.ErrorIs(t, err, ErrNoLineThroughStation)
}

func TestGraph_Counterpart(t *testing.T) {
	g := pairGraph(t)

	east, err := g.Line("u1-east")
	require.NoError(t, err)
	west, err := g.Counterpart(east)
	require.NoError(t, err)
	assert.Equal(t, "u1-west", west.ID)

	u2, err := g.Line("u2")
	require.NoError(t, err)
	_, err = g.Counterpart(u2)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGraph_ResolvedLinksSkipsDanglingTargets(t *testing.T) {
	g := pairGraph(t)
	g.stations["x"].Links = append(g.stations["x"].Links, StationLink{LineID: "u2", TargetID: "removed"})

	links, err := g.ResolvedLinks("x")
	require.NoError(t, err)
	assert.Equal(t, []StationLink{{LineID: "u2", TargetID: "b"}}, links)

	_, err = g.ResolvedLinks("removed")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGraph_Nearest(t *testing.T) {
	g := pairGraph(t)

	t.Run("geographic", func(t *testing.T) {
		s, err := g.Nearest(Coordinate{Lat: 52.5020, Lon: 13.3440}, false)
		require.NoError(t, err)
		assert.Equal(t, "b", s.ID)
	})

	t.Run("schematic coordinates are used when active", func(t *testing.T) {
		require.NoError(t, g.ApplySchematic(map[string]Coordinate{
			"y": {Lat: 52.5020, Lon: 13.3441},
		}))
		defer func() { _ = g.ApplySchematic(nil) }()

		s, err := g.Nearest(Coordinate{Lat: 52.5020, Lon: 13.3441}, true)
		require.NoError(t, err)
		assert.Equal(t, "y", s.ID)

		s, err = g.Nearest(Coordinate{Lat: 52.5020, Lon: 13.3441}, false)
		require.NoError(t, err)
		assert.Equal(t, "b", s.ID)
	})

	t.Run("ties go to table order", func(t *testing.T) {
		tie := buildGraph(t,
			[]LineRecord{{ID: "1", Ref: "1", To: "Q", StationIDs: []string{"p", "q"}}},
			[]StationRecord{
				{ID: "p", Name: "P", Lat: 10, Lon: 10},
				{ID: "q", Name: "Q", Lat: 10, Lon: 10},
			},
		)
		s, err := tie.Nearest(Coordinate{Lat: 10, Lon: 10}, false)
		require.NoError(t, err)
		assert.Equal(t, "p", s.ID)
	})
}

func TestDistance(t *testing.T) {
	// Alexanderplatz to Brandenburger Tor is roughly 2.3 km
	d := Distance(Coordinate{Lat: 52.5219, Lon: 13.4132}, Coordinate{Lat: 52.5163, Lon: 13.3777})
	assert.InDelta(t, 2500, d, 400)

	assert.InDelta(t, 111195, LatDistance(Coordinate{Lat: 0}, Coordinate{Lat: 1}), 5)
	assert.InDelta(t, 111195, LonDistance(Coordinate{Lat: 52, Lon: 13}, Coordinate{Lat: 52, Lon: 14}), 5)
}
