package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theoremus-urban-solutions/metro-pacman/game"
	"github.com/theoremus-urban-solutions/metro-pacman/geocode"
	"github.com/theoremus-urban-solutions/metro-pacman/transit"
)

type stubResolver map[string]geocode.Result

func (s stubResolver) Resolve(_ context.Context, address string) (geocode.Result, error) {
	if r, ok := s[address]; ok {
		return r, nil
	}
	return geocode.Result{}, geocode.ErrNoResult
}

func playGraph(t *testing.T) *transit.Graph {
	t.Helper()
	b := transit.NewBuilder()
	b.AddLines([]transit.LineRecord{
		{ID: "1", Ref: "U1", To: "Castle", StationIDs: []string{"h", "a", "b", "c"}},
		{ID: "2", Ref: "U1", To: "Harbor", StationIDs: []string{"c", "b", "a", "h"}},
	})
	b.AddStations([]transit.StationRecord{
		{ID: "h", Name: "Harbor", Lat: 52.50, Lon: 13.30},
		{ID: "a", Name: "Anger", Lat: 52.50, Lon: 13.31},
		{ID: "b", Name: "Bridge", Lat: 52.50, Lon: 13.32},
		{ID: "c", Name: "Castle", Lat: 52.50, Lon: 13.33},
	})
	g, err := b.Build()
	require.NoError(t, err)
	return g
}

func TestSession_ReachTarget(t *testing.T) {
	var out bytes.Buffer
	s, err := newSession(playGraph(t), game.Options{Home: transit.Coordinate{Lat: 52.5, Lon: 13.3}, Seed: 1}, nil, &out)
	require.NoError(t, err)

	require.NoError(t, s.run(strings.NewReader("t 52.5,13.32\na\n\na\nq\n")))

	text := out.String()
	assert.Contains(t, text, "at Harbor")
	assert.Contains(t, text, "2 stations ahead")
	assert.Contains(t, text, "at Bridge")
	assert.Contains(t, text, "YOU WIN")
	assert.Contains(t, text, "the game is over")
}

func TestSession_Commands(t *testing.T) {
	var out bytes.Buffer
	resolver := stubResolver{"Castle": {Coord: transit.Coordinate{Lat: 52.5, Lon: 13.33}, Formatted: "Castle Square"}}
	s, err := newSession(playGraph(t), game.Options{Home: transit.Coordinate{Lat: 52.5, Lon: 13.3}, Seed: 1}, resolver, &out)
	require.NoError(t, err)

	_, err = s.handle("t Castle")
	require.NoError(t, err)
	assert.Equal(t, "c", s.engine.Snapshot().Target.StationID)

	_, err = s.handle("t Atlantis")
	assert.ErrorIs(t, err, geocode.ErrNoResult)

	_, err = s.handle("l")
	require.NoError(t, err)
	assert.Equal(t, "2", s.engine.Snapshot().Player.LineID)

	_, err = s.handle("m")
	require.NoError(t, err)
	assert.Equal(t, game.ModePursuit, s.engine.Mode())
	assert.Contains(t, out.String(), "collectibles left")

	_, err = s.handle("x")
	assert.ErrorIs(t, err, game.ErrUnknownCommand)

	quit, err := s.handle("q")
	require.NoError(t, err)
	assert.True(t, quit)
}

func TestParseCoordinate(t *testing.T) {
	c, err := parseCoordinate("52.52, 13.405")
	require.NoError(t, err)
	assert.Equal(t, transit.Coordinate{Lat: 52.52, Lon: 13.405}, c)

	for _, bad := range []string{"52.52", "north,13", "52,east", "91,13"} {
		_, err := parseCoordinate(bad)
		assert.Error(t, err, bad)
	}
}
