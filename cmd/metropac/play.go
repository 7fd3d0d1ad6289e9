package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/theoremus-urban-solutions/metro-pacman/game"
	"github.com/theoremus-urban-solutions/metro-pacman/geocode"
	"github.com/theoremus-urban-solutions/metro-pacman/transit"
	"github.com/theoremus-urban-solutions/metro-pacman/utils"
)

const helpText = `commands:
  a | <enter>      advance one station
  l                switch line
  m                toggle free roam / pursuit
  t <address>      set the free-roam target (or t lat,lon)
  c                clear the target
  r                restart
  q                quit`

type addressResolver interface {
	Resolve(ctx context.Context, address string) (geocode.Result, error)
}

// session is a terminal game: one input line per turn
type session struct {
	g        *transit.Graph
	opts     game.Options
	engine   *game.Engine
	resolver addressResolver
	out      io.Writer
}

func newSession(g *transit.Graph, opts game.Options, resolver addressResolver, out io.Writer) (*session, error) {
	e, err := game.New(g, opts)
	if err != nil {
		return nil, err
	}
	return &session{g: g, opts: opts, engine: e, resolver: resolver, out: out}, nil
}

func (s *session) run(in io.Reader) error {
	fmt.Fprintln(s.out, helpText)
	s.print(s.engine.Snapshot())

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		quit, err := s.handle(scanner.Text())
		if err != nil {
			fmt.Fprintf(s.out, "! %v\n", err)
		}
		if quit {
			return nil
		}
	}
	return scanner.Err()
}

func (s *session) handle(line string) (bool, error) {
	fields := strings.Fields(line)
	verb := ""
	if len(fields) > 0 {
		verb = strings.ToLower(fields[0])
	}
	arg := ""
	if len(fields) > 1 {
		arg = strings.Join(fields[1:], " ")
	}

	switch verb {
	case "q", "quit", "exit":
		return true, nil
	case "h", "help", "?":
		fmt.Fprintln(s.out, helpText)
		return false, nil
	case "m", "mode":
		snap, err := s.engine.SetMode(s.engine.Mode().Toggle())
		if err != nil {
			return false, err
		}
		s.print(snap)
		return false, nil
	case "t", "target":
		if err := s.setTarget(arg); err != nil {
			return false, err
		}
		s.print(s.engine.Snapshot())
		return false, nil
	case "c", "clear":
		s.engine.ClearTarget()
		s.print(s.engine.Snapshot())
		return false, nil
	case "r", "restart":
		e, err := game.New(s.g, s.opts)
		if err != nil {
			return false, err
		}
		s.engine = e
		s.print(e.Snapshot())
		return false, nil
	case "":
		verb = "a"
	}

	cmd, err := game.ParseCommand(verb)
	if err != nil {
		return false, err
	}
	snap, err := s.engine.Tick(cmd)
	if errors.Is(err, game.ErrGameFinished) {
		return false, fmt.Errorf("the game is over, r restarts it")
	}
	if err != nil {
		return false, err
	}
	s.print(snap)
	return false, nil
}

func (s *session) setTarget(arg string) error {
	if arg == "" {
		return errors.New("target needs an address or lat,lon")
	}
	if c, err := parseCoordinate(arg); err == nil {
		return s.engine.SetTarget(c, arg)
	}
	if s.resolver == nil {
		return errors.New("address lookup needs a geocoder API key")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	res, err := s.resolver.Resolve(ctx, arg)
	if err != nil {
		return err
	}
	return s.engine.SetTarget(res.Coord, res.Formatted)
}

func (s *session) stationName(id string) string {
	if st, err := s.g.Station(id); err == nil {
		return st.Name
	}
	return id
}

func (s *session) print(snap game.Snapshot) {
	line, _ := s.g.Line(snap.Player.LineID)
	fmt.Fprintf(s.out, "[%d] %s | %s > %s | at %s | lives %d | score %d\n",
		snap.Turn, snap.Mode, line.Name, line.Terminus, s.stationName(snap.Player.StationID), snap.Lives, snap.Score)

	player, _ := s.g.Station(snap.Player.StationID)
	if snap.Mode.Schematic() {
		fmt.Fprintf(s.out, "    %d pursuers, %d collectibles left\n", len(snap.Ghosts), len(snap.Fruits))
	} else if snap.Target != nil {
		target := fmt.Sprintf("    target %s (%s): %s", snap.Target.Label, s.stationName(snap.Target.StationID),
			utils.PresentableDistance(transit.Distance(player.Geo, snap.Target.Coord)))
		if hops := line.IndexOf(snap.Target.StationID) - line.IndexOf(snap.Player.StationID); line.Contains(snap.Target.StationID) && hops > 0 {
			target += ", " + utils.PresentableStations(hops) + " ahead"
		}
		fmt.Fprintln(s.out, target)
	}

	switch snap.Outcome {
	case game.OutcomeLifeLost:
		fmt.Fprintln(s.out, "    caught! back home")
	case game.OutcomeFruitCollected:
		fmt.Fprintln(s.out, "    collected!")
	case game.OutcomeGameOver:
		fmt.Fprintln(s.out, "    GAME OVER")
	case game.OutcomeWin:
		fmt.Fprintln(s.out, "    YOU WIN")
	}
}

func parseCoordinate(s string) (transit.Coordinate, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return transit.Coordinate{}, fmt.Errorf("want lat,lon, got %q", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return transit.Coordinate{}, fmt.Errorf("latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return transit.Coordinate{}, fmt.Errorf("longitude: %w", err)
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return transit.Coordinate{}, fmt.Errorf("coordinate out of range: %q", s)
	}
	return transit.Coordinate{Lat: lat, Lon: lon}, nil
}
