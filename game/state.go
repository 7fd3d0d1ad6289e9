package game

import (
	"errors"
	"fmt"
	"strings"

	"github.com/theoremus-urban-solutions/metro-pacman/transit"
)

var (
	// ErrGameFinished is returned by Tick once the game is won or lost
	ErrGameFinished = errors.New("game finished")
	// ErrUnknownCommand is returned for input that maps to no command
	ErrUnknownCommand = errors.New("unknown command")
)

// Mode selects the display and the rule set. Free roam shows geographic
// coordinates and plays toward a target; pursuit shows the schematic layout
// and spawns pursuers.
type Mode string

const (
	ModeFreeRoam Mode = "free-roam"
	ModePursuit  Mode = "pursuit"
)

// Schematic reports whether the mode displays schematic coordinates
func (m Mode) Schematic() bool { return m == ModePursuit }

// Toggle returns the other mode
func (m Mode) Toggle() Mode {
	if m == ModePursuit {
		return ModeFreeRoam
	}
	return ModePursuit
}

// ParseMode accepts the mode names and a few aliases
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "free-roam", "freeroam", "free", "geo", "geographic":
		return ModeFreeRoam, nil
	case "pursuit", "schematic", "ghosts":
		return ModePursuit, nil
	}
	return "", fmt.Errorf("unknown mode %q", s)
}

// Command is one turn input
type Command string

const (
	CommandAdvance    Command = "advance"
	CommandSwitchLine Command = "switch-line"
)

// ParseCommand maps key bindings and command names to a Command
func ParseCommand(s string) (Command, error) {
	if s == " " {
		return CommandAdvance, nil
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a", "advance", "space":
		return CommandAdvance, nil
	case "l", "switch", "switch-line", "switch_line":
		return CommandSwitchLine, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCommand, s)
}

// Outcome tags the result of a tick
type Outcome string

const (
	OutcomeNone           Outcome = "none"
	OutcomeLifeLost       Outcome = "life-lost"
	OutcomeGameOver       Outcome = "game-over"
	OutcomeFruitCollected Outcome = "fruit-collected"
	OutcomeWin            Outcome = "win"
)

// Finished reports whether no further ticks are accepted
func (o Outcome) Finished() bool { return o == OutcomeGameOver || o == OutcomeWin }

type PacmanState struct {
	StationID string `json:"stationId"`
	LineID    string `json:"lineId"`
}

type GhostState struct {
	StationID string `json:"stationId"`
}

type FruitState struct {
	StationID string `json:"stationId"`
}

// HomeState is the fixed origin and its respawn station
type HomeState struct {
	Coord     transit.Coordinate `json:"coord"`
	StationID string             `json:"stationId"`
}

// TargetState is the free-roam destination
type TargetState struct {
	Coord     transit.Coordinate `json:"coord"`
	StationID string             `json:"stationId"`
	Label     string             `json:"label"`
}
