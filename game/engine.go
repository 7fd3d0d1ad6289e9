package game

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/theoremus-urban-solutions/metro-pacman/transit"
)

// Rand is the random source used for spawns and pursuer moves.
// *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// Options configures a new game. Zero values take the package defaults.
type Options struct {
	Home             transit.Coordinate
	Mode             Mode
	Lives            int
	FruitBonus       int
	StationsPerGhost int
	StationsPerFruit int
	Seed             int64
	Rand             Rand // overrides Seed when set

	// GhostSpawns places pursuers at the stations nearest these
	// geographic positions before falling back to random stations.
	GhostSpawns []transit.Coordinate
}

func (o Options) withDefaults() Options {
	if o.Mode == "" {
		o.Mode = ModeFreeRoam
	}
	if o.Lives <= 0 {
		o.Lives = DefaultLives
	}
	if o.FruitBonus <= 0 {
		o.FruitBonus = DefaultFruitBonus
	}
	if o.StationsPerGhost <= 0 {
		o.StationsPerGhost = DefaultStationsPerGhost
	}
	if o.StationsPerFruit <= 0 {
		o.StationsPerFruit = DefaultStationsPerFruit
	}
	if o.Rand == nil {
		o.Rand = rand.New(rand.NewSource(o.Seed))
	}
	return o
}

// Engine holds the entity state of one game. It is not safe for concurrent
// use; callers serialize Tick and the mutating setters.
type Engine struct {
	g    *transit.Graph
	opts Options
	rng  Rand

	mode    Mode
	player  PacmanState
	ghosts  []GhostState
	fruits  []FruitState
	home    HomeState
	target  *TargetState
	lives   int
	score   int
	turn    int
	outcome Outcome
}

// New starts a game on g. The player begins at the station nearest
// opts.Home on the first line serving it.
func New(g *transit.Graph, opts Options) (*Engine, error) {
	opts = opts.withDefaults()
	e := &Engine{
		g:       g,
		opts:    opts,
		rng:     opts.Rand,
		mode:    opts.Mode,
		lives:   opts.Lives,
		outcome: OutcomeNone,
	}
	if err := e.placeHome(opts.Home); err != nil {
		return nil, err
	}
	if err := e.respawn(); err != nil {
		return nil, err
	}

	ids, err := g.StationIDs()
	if err != nil {
		return nil, err
	}
	ghostCount := ceilDiv(len(ids), opts.StationsPerGhost)
	for i := 0; i < ghostCount; i++ {
		id := ids[e.rng.Intn(len(ids))]
		if i < len(opts.GhostSpawns) {
			if s, err := g.Nearest(opts.GhostSpawns[i], false); err == nil {
				id = s.ID
			}
		}
		e.ghosts = append(e.ghosts, GhostState{StationID: id})
	}
	fruitCount := ceilDiv(len(ids), opts.StationsPerFruit)
	for i := 0; i < fruitCount; i++ {
		e.fruits = append(e.fruits, FruitState{StationID: ids[e.rng.Intn(len(ids))]})
	}

	log.Printf("game started at %s (%s) with %d pursuers and %d collectibles",
		e.home.StationID, e.mode, len(e.ghosts), len(e.fruits))
	return e, nil
}

func ceilDiv(n, d int) int {
	return (n + d - 1) / d
}

// Tick applies one command and returns the resulting state. Commands after
// game over or win are rejected with ErrGameFinished.
func (e *Engine) Tick(cmd Command) (Snapshot, error) {
	if e.outcome.Finished() {
		return e.Snapshot(), ErrGameFinished
	}
	switch cmd {
	case CommandAdvance:
		e.outcome = e.advance()
	case CommandSwitchLine:
		e.switchLine()
		e.outcome = OutcomeNone
	default:
		return e.Snapshot(), fmt.Errorf("%w: %q", ErrUnknownCommand, cmd)
	}
	e.turn++
	return e.Snapshot(), nil
}

// Mode returns the active mode
func (e *Engine) Mode() Mode { return e.mode }

// SetMode switches the display mode. Home and target are re-resolved against
// the coordinates of the new mode and the player returns home.
func (e *Engine) SetMode(m Mode) (Snapshot, error) {
	e.mode = m
	if err := e.placeHome(e.home.Coord); err != nil {
		return e.Snapshot(), err
	}
	if e.target != nil {
		if err := e.SetTarget(e.target.Coord, e.target.Label); err != nil {
			return e.Snapshot(), err
		}
	}
	if err := e.respawn(); err != nil {
		return e.Snapshot(), err
	}
	return e.Snapshot(), nil
}

// SetTarget places the free-roam target at the station nearest c
func (e *Engine) SetTarget(c transit.Coordinate, label string) error {
	s, err := e.g.Nearest(c, e.mode.Schematic())
	if err != nil {
		return fmt.Errorf("place target: %w", err)
	}
	e.target = &TargetState{Coord: c, StationID: s.ID, Label: label}
	return nil
}

// ClearTarget removes the free-roam target
func (e *Engine) ClearTarget() { e.target = nil }

func (e *Engine) placeHome(c transit.Coordinate) error {
	s, err := e.g.Nearest(c, e.mode.Schematic())
	if err != nil {
		return fmt.Errorf("place home: %w", err)
	}
	e.home = HomeState{Coord: c, StationID: s.ID}
	return nil
}

// respawn moves the player to the home station on the first line serving it
func (e *Engine) respawn() error {
	line, err := e.g.FirstLineThrough(e.home.StationID)
	if err != nil {
		return fmt.Errorf("respawn at %s: %w", e.home.StationID, err)
	}
	e.player = PacmanState{StationID: e.home.StationID, LineID: line.ID}
	return nil
}

func (e *Engine) currentLine() (transit.MetroLine, bool) {
	if l, err := e.g.Line(e.player.LineID); err == nil && l.Contains(e.player.StationID) {
		return l, true
	}
	l, err := e.g.FirstLineThrough(e.player.StationID)
	return l, err == nil
}

func (e *Engine) advance() Outcome {
	cur := e.player.StationID
	line, ok := e.currentLine()
	if !ok {
		return OutcomeNone
	}
	next := line.Next(cur)
	if next == cur {
		// terminus: continue on the opposite direction
		if cp, err := e.g.Counterpart(line); err == nil && cp.Contains(cur) {
			line = cp
			next = cp.Next(cur)
		}
	}
	if !e.g.HasStation(next) {
		next = cur
	}
	e.player = PacmanState{StationID: next, LineID: line.ID}

	if !e.mode.Schematic() {
		if e.target != nil && e.target.StationID == next {
			return OutcomeWin
		}
		return OutcomeNone
	}
	e.moveGhosts()
	return e.collide()
}

func (e *Engine) moveGhosts() {
	for i, ghost := range e.ghosts {
		links, err := e.g.ResolvedLinks(ghost.StationID)
		if err != nil || len(links) == 0 {
			continue
		}
		e.ghosts[i].StationID = links[e.rng.Intn(len(links))].TargetID
	}
}

func (e *Engine) collide() Outcome {
	outcome := OutcomeNone
	for _, ghost := range e.ghosts {
		if ghost.StationID != e.player.StationID {
			continue
		}
		e.lives--
		if e.lives <= 0 {
			e.lives = 0
			return OutcomeGameOver
		}
		if err := e.respawn(); err != nil {
			log.Printf("respawn failed: %v", err)
		}
		outcome = OutcomeLifeLost
		break
	}

	// one collectible per tick, even when several share the station
	idx := -1
	for i, f := range e.fruits {
		if f.StationID == e.player.StationID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return outcome
	}
	e.fruits = append(e.fruits[:idx], e.fruits[idx+1:]...)
	e.score += e.opts.FruitBonus
	if len(e.fruits) == 0 {
		return OutcomeWin
	}
	if outcome == OutcomeNone {
		return OutcomeFruitCollected
	}
	return outcome
}

// switchLine cycles to the next line serving the current station
func (e *Engine) switchLine() {
	lines, err := e.g.LinesThrough(e.player.StationID)
	if err != nil || len(lines) == 0 {
		return
	}
	idx := -1
	for i, l := range lines {
		if l.ID == e.player.LineID {
			idx = i
			break
		}
	}
	e.player.LineID = lines[(idx+1)%len(lines)].ID
}
