package game

// Snapshot is an immutable copy of the engine state after a tick
type Snapshot struct {
	Turn    int          `json:"turn"`
	Mode    Mode         `json:"mode"`
	Player  PacmanState  `json:"player"`
	Ghosts  []GhostState `json:"ghosts"`
	Fruits  []FruitState `json:"fruits"`
	Home    HomeState    `json:"home"`
	Target  *TargetState `json:"target,omitempty"`
	Lives   int          `json:"lives"`
	Score   int          `json:"score"`
	Outcome Outcome      `json:"outcome"`
}

// Finished reports whether the game is over or won
func (s Snapshot) Finished() bool { return s.Outcome.Finished() }

// Snapshot returns a copy of the current state
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		Turn:    e.turn,
		Mode:    e.mode,
		Player:  e.player,
		Ghosts:  append([]GhostState{}, e.ghosts...),
		Fruits:  append([]FruitState{}, e.fruits...),
		Home:    e.home,
		Lives:   e.lives,
		Score:   e.score,
		Outcome: e.outcome,
	}
	if e.target != nil {
		t := *e.target
		snap.Target = &t
	}
	return snap
}
