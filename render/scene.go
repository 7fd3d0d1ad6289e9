// Package render turns a transit graph and a game snapshot into a scene: the
// plain data an external renderer draws. DrawPNG rasterizes a scene for
// exports and debugging.
package render

import (
	"github.com/theoremus-urban-solutions/metro-pacman/game"
	"github.com/theoremus-urban-solutions/metro-pacman/transit"
)

// SceneStation is a station at its active coordinate
type SceneStation struct {
	ID     string             `json:"id"`
	Name   string             `json:"name"`
	Coord  transit.Coordinate `json:"coord"`
	Anchor bool               `json:"anchor"`
	Lines  []string           `json:"lines"`
}

// SceneLine is a line with its drawing path
type SceneLine struct {
	ID       string               `json:"id"`
	Name     string               `json:"name"`
	Color    string               `json:"color"`
	Terminus string               `json:"terminus"`
	Path     []transit.Coordinate `json:"path"`
}

// Marker places an entity on a station
type Marker struct {
	StationID string             `json:"stationId"`
	Coord     transit.Coordinate `json:"coord"`
	Label     string             `json:"label,omitempty"`
}

// Scene is everything needed to draw one frame
type Scene struct {
	Schematic bool           `json:"schematic"`
	Stations  []SceneStation `json:"stations"`
	Lines     []SceneLine    `json:"lines"`
	Player    *Marker        `json:"player,omitempty"`
	Ghosts    []Marker       `json:"ghosts"`
	Fruits    []Marker       `json:"fruits"`
	Home      *Marker        `json:"home,omitempty"`
	Target    *Marker        `json:"target,omitempty"`
	Lives     int            `json:"lives"`
	Score     int            `json:"score"`
	Outcome   game.Outcome   `json:"outcome"`
}

// BuildScene reads g and snap without modifying either. Pursuers and
// collectibles are only shown in pursuit mode and the target only in free roam.
func BuildScene(g *transit.Graph, snap game.Snapshot) (Scene, error) {
	stations, err := g.Stations()
	if err != nil {
		return Scene{}, err
	}
	lines, err := g.Lines()
	if err != nil {
		return Scene{}, err
	}

	schematic := snap.Mode.Schematic()
	scene := Scene{
		Schematic: schematic,
		Stations:  []SceneStation{},
		Lines:     []SceneLine{},
		Ghosts:    []Marker{},
		Fruits:    []Marker{},
		Lives:     snap.Lives,
		Score:     snap.Score,
		Outcome:   snap.Outcome,
	}

	coords := map[string]transit.Coordinate{}
	for _, s := range stations {
		c := s.Coord(schematic)
		coords[s.ID] = c
		scene.Stations = append(scene.Stations, SceneStation{
			ID:     s.ID,
			Name:   s.Name,
			Coord:  c,
			Anchor: s.IsAnchor(),
			Lines:  []string{},
		})
	}
	stationIdx := map[string]int{}
	for i, s := range scene.Stations {
		stationIdx[s.ID] = i
	}

	for _, l := range lines {
		sl := SceneLine{ID: l.ID, Name: l.Name, Color: l.Color, Terminus: l.Terminus}
		for _, id := range l.StationIDs {
			c, ok := coords[id]
			if !ok {
				continue
			}
			sl.Path = append(sl.Path, c)
			st := &scene.Stations[stationIdx[id]]
			if !contains(st.Lines, l.ID) {
				st.Lines = append(st.Lines, l.ID)
			}
		}
		scene.Lines = append(scene.Lines, sl)
	}

	marker := func(id, label string) *Marker {
		c, ok := coords[id]
		if !ok {
			return nil
		}
		return &Marker{StationID: id, Coord: c, Label: label}
	}

	scene.Player = marker(snap.Player.StationID, snap.Player.LineID)
	scene.Home = marker(snap.Home.StationID, "home")
	if schematic {
		for _, gh := range snap.Ghosts {
			if m := marker(gh.StationID, ""); m != nil {
				scene.Ghosts = append(scene.Ghosts, *m)
			}
		}
		for _, f := range snap.Fruits {
			if m := marker(f.StationID, ""); m != nil {
				scene.Fruits = append(scene.Fruits, *m)
			}
		}
	} else if snap.Target != nil {
		scene.Target = marker(snap.Target.StationID, snap.Target.Label)
	}
	return scene, nil
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
