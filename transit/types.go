package transit

// Coordinate is a WGS84 position in degrees
type Coordinate struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// StationLink points to the next station along a line in one direction
type StationLink struct {
	LineID   string `json:"lineId"`
	TargetID string `json:"targetId"`
}

// Station is a canonical (post-merge) stop
type Station struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Geo       Coordinate    `json:"geo"`
	Schematic *Coordinate   `json:"schematic,omitempty"`
	Links     []StationLink `json:"links"`

	described bool
}

// Coord returns the coordinate used for display. A missing schematic
// coordinate falls back to the geographic one.
func (s Station) Coord(schematic bool) Coordinate {
	if schematic && s.Schematic != nil {
		return *s.Schematic
	}
	return s.Geo
}

// IsAnchor reports whether the station is a junction. Anchors keep their
// geographic coordinate in the schematic layout.
func (s Station) IsAnchor() bool { return len(s.Links) > 2 }

func (s Station) clone() Station {
	out := s
	out.Links = append([]StationLink(nil), s.Links...)
	if s.Schematic != nil {
		c := *s.Schematic
		out.Schematic = &c
	}
	return out
}

// MetroLine is one travel direction of a route. Two lines sharing Name but
// differing in Terminus form a line pair.
type MetroLine struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Color      string   `json:"color"`
	StationIDs []string `json:"stationIds"`
	Terminus   string   `json:"terminus"`
}

// IndexOf returns the first position of stationID in the sequence or -1
func (l MetroLine) IndexOf(stationID string) int {
	for i, id := range l.StationIDs {
		if id == stationID {
			return i
		}
	}
	return -1
}

// Contains reports whether the line serves stationID
func (l MetroLine) Contains(stationID string) bool { return l.IndexOf(stationID) >= 0 }

// Next returns the forward neighbor of stationID. At the terminus, or for a
// station the line does not serve, stationID itself is returned.
func (l MetroLine) Next(stationID string) string {
	idx := l.IndexOf(stationID)
	if idx < 0 || idx >= len(l.StationIDs)-1 {
		return stationID
	}
	return l.StationIDs[idx+1]
}

// Previous returns the backward neighbor of stationID, or stationID at the
// first station.
func (l MetroLine) Previous(stationID string) string {
	idx := l.IndexOf(stationID)
	if idx <= 0 {
		return stationID
	}
	return l.StationIDs[idx-1]
}

func (l MetroLine) clone() MetroLine {
	out := l
	out.StationIDs = append([]string(nil), l.StationIDs...)
	return out
}
