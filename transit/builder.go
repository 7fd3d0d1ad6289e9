package transit

import (
	"log"
)

// Builder assembles a Graph from line records first and station records
// second. It is not safe for concurrent use.
type Builder struct {
	g      *Graph
	byName map[string]string // station name -> canonical id
	built  bool
}

// NewBuilder creates an empty builder
func NewBuilder() *Builder {
	return &Builder{
		g:      newGraph(),
		byName: map[string]string{},
	}
}

// AddLines ingests line topology. Every consecutive pair of a line's sequence
// becomes a directed link tagged with the line. Returns the number of lines added.
func (b *Builder) AddLines(records []LineRecord) int {
	added := 0
	for _, rec := range records {
		if len(rec.StationIDs) == 0 {
			log.Printf("skipping line %s: no stations", rec.ID)
			continue
		}
		if _, dup := b.g.lineIdx[rec.ID]; dup {
			log.Printf("skipping line %s: duplicate id", rec.ID)
			continue
		}
		color := rec.Colour
		if color == "" {
			color = DefaultLineColor
		}
		line := &MetroLine{
			ID:         rec.ID,
			Name:       rec.Ref,
			Color:      color,
			StationIDs: append([]string(nil), rec.StationIDs...),
			Terminus:   rec.To,
		}
		b.g.lineIdx[line.ID] = len(b.g.lines)
		b.g.lines = append(b.g.lines, line)

		for i, id := range line.StationIDs {
			s := b.ensureStation(id)
			if i < len(line.StationIDs)-1 {
				s.Links = append(s.Links, StationLink{LineID: line.ID, TargetID: line.StationIDs[i+1]})
			}
		}
		added++
	}
	return added
}

func (b *Builder) ensureStation(id string) *Station {
	if s, ok := b.g.stations[id]; ok {
		return s
	}
	s := &Station{ID: id}
	b.g.stations[id] = s
	b.g.order = append(b.g.order, id)
	return s
}

// StationIDs returns the ids referenced by the ingested lines, in table order.
// These are the ids whose attributes must be requested next.
func (b *Builder) StationIDs() []string {
	return append([]string(nil), b.g.order...)
}

// AddStations attaches names and coordinates to the bare stations. A record
// whose name was already seen on another station is merged into that station.
// Returns how many records were merged and how many were skipped.
func (b *Builder) AddStations(records []StationRecord) (merged, skipped int) {
	for _, rec := range records {
		s, ok := b.g.stations[rec.ID]
		if !ok {
			log.Printf("skipping station %s (%s): not referenced by any line", rec.ID, rec.Name)
			skipped++
			continue
		}
		if s.described {
			skipped++
			continue
		}
		if canonID, ok := b.byName[rec.Name]; ok {
			b.merge(canonID, rec.ID)
			merged++
			continue
		}
		s.Name = rec.Name
		s.Geo = Coordinate{Lat: rec.Lat, Lon: rec.Lon}
		s.described = true
		b.byName[rec.Name] = rec.ID
	}
	return merged, skipped
}

// merge folds dupID into canonID: links are appended, line sequences and
// links that point at the duplicate are rewritten, and the duplicate leaves
// the table.
func (b *Builder) merge(canonID, dupID string) {
	canon := b.g.stations[canonID]
	dup := b.g.stations[dupID]
	canon.Links = append(canon.Links, dup.Links...)

	for _, l := range b.g.lines {
		for i, id := range l.StationIDs {
			if id == dupID {
				l.StationIDs[i] = canonID
			}
		}
	}
	for _, s := range b.g.stations {
		for i := range s.Links {
			if s.Links[i].TargetID == dupID {
				s.Links[i].TargetID = canonID
			}
		}
	}
	b.removeStation(dupID)
	log.Printf("merged station %s into %s (%s)", dupID, canonID, canon.Name)
}

func (b *Builder) removeStation(id string) {
	delete(b.g.stations, id)
	for i, o := range b.g.order {
		if o == id {
			b.g.order = append(b.g.order[:i], b.g.order[i+1:]...)
			break
		}
	}
}

// Build finalizes the graph. Stations that never received attributes are
// dropped from the table and from every line, with their neighbors linked
// directly. Repeated ids left next to each other by merging are collapsed.
// The builder must not be used afterwards.
func (b *Builder) Build() (*Graph, error) {
	if b.built {
		if !b.g.built() {
			return nil, ErrGraphNotBuilt
		}
		return b.g, nil
	}
	missing := map[string]struct{}{}
	for _, id := range b.g.order {
		if !b.g.stations[id].described {
			missing[id] = struct{}{}
		}
	}
	for id := range missing {
		log.Printf("dropping station %s: no station record", id)
		b.removeStation(id)
	}

	lines := b.g.lines[:0]
	b.g.lineIdx = map[string]int{}
	for _, l := range b.g.lines {
		seq := make([]string, 0, len(l.StationIDs))
		for _, id := range l.StationIDs {
			if _, gone := missing[id]; gone {
				continue
			}
			if len(seq) > 0 && seq[len(seq)-1] == id {
				continue
			}
			seq = append(seq, id)
		}
		if len(seq) == 0 {
			log.Printf("dropping line %s (%s): no resolvable stations", l.ID, l.Name)
			continue
		}
		l.StationIDs = seq
		for i := 0; i < len(seq)-1; i++ {
			b.ensureLink(seq[i], l.ID, seq[i+1])
		}
		b.g.lineIdx[l.ID] = len(lines)
		lines = append(lines, l)
	}
	b.g.lines = lines

	for _, s := range b.g.stations {
		links := s.Links[:0]
		for _, l := range s.Links {
			if _, gone := missing[l.TargetID]; gone {
				continue
			}
			if l.TargetID == s.ID {
				continue
			}
			links = append(links, l)
		}
		s.Links = links
	}

	b.built = true
	if !b.g.built() {
		return nil, ErrGraphNotBuilt
	}
	log.Printf("transit graph built: %d stations, %d lines", len(b.g.order), len(b.g.lines))
	return b.g, nil
}

func (b *Builder) ensureLink(from, lineID, to string) {
	s := b.g.stations[from]
	for _, l := range s.Links {
		if l.LineID == lineID && l.TargetID == to {
			return
		}
	}
	s.Links = append(s.Links, StationLink{LineID: lineID, TargetID: to})
}
