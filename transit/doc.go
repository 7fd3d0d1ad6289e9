/*
Package transit builds and queries the in-memory metro graph.

The graph is assembled in two ordered phases, mirroring how the raw data arrives:

	b := transit.NewBuilder()

	// Phase one: line topology. Stations exist only as bare ids with links.
	lines, skipped, _ := transit.ParseLineElements(linePayload)
	b.AddLines(lines)

	// Phase two: attributes for exactly the ids the lines reference.
	stations, _, _ := transit.ParseStationElements(fetch(b.StationIDs()))
	b.AddStations(stations)

	g, err := b.Build()

# Storage

Stations live in a table keyed by canonical station id, iterated in insertion order.
Links are (line id, target id) value pairs, so merging two stations only rewrites table
entries and never invalidates a handle held elsewhere.

# Deduplication

OpenStreetMap often models one stop as several nodes (one per platform or direction).
Stations whose display names match exactly are merged into the first one seen. The
match is case-sensitive and has no fuzzy component, so two distinct stops sharing a
name are merged as well.

# Queries

Every query on a graph that Build did not return, including the list accessors and
ApplySchematic, fails with ErrGraphNotBuilt. HasStation is the one predicate and
reports false. Lookups of unknown ids wrap ErrNotFound. Nearest never
fails on a built graph: a station without a schematic coordinate is measured at its
geographic coordinate.
*/
package transit
