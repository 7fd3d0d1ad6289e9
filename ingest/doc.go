// Package ingest loads a transit graph from a raw data source in two ordered
// phases: line topology first, then the stations it references. The finished
// graph carries its schematic layout.
package ingest
