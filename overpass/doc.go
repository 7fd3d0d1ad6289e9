// Package overpass fetches subway relations and their stop nodes from an
// Overpass API endpoint. Responses can be cached by query text.
package overpass
