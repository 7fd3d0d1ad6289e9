package transit

import (
	"github.com/golang/geo/s2"
)

// EarthRadiusMeters matches the sphere used by common web map libraries
const EarthRadiusMeters = 6371000.0

// Distance returns the great-circle distance between a and b in meters
func Distance(a, b Coordinate) float64 {
	angle := s2.LatLngFromDegrees(a.Lat, a.Lon).Distance(s2.LatLngFromDegrees(b.Lat, b.Lon))
	return angle.Radians() * EarthRadiusMeters
}

// LatDistance is the meridian distance between two latitudes, in meters
func LatDistance(a, b Coordinate) float64 {
	return Distance(Coordinate{Lat: a.Lat}, Coordinate{Lat: b.Lat})
}

// LonDistance is the equatorial distance between two longitudes, in meters.
// It does not shrink with latitude.
func LonDistance(a, b Coordinate) float64 {
	return Distance(Coordinate{Lon: a.Lon}, Coordinate{Lon: b.Lon})
}

// Interpolate linearly interpolates between two coordinates
func Interpolate(start, end Coordinate, fraction float64) Coordinate {
	return Coordinate{
		Lat: start.Lat + (end.Lat-start.Lat)*fraction,
		Lon: start.Lon + (end.Lon-start.Lon)*fraction,
	}
}
