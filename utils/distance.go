package utils

import (
	"fmt"
	"math"
)

const (
	atStationMeters   = 100.0
	approachingMeters = 500.0
)

// PresentableDistance formats a distance in meters for display
func PresentableDistance(meters float64) string {
	switch {
	case meters < 0 || math.IsNaN(meters):
		return "unknown"
	case meters < atStationMeters:
		return "at station"
	case meters < approachingMeters:
		return fmt.Sprintf("%d m", int(math.Round(meters/10)*10))
	case meters < 1000:
		return fmt.Sprintf("%d m", int(math.Round(meters/50)*50))
	}
	km := meters / 1000
	return fmt.Sprintf("%.1f km", km)
}

// PresentableStations formats a hop count
func PresentableStations(n int) string {
	return fmt.Sprintf("%d station%s", n, ternary(n == 1, "", "s"))
}

func ternary[T any](cond bool, a, b T) T {
	if cond {
		return a
	}
	return b
}
