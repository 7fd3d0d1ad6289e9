package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPresentableDistance(t *testing.T) {
	tests := []struct {
		name     string
		meters   float64
		expected string
	}{
		{name: "at station", meters: 30, expected: "at station"},
		{name: "close by", meters: 347, expected: "350 m"},
		{name: "under a kilometer", meters: 880, expected: "900 m"},
		{name: "kilometers", meters: 1234, expected: "1.2 km"},
		{name: "negative", meters: -1, expected: "unknown"},
		{name: "nan", meters: math.NaN(), expected: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PresentableDistance(tt.meters))
		})
	}
}

func TestPresentableStations(t *testing.T) {
	assert.Equal(t, "1 station", PresentableStations(1))
	assert.Equal(t, "4 stations", PresentableStations(4))
}
