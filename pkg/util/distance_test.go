package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceMeters(t *testing.T) {
	tests := []struct {
		name      string
		lat1      float64
		lon1      float64
		lat2      float64
		lon2      float64
		want      float64
		tolerance float64
	}{
		{
			name: "Same point",
			lat1: 40.7128, lon1: -74.0060,
			lat2: 40.7128, lon2: -74.0060,
			want:      0,
			tolerance: 0.001,
		},
		{
			name: "New York to Los Angeles",
			lat1: 40.7128, lon1: -74.0060,
			lat2: 34.0522, lon2: -118.2437,
			want:      3935746, // ~3936 km
			tolerance: 10000,
		},
		{
			name: "Short distance within a city",
			lat1: 40.7128, lon1: -74.0060,
			lat2: 40.7228, lon2: -74.0060,
			want:      1112, // ~1.1 km due north
			tolerance: 10,
		},
		{
			name: "Across the equator",
			lat1: 0.01, lon1: 0,
			lat2: -0.01, lon2: 0,
			want:      2224,
			tolerance: 10,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DistanceMeters(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			assert.InDelta(t, tt.want, got, tt.tolerance)
		})
	}
}

func TestDistanceMeters_Symmetry(t *testing.T) {
	d1 := DistanceMeters(48.8566, 2.3522, 51.5074, -0.1278)
	d2 := DistanceMeters(51.5074, -0.1278, 48.8566, 2.3522)
	assert.InDelta(t, d1, d2, 0.001)
}
