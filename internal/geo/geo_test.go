package geo_test

import (
	"testing"

	"github.com/couchcryptid/apiary-site-analyzer/internal/geo"
	"github.com/stretchr/testify/assert"
)

func TestDistanceIdenticalPointsIsZero(t *testing.T) {
	assert.Zero(t, geo.Distance(41.0, 29.0, 41.0, 29.0))
	assert.Zero(t, geo.Distance(0, 0, 0, 0))
	assert.Zero(t, geo.Distance(-89.9999, 179.9999, -89.9999, 179.9999))
}

func TestDistanceIsSymmetric(t *testing.T) {
	cases := [][4]float64{
		{41.0082, 28.9784, 41.0422, 29.0083}, // across the Bosphorus
		{52.5200, 13.4050, 48.8566, 2.3522},  // Berlin -> Paris
		{-33.8688, 151.2093, 35.6762, 139.6503},
	}
	for _, c := range cases {
		ab := geo.Distance(c[0], c[1], c[2], c[3])
		ba := geo.Distance(c[2], c[3], c[0], c[1])
		assert.InDelta(t, ab, ba, 1e-9)
		assert.Positive(t, ab)
	}
}

func TestDistanceKnownSeparation(t *testing.T) {
	// 0.01° of longitude at 41°N is ~839 m.
	d := geo.Distance(41.0, 29.0, 41.0, 29.01)
	assert.InDelta(t, 839.2, d, 2.0)

	// 0.01° of latitude is ~1112 m anywhere.
	d = geo.Distance(41.0, 29.0, 41.01, 29.0)
	assert.InDelta(t, 1111.9, d, 2.0)
}

func TestDistanceMonotonicInSeparation(t *testing.T) {
	prev := 0.0
	for _, dLng := range []float64{0.001, 0.005, 0.01, 0.05, 0.1} {
		d := geo.Distance(41.0, 29.0, 41.0, 29.0+dLng)
		assert.Greater(t, d, prev)
		prev = d
	}
}

func TestMetersPerDegreeLon(t *testing.T) {
	assert.InDelta(t, geo.MetersPerDegreeLat, geo.MetersPerDegreeLon(0), 1e-9)
	assert.InDelta(t, 84017.0, geo.MetersPerDegreeLon(41.0), 10.0)
	assert.InDelta(t, 0, geo.MetersPerDegreeLon(90), 1e-6)
}

func TestCompassDirection(t *testing.T) {
	cases := []struct {
		deg  float64
		want string
	}{
		{0, "N"},
		{44.9, "N"},
		{45, "NE"},
		{90, "E"},
		{135, "SE"},
		{180, "S"},
		{225, "SW"},
		{270, "W"},
		{315, "NW"},
		{359.9, "NW"},
		{360, "N"},
		{405, "NE"},
		{-45, "NW"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, geo.CompassDirection(c.deg), "deg=%v", c.deg)
	}
}
