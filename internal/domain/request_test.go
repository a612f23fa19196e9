package domain

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	t.Run("valid request passes through", func(t *testing.T) {
		req, err := AnalysisRequest{Lat: 41.02, Lng: 29.01, RadiusM: 3000}.Normalize()
		require.NoError(t, err)
		assert.Equal(t, AnalysisRequest{Lat: 41.02, Lng: 29.01, RadiusM: 3000}, req)
	})

	t.Run("missing radius gets default", func(t *testing.T) {
		req, err := AnalysisRequest{Lat: 41.02, Lng: 29.01}.Normalize()
		require.NoError(t, err)
		assert.Equal(t, DefaultRadiusM, req.RadiusM)
	})

	t.Run("radius clamped to bounds", func(t *testing.T) {
		low, err := AnalysisRequest{Lat: 0, Lng: 0, RadiusM: 10}.Normalize()
		require.NoError(t, err)
		assert.Equal(t, MinRadiusM, low.RadiusM)

		high, err := AnalysisRequest{Lat: 0, Lng: 0, RadiusM: 50000}.Normalize()
		require.NoError(t, err)
		assert.Equal(t, MaxRadiusM, high.RadiusM)
	})

	t.Run("boundary coordinates are valid", func(t *testing.T) {
		for _, req := range []AnalysisRequest{
			{Lat: 90, Lng: 0},
			{Lat: -90, Lng: 0},
			{Lat: 0, Lng: 180},
			{Lat: 0, Lng: -180},
		} {
			_, err := req.Normalize()
			assert.NoError(t, err)
		}
	})

	t.Run("out of range coordinates rejected", func(t *testing.T) {
		cases := []struct {
			name string
			req  AnalysisRequest
			want string
		}{
			{"lat too high", AnalysisRequest{Lat: 90.5, Lng: 0}, "lat"},
			{"lat too low", AnalysisRequest{Lat: -91, Lng: 0}, "lat"},
			{"lng too high", AnalysisRequest{Lat: 0, Lng: 180.1}, "lng"},
			{"lng too low", AnalysisRequest{Lat: 0, Lng: -181}, "lng"},
			{"lat NaN", AnalysisRequest{Lat: math.NaN(), Lng: 0}, "lat"},
			{"lng NaN", AnalysisRequest{Lat: 0, Lng: math.NaN()}, "lng"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := tc.req.Normalize()
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.want)
			})
		}
	})
}

func TestSiteID(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		id1 := SiteID(AnalysisRequest{Lat: 41.02, Lng: 29.01, RadiusM: 2000})
		id2 := SiteID(AnalysisRequest{Lat: 41.02, Lng: 29.01, RadiusM: 2000})
		assert.Equal(t, id1, id2)
	})

	t.Run("site prefix", func(t *testing.T) {
		id := SiteID(AnalysisRequest{Lat: 41.02, Lng: 29.01, RadiusM: 2000})
		assert.True(t, strings.HasPrefix(id, "site-"))
	})

	t.Run("different inputs produce different IDs", func(t *testing.T) {
		base := SiteID(AnalysisRequest{Lat: 41.02, Lng: 29.01, RadiusM: 2000})
		assert.NotEqual(t, base, SiteID(AnalysisRequest{Lat: 41.021, Lng: 29.01, RadiusM: 2000}))
		assert.NotEqual(t, base, SiteID(AnalysisRequest{Lat: 41.02, Lng: 29.01, RadiusM: 2500}))
	})

	t.Run("insensitive to sub-centimeter jitter", func(t *testing.T) {
		id1 := SiteID(AnalysisRequest{Lat: 41.020000001, Lng: 29.01, RadiusM: 2000})
		id2 := SiteID(AnalysisRequest{Lat: 41.020000002, Lng: 29.01, RadiusM: 2000})
		assert.Equal(t, id1, id2)
	})
}
