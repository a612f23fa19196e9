package domain

import (
	"math"

	"github.com/couchcryptid/apiary-site-analyzer/internal/geo"
)

// TerrainOffsetDegrees is the spacing of the elevation sample grid: roughly
// 111 m north and, depending on latitude, up to 111 m east of the center.
const TerrainOffsetDegrees = 0.001

// maxSlopePercent caps the derived grade; anything steeper is a data
// artifact rather than a plausible apiary site.
const maxSlopePercent = 200

// TerrainSample describes the site's local topography derived from three
// elevation samples.
type TerrainSample struct {
	// SlopePercent is the grade of the steepest descent, in percent.
	SlopePercent int
	// AspectDegrees is the downhill direction, compass degrees [0, 360).
	// Zero on flat terrain.
	AspectDegrees int
	// ElevationMeters is the elevation at the site center.
	ElevationMeters int
}

// SamplePoint is one coordinate of the elevation sample grid.
type SamplePoint struct {
	Lat float64
	Lng float64
}

// TerrainSamplePoints returns the three-point grid used to estimate the
// local gradient: the center, one step north, and one step east.
func TerrainSamplePoints(lat, lng float64) [3]SamplePoint {
	return [3]SamplePoint{
		{Lat: lat, Lng: lng},
		{Lat: lat + TerrainOffsetDegrees, Lng: lng},
		{Lat: lat, Lng: lng + TerrainOffsetDegrees},
	}
}

// DeriveTerrain computes slope, aspect, and elevation from the sample grid
// returned by [TerrainSamplePoints]. The elevations slice must hold the
// center, north, and east samples in that order; with fewer than three
// samples, or at latitudes where the east step degenerates to zero meters,
// the terrain is reported as flat.
func DeriveTerrain(lat float64, elevations []float64) TerrainSample {
	if len(elevations) < 3 {
		return TerrainSample{}
	}

	dyM := TerrainOffsetDegrees * geo.MetersPerDegreeLat
	dxM := TerrainOffsetDegrees * geo.MetersPerDegreeLon(lat)
	if dxM <= 1e-6 || dyM <= 1e-6 {
		return TerrainSample{}
	}

	h0, hNorth, hEast := elevations[0], elevations[1], elevations[2]
	dzdy := (hNorth - h0) / dyM
	dzdx := (hEast - h0) / dxM

	slope := math.Tan(math.Atan(math.Sqrt(dzdx*dzdx+dzdy*dzdy))) * 100
	slope = clamp(slope, 0, maxSlopePercent)

	// Aspect points downhill: the compass direction a droplet would flow.
	aspect := math.Mod(radiansToDegrees(math.Atan2(-dzdx, -dzdy))+360, 360)

	return TerrainSample{
		SlopePercent:    int(math.Round(slope)),
		AspectDegrees:   int(math.Round(aspect)) % 360,
		ElevationMeters: int(math.Round(h0)),
	}
}

func radiansToDegrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
