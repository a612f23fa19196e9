package domain

import "math/rand"

const (
	heatmapPoints        = 24
	heatmapJitterDegrees = 0.01
	heatmapStdDev        = 8.0
	heatmapFloor         = 5
	heatmapCeil          = 100
)

// Heatmap is a simulated score surface around the site, for map overlays.
// Simulated is always true: the points are jittered draws around the real
// score, not independently analyzed locations.
type Heatmap struct {
	Simulated bool           `json:"simulated"`
	Points    []HeatmapPoint `json:"points"`
}

// HeatmapPoint is one overlay sample.
type HeatmapPoint struct {
	Lat   float64 `json:"lat"`
	Lng   float64 `json:"lng"`
	Value int     `json:"val"`
}

// BuildHeatmap scatters points uniformly within ±0.01° of the site center
// and assigns each a normal draw around the base score. The caller supplies
// the rand source, so tests can seed it.
func BuildHeatmap(rng *rand.Rand, lat, lng float64, baseScore int) Heatmap {
	points := make([]HeatmapPoint, 0, heatmapPoints)
	for i := 0; i < heatmapPoints; i++ {
		jitterLat := (rng.Float64()*2 - 1) * heatmapJitterDegrees
		jitterLng := (rng.Float64()*2 - 1) * heatmapJitterDegrees
		value := rng.NormFloat64()*heatmapStdDev + float64(baseScore)
		points = append(points, HeatmapPoint{
			Lat:   lat + jitterLat,
			Lng:   lng + jitterLng,
			Value: int(clamp(value, heatmapFloor, heatmapCeil)),
		})
	}
	return Heatmap{Simulated: true, Points: points}
}
