package domain

import "time"

// AnalysisResult is the full scored analysis for one site: the wire format
// of both the HTTP response and the published Kafka message.
type AnalysisResult struct {
	ID          string         `json:"id"`
	Score       int            `json:"score"`
	Rationale   string         `json:"rationale"`
	Breakdown   map[string]int `json:"breakdown"`
	Details     Details        `json:"details"`
	Heatmap     Heatmap        `json:"heatmap"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// Details carries the raw measurements behind the breakdown, so a consumer
// can see why a category scored the way it did.
type Details struct {
	FloraTypes     string  `json:"flora_types"`
	WaterDistanceM int     `json:"water_distance_m"`
	WindKmh        float64 `json:"wind_kmh"`
	TemperatureC   float64 `json:"temperature_c"`
	HumidityPct    int     `json:"humidity_pct"`
	SlopePct       int     `json:"slope_pct"`
	AspectDeg      int     `json:"aspect_deg"`
	AspectCompass  string  `json:"aspect_compass"`
	ElevationM     int     `json:"elevation_m"`
	BuildingCount  int     `json:"building_count"`
	RadiusM        int     `json:"radius_m"`
	DataNotes      string  `json:"data_notes"`
}
