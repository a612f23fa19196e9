package domain

import "context"

// LandCoverSource fetches classified OSM features around a site.
type LandCoverSource interface {
	FetchFeatures(ctx context.Context, lat, lng float64, radiusM int) ([]LandFeature, error)
}

// WeatherSource fetches the current-conditions sample for a site.
type WeatherSource interface {
	FetchWeather(ctx context.Context, lat, lng float64) (WeatherSample, error)
}

// TerrainSource fetches the derived terrain sample for a site.
type TerrainSource interface {
	FetchTerrain(ctx context.Context, lat, lng float64) (TerrainSample, error)
}
