// Package meteo fetches current weather and elevation samples from the
// Open-Meteo forecast and elevation APIs.
package meteo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/couchcryptid/apiary-site-analyzer/internal/domain"
	"github.com/couchcryptid/apiary-site-analyzer/internal/httpx"
)

// WeatherClient implements domain.WeatherSource using the Open-Meteo
// forecast API.
type WeatherClient struct {
	baseURL    string
	httpClient *httpx.Client
	logger     *slog.Logger
}

// NewWeatherClient creates a forecast client. baseURL is the full forecast
// endpoint, e.g. https://api.open-meteo.com/v1/forecast.
func NewWeatherClient(baseURL string, httpClient *httpx.Client, logger *slog.Logger) *WeatherClient {
	return &WeatherClient{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// FetchWeather returns the current conditions at the given point. Humidity
// comes from the hourly series entry matching the current-weather timestamp;
// when no entry matches, the first hour of the series stands in, and an
// absent series falls back to the neutral default.
func (c *WeatherClient) FetchWeather(ctx context.Context, lat, lng float64) (domain.WeatherSample, error) {
	params := url.Values{
		"latitude":        {formatCoord(lat)},
		"longitude":       {formatCoord(lng)},
		"current_weather": {"true"},
		"hourly":          {"relativehumidity_2m,time"},
		"timezone":        {"auto"},
	}

	body, err := c.httpClient.Get(ctx, c.baseURL+"?"+params.Encode())
	if err != nil {
		return domain.WeatherSample{}, fmt.Errorf("fetch weather: %w", err)
	}

	var resp forecastResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.WeatherSample{}, fmt.Errorf("decode weather response: %w", err)
	}

	humidity := selectHumidity(resp.CurrentWeather.Time, resp.Hourly.Time, resp.Hourly.RelativeHumidity2m)
	return domain.WeatherSample{
		TemperatureC: resp.CurrentWeather.Temperature,
		WindspeedKmh: resp.CurrentWeather.Windspeed,
		HumidityPct:  humidity,
	}, nil
}

// selectHumidity picks the hourly humidity for the current observation time,
// falling back to the first hour of the series, then to the neutral default.
func selectHumidity(currentTime string, times []string, humidities []float64) int {
	if len(humidities) == 0 {
		return domain.DefaultHumidityPct
	}
	value := humidities[0]
	for i, t := range times {
		if t == currentTime && i < len(humidities) {
			value = humidities[i]
			break
		}
	}
	return int(clampF(value, 0, 100))
}

// ElevationClient implements domain.TerrainSource using the Open-Meteo
// elevation API.
type ElevationClient struct {
	baseURL    string
	httpClient *httpx.Client
	logger     *slog.Logger
}

// NewElevationClient creates an elevation client. baseURL is the full
// elevation endpoint, e.g. https://api.open-meteo.com/v1/elevation.
func NewElevationClient(baseURL string, httpClient *httpx.Client, logger *slog.Logger) *ElevationClient {
	return &ElevationClient{
		baseURL:    baseURL,
		httpClient: httpClient,
		logger:     logger,
	}
}

// FetchTerrain samples elevation at the site center and one step north and
// east, then derives slope and aspect from the gradient. A response with
// fewer than three samples is not an error; it derives as flat terrain.
func (c *ElevationClient) FetchTerrain(ctx context.Context, lat, lng float64) (domain.TerrainSample, error) {
	points := domain.TerrainSamplePoints(lat, lng)

	lats := make([]string, 0, len(points))
	lngs := make([]string, 0, len(points))
	for _, p := range points {
		lats = append(lats, formatCoord(p.Lat))
		lngs = append(lngs, formatCoord(p.Lng))
	}
	params := url.Values{
		"latitude":  {strings.Join(lats, ",")},
		"longitude": {strings.Join(lngs, ",")},
	}

	body, err := c.httpClient.Get(ctx, c.baseURL+"?"+params.Encode())
	if err != nil {
		return domain.TerrainSample{}, fmt.Errorf("fetch elevation: %w", err)
	}

	var resp elevationResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.TerrainSample{}, fmt.Errorf("decode elevation response: %w", err)
	}

	return domain.DeriveTerrain(lat, resp.Elevation), nil
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func clampF(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// Open-Meteo API response types.

type forecastResponse struct {
	CurrentWeather currentWeather `json:"current_weather"`
	Hourly         hourlySeries   `json:"hourly"`
}

type currentWeather struct {
	Temperature float64 `json:"temperature"`
	Windspeed   float64 `json:"windspeed"`
	Time        string  `json:"time"`
}

type hourlySeries struct {
	Time               []string  `json:"time"`
	RelativeHumidity2m []float64 `json:"relativehumidity_2m"`
}

type elevationResponse struct {
	Elevation []float64 `json:"elevation"`
}
