package meteo

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/apiary-site-analyzer/internal/domain"
	"github.com/couchcryptid/apiary-site-analyzer/internal/httpx"
)

const forecastFixture = `{
	"current_weather": {"temperature": 22.5, "windspeed": 10.3, "time": "2026-08-24T10:00"},
	"hourly": {
		"time": ["2026-08-24T09:00", "2026-08-24T10:00", "2026-08-24T11:00"],
		"relativehumidity_2m": [48, 61, 70]
	}
}`

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testHTTPClient() *httpx.Client {
	return httpx.New(httpx.Config{
		Timeout:        5 * time.Second,
		MaxAttempts:    1,
		InitialBackoff: time.Millisecond,
	}, discardLogger())
}

func TestFetchWeather_MatchesCurrentHour(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(forecastFixture))
	}))
	defer srv.Close()

	c := NewWeatherClient(srv.URL, testHTTPClient(), discardLogger())

	sample, err := c.FetchWeather(context.Background(), 41.0, 29.0)
	require.NoError(t, err)

	assert.Equal(t, domain.WeatherSample{TemperatureC: 22.5, WindspeedKmh: 10.3, HumidityPct: 61}, sample)
	assert.Equal(t, []string{"41"}, gotQuery["latitude"])
	assert.Equal(t, []string{"29"}, gotQuery["longitude"])
	assert.Equal(t, []string{"true"}, gotQuery["current_weather"])
	assert.Equal(t, []string{"relativehumidity_2m,time"}, gotQuery["hourly"])
	assert.Equal(t, []string{"auto"}, gotQuery["timezone"])
}

func TestFetchWeather_FallsBackToFirstHour(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"current_weather": {"temperature": 18.0, "windspeed": 6.0, "time": "2026-08-24T10:17"},
			"hourly": {
				"time": ["2026-08-24T09:00", "2026-08-24T10:00"],
				"relativehumidity_2m": [48, 61]
			}
		}`))
	}))
	defer srv.Close()

	c := NewWeatherClient(srv.URL, testHTTPClient(), discardLogger())

	sample, err := c.FetchWeather(context.Background(), 41.0, 29.0)
	require.NoError(t, err)
	assert.Equal(t, 48, sample.HumidityPct)
}

func TestFetchWeather_NoHumiditySeries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"current_weather": {"temperature": 18.0, "windspeed": 6.0, "time": "2026-08-24T10:00"}}`))
	}))
	defer srv.Close()

	c := NewWeatherClient(srv.URL, testHTTPClient(), discardLogger())

	sample, err := c.FetchWeather(context.Background(), 41.0, 29.0)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultHumidityPct, sample.HumidityPct)
}

func TestFetchWeather_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewWeatherClient(srv.URL, testHTTPClient(), discardLogger())

	_, err := c.FetchWeather(context.Background(), 41.0, 29.0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch weather")
}

func TestSelectHumidity(t *testing.T) {
	times := []string{"T09", "T10", "T11"}

	t.Run("exact match", func(t *testing.T) {
		assert.Equal(t, 61, selectHumidity("T10", times, []float64{48, 61, 70}))
	})

	t.Run("no match falls back to first", func(t *testing.T) {
		assert.Equal(t, 48, selectHumidity("T23", times, []float64{48, 61, 70}))
	})

	t.Run("match beyond series length falls back to first", func(t *testing.T) {
		assert.Equal(t, 48, selectHumidity("T11", times, []float64{48, 61}))
	})

	t.Run("empty series uses default", func(t *testing.T) {
		assert.Equal(t, domain.DefaultHumidityPct, selectHumidity("T10", times, nil))
	})

	t.Run("fraction truncated", func(t *testing.T) {
		assert.Equal(t, 61, selectHumidity("T10", times, []float64{48, 61.9, 70}))
	})

	t.Run("out of range clamped", func(t *testing.T) {
		assert.Equal(t, 100, selectHumidity("T10", times, []float64{48, 140, 70}))
		assert.Equal(t, 0, selectHumidity("T10", times, []float64{48, -3, 70}))
	})
}

func TestFetchTerrain_DerivesSlope(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`{"elevation": [100, 110, 100]}`))
	}))
	defer srv.Close()

	c := NewElevationClient(srv.URL, testHTTPClient(), discardLogger())

	sample, err := c.FetchTerrain(context.Background(), 41.0, 29.0)
	require.NoError(t, err)

	assert.Equal(t, domain.TerrainSample{SlopePercent: 9, AspectDegrees: 180, ElevationMeters: 100}, sample)
	assert.Equal(t, []string{"41,41.001,41"}, gotQuery["latitude"])
	assert.Equal(t, []string{"29,29,29.001"}, gotQuery["longitude"])
}

func TestFetchTerrain_ShortResponseIsFlat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"elevation": [250]}`))
	}))
	defer srv.Close()

	c := NewElevationClient(srv.URL, testHTTPClient(), discardLogger())

	sample, err := c.FetchTerrain(context.Background(), 41.0, 29.0)
	require.NoError(t, err)
	assert.Equal(t, domain.TerrainSample{}, sample)
}

func TestFetchTerrain_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewElevationClient(srv.URL, testHTTPClient(), discardLogger())

	_, err := c.FetchTerrain(context.Background(), 41.0, 29.0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetch elevation")
}

func TestFetchTerrain_BadPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	c := NewElevationClient(srv.URL, testHTTPClient(), discardLogger())

	_, err := c.FetchTerrain(context.Background(), 41.0, 29.0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode elevation response")
}
