package domain

// DefaultHumidityPct stands in when the hourly humidity series is missing
// or cannot be matched to the current observation.
const DefaultHumidityPct = 50

// WeatherSample is the current-conditions snapshot used for scoring.
type WeatherSample struct {
	TemperatureC float64
	WindspeedKmh float64
	HumidityPct  int
}

// DefaultWeather is the neutral sample used when the weather source is
// unavailable: calm wind scores as ideal, mid-range humidity as comfortable.
func DefaultWeather() WeatherSample {
	return WeatherSample{HumidityPct: DefaultHumidityPct}
}
