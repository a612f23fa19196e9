package domain

import (
	"fmt"
	"math"
	"strings"

	"github.com/couchcryptid/apiary-site-analyzer/internal/geo"
)

// Breakdown category keys.
const (
	CategoryFlora    = "flora"
	CategoryWater    = "water"
	CategoryWind     = "wind"
	CategoryHumidity = "humidity"
	CategorySlope    = "slope"
	CategoryAspect   = "aspect"
	CategoryPressure = "pressure"
)

// Category weights in the total score. Forage and water access dominate;
// the rest are secondary site-quality signals.
const (
	weightFlora = 0.30
	weightWater = 0.20
	weightOther = 0.10
)

// noWaterScore is the water subscore for sites with no mapped water at all.
const noWaterScore = 10

// floraWeights ranks flora kinds by nectar and pollen value per feature.
var floraWeights = map[FeatureKind]int{
	KindForest:   5,
	KindOrchard:  4,
	KindScrub:    2,
	KindMeadow:   2,
	KindFarmland: 1,
}

// floraLabelOrder fixes the order of flora labels in the details text.
var floraLabelOrder = []struct {
	kinds []FeatureKind
	label string
}{
	{[]FeatureKind{KindForest}, "forest"},
	{[]FeatureKind{KindOrchard}, "orchard"},
	{[]FeatureKind{KindScrub, KindMeadow}, "scrub/meadow"},
	{[]FeatureKind{KindFarmland}, "farmland"},
}

// dataNotes is attached to every result so consumers do not mistake the
// score for a ground-truth survey.
const dataNotes = "Approximate scoring derived from OpenStreetMap and Open-Meteo proxy data."

// Evaluation is the scored outcome for one site.
type Evaluation struct {
	Score     int
	Breakdown map[string]int
	Details   Details
	Rationale string
}

// EvaluateSite scores a normalized request against the fetched land cover,
// weather, and terrain. It is pure: same inputs, same output.
func EvaluateSite(req AnalysisRequest, features []LandFeature, weather WeatherSample, terrain TerrainSample) Evaluation {
	idx := NewFeatureIndex(features)

	floraScore, floraTypes := scoreFlora(idx)
	waterScore, waterDistM, waterFound := scoreWater(idx, req.Lat, req.Lng)
	windScore := scoreWind(weather.WindspeedKmh)
	humidityScore := scoreHumidity(weather.HumidityPct)
	slopeScore := scoreSlope(terrain.SlopePercent)
	aspectScore := scoreAspect(terrain.AspectDegrees)
	pressureScore := scorePressure(idx.Count(KindBuilding), req.RadiusM)

	total := float64(floraScore)*weightFlora +
		float64(waterScore)*weightWater +
		float64(windScore+humidityScore+slopeScore+aspectScore+pressureScore)*weightOther

	breakdown := map[string]int{
		CategoryFlora:    floraScore,
		CategoryWater:    waterScore,
		CategoryWind:     windScore,
		CategoryHumidity: humidityScore,
		CategorySlope:    slopeScore,
		CategoryAspect:   aspectScore,
		CategoryPressure: pressureScore,
	}

	details := Details{
		FloraTypes:     floraTypes,
		WaterDistanceM: waterDistM,
		WindKmh:        roundTenth(weather.WindspeedKmh),
		TemperatureC:   roundTenth(weather.TemperatureC),
		HumidityPct:    weather.HumidityPct,
		SlopePct:       terrain.SlopePercent,
		AspectDeg:      terrain.AspectDegrees,
		AspectCompass:  geo.CompassDirection(float64(terrain.AspectDegrees)),
		ElevationM:     terrain.ElevationMeters,
		BuildingCount:  idx.Count(KindBuilding),
		RadiusM:        req.RadiusM,
		DataNotes:      dataNotes,
	}

	return Evaluation{
		Score:     int(math.Round(clamp(total, 0, 100))),
		Breakdown: breakdown,
		Details:   details,
		Rationale: buildRationale(details, waterFound),
	}
}

// scoreFlora sums weighted feature points and compresses them through
// log1p, so the tenth forest patch counts far less than the first. The
// result is truncated, not rounded.
func scoreFlora(idx *FeatureIndex) (int, string) {
	points := 0
	for kind, weight := range floraWeights {
		points += idx.Count(kind) * weight
	}
	score := int(clamp(math.Log1p(float64(points))*25, 0, 100))

	var labels []string
	for _, group := range floraLabelOrder {
		for _, kind := range group.kinds {
			if idx.Count(kind) > 0 {
				labels = append(labels, group.label)
				break
			}
		}
	}
	if len(labels) == 0 {
		return score, "insufficient data"
	}
	return score, strings.Join(labels, ", ")
}

// scoreWater rates proximity to the nearest mapped water feature. The
// formula consumes the already-rounded integer distance so the reported
// detail and the score always agree.
func scoreWater(idx *FeatureIndex, lat, lng float64) (score, distM int, found bool) {
	dist, ok := idx.NearestWaterDistance(lat, lng)
	if !ok {
		return noWaterScore, 0, false
	}
	distM = int(math.Round(dist))
	score = int(math.Round(clamp(110/(1+float64(distM)/900), 0, 100)))
	return score, distM, true
}

// scoreWind treats anything up to 12 km/h as ideal flying weather and
// penalizes each extra km/h by six points.
func scoreWind(windKmh float64) int {
	return int(math.Round(clamp(100-(windKmh-12)*6, 0, 100)))
}

// scoreHumidity gives full marks inside the 40–70% comfort band and decays
// linearly from the band center outside it.
func scoreHumidity(humidityPct int) int {
	if humidityPct >= 40 && humidityPct <= 70 {
		return 100
	}
	return int(math.Round(clamp(100-math.Abs(float64(humidityPct)-55)*2.2, 0, 100)))
}

// scoreSlope favors a gentle 2–10% grade: enough for drainage, not enough
// to complicate hive handling.
func scoreSlope(slopePct int) int {
	switch {
	case slopePct >= 2 && slopePct <= 10:
		return 100
	case slopePct < 2:
		return 70
	case slopePct <= 20:
		return 60
	default:
		return int(math.Round(clamp(60-float64(slopePct-20)*2, 5, 60)))
	}
}

// scoreAspect rewards south-facing slopes (northern-hemisphere morning sun
// on the hive entrance).
func scoreAspect(aspectDeg int) int {
	if aspectDeg >= 135 && aspectDeg <= 225 {
		return 100
	}
	return 65
}

// scorePressure penalizes building density as a proxy for human activity,
// pesticide exposure, and complaint risk.
func scorePressure(buildings, radiusM int) int {
	radiusKm := float64(radiusM) / 1000
	area := math.Pi * radiusKm * radiusKm

	density := float64(buildings)
	if area > 0 {
		density = float64(buildings) / area
	}
	return int(math.Round(clamp(100-density*3.5, 0, 100)))
}

func buildRationale(d Details, waterFound bool) string {
	water := "no mapped water nearby"
	if waterFound {
		water = fmt.Sprintf("nearest water %d m away", d.WaterDistanceM)
	}
	return fmt.Sprintf(
		"Forage: %s; %s. Wind %.1f km/h at %d%% humidity; %d%% slope facing %s; %d buildings within %d m.",
		d.FloraTypes, water, d.WindKmh, d.HumidityPct, d.SlopePct, d.AspectCompass, d.BuildingCount, d.RadiusM,
	)
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
