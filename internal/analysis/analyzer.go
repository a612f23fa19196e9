// Package analysis orchestrates a site analysis: fetch land cover, weather,
// and terrain, score the site, and hand the result to the optional sink.
package analysis

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/apiary-site-analyzer/internal/domain"
	"github.com/couchcryptid/apiary-site-analyzer/internal/observability"
)

// ResultSink receives completed analyses, e.g. a Kafka publisher. Publishing
// is best-effort: a sink failure never fails the analysis.
type ResultSink interface {
	Publish(ctx context.Context, result domain.AnalysisResult) error
}

// Analyzer coordinates the data sources and the scoring engine. A source
// failure degrades the affected category to its documented default instead
// of failing the analysis; only an invalid request is an error.
type Analyzer struct {
	landCover domain.LandCoverSource
	weather   domain.WeatherSource
	terrain   domain.TerrainSource
	sink      ResultSink
	logger    *slog.Logger
	metrics   *observability.Metrics
	clk       clockwork.Clock
	newRand   func() *rand.Rand
	ready     atomic.Bool
}

// Option customizes an Analyzer.
type Option func(*Analyzer)

// WithResultSink attaches a sink for completed analyses.
func WithResultSink(sink ResultSink) Option {
	return func(a *Analyzer) { a.sink = sink }
}

// WithClock substitutes the wall clock, for tests.
func WithClock(clk clockwork.Clock) Option {
	return func(a *Analyzer) { a.clk = clk }
}

// WithRandSource substitutes the heatmap's rand constructor, for tests.
func WithRandSource(newRand func() *rand.Rand) Option {
	return func(a *Analyzer) { a.newRand = newRand }
}

// New creates an Analyzer over the three data sources.
func New(landCover domain.LandCoverSource, weather domain.WeatherSource, terrain domain.TerrainSource, logger *slog.Logger, metrics *observability.Metrics, opts ...Option) *Analyzer {
	a := &Analyzer{
		landCover: landCover,
		weather:   weather,
		terrain:   terrain,
		logger:    logger,
		metrics:   metrics,
		clk:       clockwork.NewRealClock(),
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// MarkReady flips the readiness probe once startup has finished.
func (a *Analyzer) MarkReady() {
	a.ready.Store(true)
}

// CheckReadiness returns nil once the service has finished starting.
func (a *Analyzer) CheckReadiness(_ context.Context) error {
	if !a.ready.Load() {
		return errors.New("service is still starting")
	}
	return nil
}

// Analyze scores one site. The request is validated and normalized first;
// everything after that degrades gracefully.
func (a *Analyzer) Analyze(ctx context.Context, req domain.AnalysisRequest) (domain.AnalysisResult, error) {
	normalized, err := req.Normalize()
	if err != nil {
		return domain.AnalysisResult{}, err
	}

	start := a.clk.Now()

	features := a.fetchLandCover(ctx, normalized)
	weather := a.fetchWeather(ctx, normalized)
	terrain := a.fetchTerrain(ctx, normalized)

	eval := domain.EvaluateSite(normalized, features, weather, terrain)
	heatmap := domain.BuildHeatmap(a.newRand(), normalized.Lat, normalized.Lng, eval.Score)

	result := domain.AnalysisResult{
		ID:          domain.SiteID(normalized),
		Score:       eval.Score,
		Rationale:   eval.Rationale,
		Breakdown:   eval.Breakdown,
		Details:     eval.Details,
		Heatmap:     heatmap,
		GeneratedAt: a.clk.Now().UTC(),
	}

	a.metrics.Analyses.Inc()
	a.metrics.SiteScore.Observe(float64(result.Score))
	a.metrics.AnalysisDuration.Observe(a.clk.Since(start).Seconds())

	a.publish(ctx, result)

	a.logger.Info("site analyzed",
		"site_id", result.ID,
		"score", result.Score,
		"radius_m", normalized.RadiusM,
	)
	return result, nil
}

func (a *Analyzer) fetchLandCover(ctx context.Context, req domain.AnalysisRequest) []domain.LandFeature {
	start := a.clk.Now()
	features, err := a.landCover.FetchFeatures(ctx, req.Lat, req.Lng, req.RadiusM)
	a.metrics.SourceDuration.WithLabelValues(observability.SourceLandCover).Observe(a.clk.Since(start).Seconds())
	if err != nil {
		a.metrics.SourceRequests.WithLabelValues(observability.SourceLandCover, observability.OutcomeError).Inc()
		a.metrics.SourceFallbacks.WithLabelValues(observability.SourceLandCover).Inc()
		a.logger.Warn("land cover unavailable, scoring without features",
			"lat", req.Lat, "lng", req.Lng, "error", err)
		return nil
	}
	a.metrics.SourceRequests.WithLabelValues(observability.SourceLandCover, observability.OutcomeSuccess).Inc()
	return features
}

func (a *Analyzer) fetchWeather(ctx context.Context, req domain.AnalysisRequest) domain.WeatherSample {
	start := a.clk.Now()
	sample, err := a.weather.FetchWeather(ctx, req.Lat, req.Lng)
	a.metrics.SourceDuration.WithLabelValues(observability.SourceWeather).Observe(a.clk.Since(start).Seconds())
	if err != nil {
		a.metrics.SourceRequests.WithLabelValues(observability.SourceWeather, observability.OutcomeError).Inc()
		a.metrics.SourceFallbacks.WithLabelValues(observability.SourceWeather).Inc()
		a.logger.Warn("weather unavailable, scoring with neutral sample",
			"lat", req.Lat, "lng", req.Lng, "error", err)
		return domain.DefaultWeather()
	}
	a.metrics.SourceRequests.WithLabelValues(observability.SourceWeather, observability.OutcomeSuccess).Inc()
	return sample
}

func (a *Analyzer) fetchTerrain(ctx context.Context, req domain.AnalysisRequest) domain.TerrainSample {
	start := a.clk.Now()
	sample, err := a.terrain.FetchTerrain(ctx, req.Lat, req.Lng)
	a.metrics.SourceDuration.WithLabelValues(observability.SourceTerrain).Observe(a.clk.Since(start).Seconds())
	if err != nil {
		a.metrics.SourceRequests.WithLabelValues(observability.SourceTerrain, observability.OutcomeError).Inc()
		a.metrics.SourceFallbacks.WithLabelValues(observability.SourceTerrain).Inc()
		a.logger.Warn("terrain unavailable, scoring as flat",
			"lat", req.Lat, "lng", req.Lng, "error", err)
		return domain.TerrainSample{}
	}
	a.metrics.SourceRequests.WithLabelValues(observability.SourceTerrain, observability.OutcomeSuccess).Inc()
	return sample
}

func (a *Analyzer) publish(ctx context.Context, result domain.AnalysisResult) {
	if a.sink == nil {
		return
	}
	if err := a.sink.Publish(ctx, result); err != nil {
		a.metrics.PublishErrors.Inc()
		a.logger.Warn("result publish failed", "site_id", result.ID, "error", err)
		return
	}
	a.metrics.ResultsPublished.Inc()
}
