package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metric label values.
const (
	SourceLandCover = "land_cover"
	SourceWeather   = "weather"
	SourceTerrain   = "terrain"

	OutcomeSuccess = "success"
	OutcomeError   = "error"

	ResultHit  = "hit"
	ResultMiss = "miss"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// analysis service.
type Metrics struct {
	Analyses         prometheus.Counter
	AnalysisDuration prometheus.Histogram
	SiteScore        prometheus.Histogram

	// External source metrics.
	SourceRequests  *prometheus.CounterVec   // labels: source={land_cover,weather,terrain}, outcome={success,error}
	SourceDuration  *prometheus.HistogramVec // labels: source={land_cover,weather,terrain}
	SourceFallbacks *prometheus.CounterVec   // labels: source={land_cover,weather,terrain}
	CacheLookups    *prometheus.CounterVec   // labels: source={land_cover,weather,terrain}, result={hit,miss}

	// Result publishing metrics.
	ResultsPublished prometheus.Counter
	PublishErrors    prometheus.Counter
	PublisherEnabled prometheus.Gauge
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Analyses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "apiary",
			Name:      "analyses_total",
			Help:      "Total completed site analyses.",
		}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "apiary",
			Name:      "analysis_duration_seconds",
			Help:      "Duration of a complete analysis, external fetches included.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		SiteScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "apiary",
			Name:      "site_score",
			Help:      "Distribution of total site scores.",
			Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		}),
		SourceRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "apiary",
			Name:      "source_requests_total",
			Help:      "External data source fetches by source and outcome.",
		}, []string{"source", "outcome"}),
		SourceDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "apiary",
			Name:      "source_duration_seconds",
			Help:      "External data source fetch duration in seconds.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"source"}),
		SourceFallbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "apiary",
			Name:      "source_fallbacks_total",
			Help:      "Analyses that proceeded on a source's documented default.",
		}, []string{"source"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "apiary",
			Name:      "cache_lookups_total",
			Help:      "Source cache lookups by source and result.",
		}, []string{"source", "result"}),
		ResultsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "apiary",
			Name:      "results_published_total",
			Help:      "Total analysis results published to Kafka.",
		}),
		PublishErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "apiary",
			Name:      "publish_errors_total",
			Help:      "Total failed result publishes.",
		}),
		PublisherEnabled: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "apiary",
			Name:      "publisher_enabled",
			Help:      "1 when result publishing is enabled, 0 otherwise.",
		}),
	}

	prometheus.MustRegister(
		m.Analyses,
		m.AnalysisDuration,
		m.SiteScore,
		m.SourceRequests,
		m.SourceDuration,
		m.SourceFallbacks,
		m.CacheLookups,
		m.ResultsPublished,
		m.PublishErrors,
		m.PublisherEnabled,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		Analyses:         prometheus.NewCounter(prometheus.CounterOpts{Namespace: "apiary", Name: "analyses_total"}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "apiary", Name: "analysis_duration_seconds"}),
		SiteScore:        prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "apiary", Name: "site_score"}),
		SourceRequests:   prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "apiary", Name: "source_requests_total"}, []string{"source", "outcome"}),
		SourceDuration:   prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "apiary", Name: "source_duration_seconds"}, []string{"source"}),
		SourceFallbacks:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "apiary", Name: "source_fallbacks_total"}, []string{"source"}),
		CacheLookups:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "apiary", Name: "cache_lookups_total"}, []string{"source", "result"}),
		ResultsPublished: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "apiary", Name: "results_published_total"}),
		PublishErrors:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "apiary", Name: "publish_errors_total"}),
		PublisherEnabled: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "apiary", Name: "publisher_enabled"}),
	}
}
