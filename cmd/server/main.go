package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/apiary-site-analyzer/internal/adapter/httpapi"
	kafkaadapter "github.com/couchcryptid/apiary-site-analyzer/internal/adapter/kafka"
	"github.com/couchcryptid/apiary-site-analyzer/internal/adapter/meteo"
	"github.com/couchcryptid/apiary-site-analyzer/internal/adapter/overpass"
	"github.com/couchcryptid/apiary-site-analyzer/internal/analysis"
	"github.com/couchcryptid/apiary-site-analyzer/internal/cache"
	"github.com/couchcryptid/apiary-site-analyzer/internal/config"
	"github.com/couchcryptid/apiary-site-analyzer/internal/domain"
	"github.com/couchcryptid/apiary-site-analyzer/internal/httpx"
	"github.com/couchcryptid/apiary-site-analyzer/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()
	clk := clockwork.NewRealClock()

	// One retrying client per source so each gets its own timeout budget.
	overpassHTTP := httpx.New(httpx.Config{
		Timeout:           cfg.OverpassTimeout,
		UserAgent:         cfg.UserAgent,
		MaxAttempts:       cfg.RetryMaxAttempts,
		InitialBackoff:    cfg.RetryInitialBackoff,
		RequestsPerSecond: cfg.SourceRateLimit,
	}, logger)
	weatherHTTP := httpx.New(httpx.Config{
		Timeout:           cfg.WeatherTimeout,
		UserAgent:         cfg.UserAgent,
		MaxAttempts:       cfg.RetryMaxAttempts,
		InitialBackoff:    cfg.RetryInitialBackoff,
		RequestsPerSecond: cfg.SourceRateLimit,
	}, logger)
	elevationHTTP := httpx.New(httpx.Config{
		Timeout:           cfg.ElevationTimeout,
		UserAgent:         cfg.UserAgent,
		MaxAttempts:       cfg.RetryMaxAttempts,
		InitialBackoff:    cfg.RetryInitialBackoff,
		RequestsPerSecond: cfg.SourceRateLimit,
	}, logger)

	landCover := overpass.NewCachedSource(
		overpass.NewClient(cfg.OverpassEndpoints, overpassHTTP, logger),
		cache.New[[]domain.LandFeature](cfg.LandCoverTTL, clk),
		cfg.FailureCacheTTL,
		metrics,
	)
	weather := meteo.NewCachedWeather(
		meteo.NewWeatherClient(cfg.WeatherURL, weatherHTTP, logger),
		cache.New[domain.WeatherSample](cfg.WeatherTTL, clk),
		cfg.FailureCacheTTL,
		metrics,
	)
	terrain := meteo.NewCachedTerrain(
		meteo.NewElevationClient(cfg.ElevationURL, elevationHTTP, logger),
		cache.New[domain.TerrainSample](cfg.TerrainTTL, clk),
		cfg.FailureCacheTTL,
		metrics,
	)

	// Result publishing is feature-flagged: without brokers the analyzer
	// simply has no sink.
	opts := []analysis.Option{analysis.WithClock(clk)}
	var publisher *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		publisher = kafkaadapter.NewPublisher(cfg.KafkaBrokers, cfg.KafkaResultsTopic, logger)
		opts = append(opts, analysis.WithResultSink(publisher))
		metrics.PublisherEnabled.Set(1)
		logger.Info("result publishing enabled", "topic", cfg.KafkaResultsTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("result publishing disabled")
	}

	analyzer := analysis.New(landCover, weather, terrain, logger, metrics, opts...)

	srv := httpapi.NewServer(cfg.HTTPAddr, analyzer, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	analyzer.MarkReady()
	logger.Info("apiary site analyzer started", "addr", cfg.HTTPAddr)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
