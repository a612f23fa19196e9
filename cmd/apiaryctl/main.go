// Command apiaryctl runs a one-shot site analysis from the terminal and
// prints the result as JSON. It uses the same source stack as the server,
// minus the caches: a single invocation has nothing to reuse.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/apiary-site-analyzer/internal/adapter/meteo"
	"github.com/couchcryptid/apiary-site-analyzer/internal/adapter/overpass"
	"github.com/couchcryptid/apiary-site-analyzer/internal/analysis"
	"github.com/couchcryptid/apiary-site-analyzer/internal/config"
	"github.com/couchcryptid/apiary-site-analyzer/internal/domain"
	"github.com/couchcryptid/apiary-site-analyzer/internal/httpx"
	"github.com/couchcryptid/apiary-site-analyzer/internal/observability"
)

var (
	lat     float64
	lng     float64
	radius  int
	timeout time.Duration
	pretty  bool
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "apiaryctl",
	Short: "Apiary site suitability analysis from the command line",
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze one candidate site",
	Long: `Fetch land cover, weather, and terrain for the given coordinates,
score the site, and print the result as JSON.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().Float64Var(&lat, "lat", 0, "Site latitude in decimal degrees")
	analyzeCmd.Flags().Float64Var(&lng, "lng", 0, "Site longitude in decimal degrees")
	analyzeCmd.Flags().IntVar(&radius, "radius", domain.DefaultRadiusM, "Search radius in meters")
	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 2*time.Minute, "Overall analysis deadline")
	analyzeCmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the JSON output")
	analyzeCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log source fetches to stderr")
	cobra.CheckErr(analyzeCmd.MarkFlagRequired("lat"))
	cobra.CheckErr(analyzeCmd.MarkFlagRequired("lng"))

	rootCmd.AddCommand(analyzeCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	cmd.SilenceUsage = true

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var logOut io.Writer = io.Discard
	if verbose {
		logOut = os.Stderr
	}
	logger := observability.NewLogger(logOut, "info", "text")

	analyzer := analysis.New(
		overpass.NewClient(cfg.OverpassEndpoints, newHTTP(cfg, cfg.OverpassTimeout, logger), logger),
		meteo.NewWeatherClient(cfg.WeatherURL, newHTTP(cfg, cfg.WeatherTimeout, logger), logger),
		meteo.NewElevationClient(cfg.ElevationURL, newHTTP(cfg, cfg.ElevationTimeout, logger), logger),
		logger,
		observability.NewMetrics(),
	)

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	result, err := analyzer.Analyze(ctx, domain.AnalysisRequest{Lat: lat, Lng: lng, RadiusM: radius})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRequest) {
			cmd.SilenceUsage = false
		}
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(result)
}

func newHTTP(cfg *config.Config, perCallTimeout time.Duration, logger *slog.Logger) *httpx.Client {
	return httpx.New(httpx.Config{
		Timeout:           perCallTimeout,
		UserAgent:         cfg.UserAgent,
		MaxAttempts:       cfg.RetryMaxAttempts,
		InitialBackoff:    cfg.RetryInitialBackoff,
		RequestsPerSecond: cfg.SourceRateLimit,
	}, logger)
}
