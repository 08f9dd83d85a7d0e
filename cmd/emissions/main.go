// Command emissions estimates per-trip CO₂ emissions for batches of
// Singapore address pairs, either as an upload/download web service
// (`emissions serve`) or against local CSV files (`emissions process`).
package main

import (
	"log/slog"
	"os"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/szting/sgtravel-co2-calculator/internal/adapter/onemap"
	"github.com/szting/sgtravel-co2-calculator/internal/config"
	"github.com/szting/sgtravel-co2-calculator/internal/domain"
	"github.com/szting/sgtravel-co2-calculator/internal/observability"
	"github.com/szting/sgtravel-co2-calculator/internal/pipeline"
)

var rootCmd = &cobra.Command{
	Use:   "emissions",
	Short: "trip carbon-emission calculator for Singapore address pairs",
	Long: `
emissions annotates a CSV of trips (Start Address / End Address columns) with
an estimated road distance, a CO2 emission figure, and a per-row status,
resolving addresses through the OneMap Singapore search API.
`,
	SilenceUsage: true,
}

func main() {
	rootCmd.AddCommand(serveCmd, processCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newPipeline wires the geocoder chain and pipeline from config:
// cache → throttle → OneMap client, so repeated addresses skip both the
// network call and the rate-limit pause.
func newPipeline(cfg *config.Config, logger *slog.Logger, metrics *observability.Metrics) *pipeline.Pipeline {
	client := onemap.NewClient(cfg.OneMapBaseURL, cfg.OneMapTimeout, metrics, logger)
	throttled := pipeline.NewThrottledGeocoder(client, cfg.ThrottleDelay, clockwork.NewRealClock())
	cached := onemap.NewCachedGeocoder(throttled, cfg.GeocodeCacheSize, metrics)

	transformer := pipeline.NewTransformer(
		cached,
		domain.DistanceEstimator{Circuity: cfg.CircuityFactor},
		domain.EmissionCalculator{FactorKgPerKm: cfg.EmissionFactorKgPerKm},
		logger,
	)
	return pipeline.New(transformer, logger, metrics)
}
