package main

import (
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/i474232898/lunar-insights/internal/config"
	"github.com/i474232898/lunar-insights/internal/geo"
	"github.com/i474232898/lunar-insights/internal/location"
	"github.com/i474232898/lunar-insights/internal/store"
	"github.com/i474232898/lunar-insights/internal/weather/providers"
)

var rootCmd = &cobra.Command{
	Use:   "lunar-insights",
	Short: "Moon, wind, pressure and solunar conditions for a location",
	Long:  `Resolves a location from the device or a ZIP code, asks the conditions oracle for a snapshot and serves the derived dashboard.`,

	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Fetch one snapshot and print its dashboard",
	Long:  `Resolve a single location (--zip, or --lat with --lng, or the configured device) and print the dashboard as JSON.`,
	RunE:  runLookup,
}

var (
	lookupZip string
	lookupLat float64
	lookupLng float64
	showRaw   bool
)

func init() {
	lookupCmd.Flags().StringVarP(&lookupZip, "zip", "z", "", "ZIP code to look up")
	lookupCmd.Flags().Float64Var(&lookupLat, "lat", 0, "Latitude (requires --lng)")
	lookupCmd.Flags().Float64Var(&lookupLng, "lng", 0, "Longitude (requires --lat)")
	lookupCmd.Flags().BoolVar(&showRaw, "raw", false, "Print the raw snapshot instead of the dashboard")
	lookupCmd.MarkFlagsRequiredTogether("lat", "lng")
	lookupCmd.MarkFlagsMutuallyExclusive("zip", "lat")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(lookupCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// services bundles the pieces both commands share.
type services struct {
	store    *store.MemoryStore
	resolver *location.Resolver
	device   bool
}

func newServices(cfg *config.AppConfig, src geo.Source) *services {
	// Shared HTTP client for outbound oracle calls.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	memStore := store.NewMemoryStore(cfg.StoreMaxHistory, cfg.StoreMaxAge)
	oracle := providers.NewGeminiOracle(httpClient, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.OracleBaseURL)

	device := src != nil
	if src == nil {
		src, device = deviceSource(cfg)
	}

	return &services{
		store:    memStore,
		resolver: location.NewResolver(src, oracle, memStore),
		device:   device,
	}
}

// deviceSource picks fixed coordinates, then a geocoded address, then nothing.
func deviceSource(cfg *config.AppConfig) (geo.Source, bool) {
	switch {
	case cfg.DeviceLat != nil && cfg.DeviceLng != nil:
		return geo.NewFixedSource(*cfg.DeviceLat, *cfg.DeviceLng), true
	case cfg.DeviceAddress != "":
		return geo.NewAddressSource(cfg.GeocoderAPIKey, cfg.DeviceAddress), true
	default:
		return geo.Unavailable{}, false
	}
}
