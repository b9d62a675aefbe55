// Package main provides the fitpulse terminal client. It talks to the
// same backend the mobile app uses and runs the same client-side
// aggregation over the responses.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/fitpulse/fitpulse/internal/gateway"
	"github.com/fitpulse/fitpulse/internal/session"
	"github.com/fitpulse/fitpulse/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

// app bundles the wired client for command handlers.
type app struct {
	client  *gateway.Client
	session *session.Store
	logger  zerolog.Logger
}

var (
	verbose bool
	rt      *app
	tp      *telemetry.Provider
)

var rootCmd = &cobra.Command{
	Use:           "fitpulse",
	Short:         "fitpulse shows your nutrition diary, daily score, and trends from the terminal",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// .env is a local convenience; absence is not an error.
		_ = godotenv.Load()

		level := zerolog.WarnLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
			Level(level).
			With().
			Timestamp().
			Str("service", "fitpulse-cli").
			Logger()

		baseURL := os.Getenv("FITPULSE_API_URL")
		if baseURL == "" {
			baseURL = "http://localhost:3000"
		}

		store := session.NewStore(os.Getenv("FITPULSE_TOKEN"))
		if store.Expired(time.Now()) {
			logger.Warn().Msg("FITPULSE_TOKEN is expired, requests will return 401")
		}

		otlpEndpoint := os.Getenv("FITPULSE_OTLP_ENDPOINT")
		provider, err := telemetry.Init(cmd.Context(), telemetry.Config{
			AppName:      "fitpulse-cli",
			AppVersion:   Version,
			Environment:  os.Getenv("FITPULSE_ENV"),
			OTLPEndpoint: otlpEndpoint,
			Enabled:      otlpEndpoint != "",
		})
		if err != nil {
			return fmt.Errorf("init telemetry: %w", err)
		}
		tp = provider

		instruments, err := telemetry.NewInstruments(provider.Meter)
		if err != nil {
			return fmt.Errorf("init instruments: %w", err)
		}

		rt = &app{
			client: gateway.NewClient(gateway.ClientConfig{
				BaseURL:     baseURL,
				Session:     store,
				Logger:      logger,
				Tracer:      provider.Tracer,
				Instruments: instruments,
			}),
			session: store,
			logger:  logger,
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if tp == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			rt.logger.Debug().Err(err).Msg("telemetry shutdown failed")
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.Version = fmt.Sprintf("%s (built %s)", Version, BuildTime)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
