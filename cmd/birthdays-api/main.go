// main is the entry point of the Birthdays API application.
//
// COMMANDS:
//
//	birthdays-api serve      run the HTTP server (default)
//	birthdays-api upcoming   print the birthdays of the coming days
//	birthdays-api export     write the collection as iCalendar or vCard
//
// STARTUP SEQUENCE (serve):
//  1. Load configuration from a YAML file
//  2. Initialise the logger
//  3. Open (and optionally seed) the configured store
//  4. Register all HTTP routes behind the middleware chain
//  5. Start the HTTP server
//  6. Block until an OS signal (Ctrl+C / kill) arrives
//  7. Gracefully shut down: finish in-flight requests, then exit
//
// RUNNING THE SERVER:
//
//	go run ./cmd/birthdays-api --config=config/local.yaml
//
// or (with the environment variable):
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/birthdays-api
package main

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aanand-mishra/birthdays-api/internal/config"
)

const version = "1.0.0"

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:     "birthdays-api",
		Short:   "Keep track of birthdays and serve them over HTTP",
		Version: version,
		// Running the bare binary starts the server, like the old
		// single-purpose entry point did.
		RunE:          runServe,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the YAML config file (overridden by CONFIG_PATH)")
	registerCommands(rootCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("birthdays-api failed", slog.String("error", err.Error()))
		os.Exit(1) // non-zero exit code signals failure to the OS / CI system
	}
}

// loadConfig resolves the config path and reads the file.
func loadConfig() (*config.Config, error) {
	return config.Load(config.ResolvePath(configPath))
}

// setupLogger returns a *slog.Logger writing to w, configured for the
// given environment.
//
// Development (dev): human-readable text output at DEBUG level.
// Production (prod): machine-readable JSON output at INFO level.
//
//	JSON logs are easy to ingest by log aggregators (Loki, CloudWatch, etc.)
func setupLogger(env string, w io.Writer) *slog.Logger {
	switch env {
	case "prod":
		return slog.New(
			slog.NewJSONHandler(w, &slog.HandlerOptions{
				Level: slog.LevelInfo, // INFO and above in production
			}),
		)
	case "staging":
		return slog.New(
			slog.NewJSONHandler(w, &slog.HandlerOptions{
				Level: slog.LevelDebug, // more verbose in staging
			}),
		)
	default: // "dev" and anything unrecognised
		return slog.New(
			slog.NewTextHandler(w, &slog.HandlerOptions{
				Level: slog.LevelDebug, // all levels in development
			}),
		)
	}
}
