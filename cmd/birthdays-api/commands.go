package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/aanand-mishra/birthdays-api/internal/dashboard"
	"github.com/aanand-mishra/birthdays-api/internal/dataprovider"
	"github.com/aanand-mishra/birthdays-api/internal/export"
	"github.com/aanand-mishra/birthdays-api/internal/occurrence"
	"github.com/aanand-mishra/birthdays-api/internal/types"
)

// Export formats accepted by --format.
const (
	formatICS = "ics"
	formatVCF = "vcf"
)

var (
	upcomingDays  int
	upcomingLimit int
	exportFormat  string
	exportOutput  string

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	upcomingCmd = &cobra.Command{
		Use:   "upcoming",
		Short: "Print the birthdays of the coming days, closest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				out := cmd.OutOrStdout()
				return printUpcoming(cmd.Context(), out, a, upcomingDays, upcomingLimit, !isTerminal(out))
			})
		},
	}

	exportCmd = &cobra.Command{
		Use:   "export",
		Short: "Write every birthday as an iCalendar feed or a vCard file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd.Context(), func(a *app) error {
				out := cmd.OutOrStdout()
				if exportOutput != "" && exportOutput != "-" {
					f, err := os.Create(exportOutput)
					if err != nil {
						return fmt.Errorf("create %s: %w", exportOutput, err)
					}
					defer f.Close()
					out = f
				}
				return writeExport(cmd.Context(), out, a, exportFormat)
			})
		},
	}
)

func registerCommands(root *cobra.Command) {
	upcomingCmd.Flags().IntVar(&upcomingDays, "days", occurrence.UpcomingWindow, "window in days, 0 to 365")
	upcomingCmd.Flags().IntVar(&upcomingLimit, "limit", 0, "maximum number of rows, 0 for all")

	exportCmd.Flags().StringVar(&exportFormat, "format", formatICS, "output format: ics or vcf")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file, stdout when empty")

	root.AddCommand(serveCmd, upcomingCmd, exportCmd)
}

// withApp runs fn against an app built from the config. Logs go to
// stderr so they never mix with command output.
func withApp(ctx context.Context, fn func(a *app) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	a, err := newApp(ctx, cfg, setupLogger(cfg.Env, os.Stderr), nil)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

func allBirthdays(ctx context.Context, a *app) ([]types.Birthday, error) {
	res, err := a.provider.List(ctx, dataprovider.BirthdaysResource, dataprovider.ListParams{
		Pagination: dataprovider.Pagination{Mode: dataprovider.PaginationOff},
	})
	return res.Items, err
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// printUpcoming writes the birthdays due within days: an aligned table
// for people, or one tab-separated line per entry without a header when
// plain is set, for pipes.
func printUpcoming(ctx context.Context, w io.Writer, a *app, days, limit int, plain bool) error {
	if days < 0 || days > 365 {
		return fmt.Errorf("--days must be between 0 and 365, got %d", days)
	}
	items, err := allBirthdays(ctx, a)
	if err != nil {
		return err
	}

	entries := dashboard.Upcoming(items, a.calc.Today(), days, limit, a.translator)
	if plain {
		for _, e := range entries {
			if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n", e.ID, e.Name, e.NextOccurrence, e.TurningAge, e.DaysUntil); err != nil {
				return err
			}
		}
		return nil
	}
	if len(entries) == 0 {
		_, err := fmt.Fprintf(w, "No birthdays in the next %d days.\n", days)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tDATE\tTURNING\tWHEN\tCATEGORY")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", e.Name, e.NextOccurrence, e.TurningAge, e.Label, e.Category)
	}
	return tw.Flush()
}

// writeExport renders the whole collection in format.
func writeExport(ctx context.Context, w io.Writer, a *app, format string) error {
	items, err := allBirthdays(ctx, a)
	if err != nil {
		return err
	}

	switch format {
	case formatICS:
		return export.WriteCalendar(w, items, a.calc.Clock.Now(), a.translator)
	case formatVCF:
		return export.WriteVCards(w, items)
	default:
		return fmt.Errorf("unknown export format %q (want %s or %s)", format, formatICS, formatVCF)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	// ── 1. Load Config ────────────────────────────────────────────────────
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	log := setupLogger(cfg.Env, os.Stdout)
	slog.SetDefault(log)

	log.Info("starting birthdays-api",
		slog.String("env", cfg.Env),
		slog.String("version", version),
		slog.String("locale", cfg.Locale),
	)

	// ── 3. Wait for Shutdown Signal ───────────────────────────────────────
	// ctx is cancelled on Ctrl+C (SIGINT) or SIGTERM from an orchestrator.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── 4. Storage, provider, routes ──────────────────────────────────────
	a, err := newApp(ctx, cfg, log, nil)
	if err != nil {
		return err
	}
	defer a.Close()
	a.enableMetrics()

	server := &http.Server{
		Addr:    cfg.HTTPServer.Addr,
		Handler: a.routes(),

		// Production hardening: timeouts prevent slow-client attacks.
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return serve(ctx, server, cfg.HTTPServer.ShutdownTimeout, log)
}

// serve runs server until ctx is done, then shuts it down, giving
// in-flight requests up to timeout to finish. A listener failure also
// ends the group and is returned.
func serve(ctx context.Context, server *http.Server, timeout time.Duration, log *slog.Logger) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("server started", slog.String("address", server.Addr))

		// ListenAndServe returns http.ErrServerClosed after Shutdown.
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server encountered an error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()
		log.Info("shutdown signal received, stopping server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shutdown server gracefully: %w", err)
		}
		log.Info("server stopped gracefully")
		return nil
	})

	return g.Wait()
}
