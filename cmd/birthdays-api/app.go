package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/aanand-mishra/birthdays-api/internal/config"
	"github.com/aanand-mishra/birthdays-api/internal/dataprovider"
	"github.com/aanand-mishra/birthdays-api/internal/http/handlers/birthday"
	"github.com/aanand-mishra/birthdays-api/internal/http/handlers/feed"
	"github.com/aanand-mishra/birthdays-api/internal/http/handlers/overview"
	"github.com/aanand-mishra/birthdays-api/internal/http/middleware"
	"github.com/aanand-mishra/birthdays-api/internal/i18n"
	"github.com/aanand-mishra/birthdays-api/internal/observability"
	"github.com/aanand-mishra/birthdays-api/internal/occurrence"
	"github.com/aanand-mishra/birthdays-api/internal/storage"
	"github.com/aanand-mishra/birthdays-api/internal/storage/memory"
	"github.com/aanand-mishra/birthdays-api/internal/storage/sqlite"
	"github.com/aanand-mishra/birthdays-api/internal/types"
	"github.com/aanand-mishra/birthdays-api/internal/validation"
)

// app holds everything the commands share once config is loaded.
type app struct {
	cfg        *config.Config
	log        *slog.Logger
	calc       *occurrence.Calculator
	store      storage.Storage
	provider   *dataprovider.BirthdayProvider
	validate   *validator.Validate
	translator *i18n.Translator
	metrics    *observability.Metrics
	closer     io.Closer
}

// newApp wires storage, the data provider and the ambient services.
// clock is nil outside tests.
func newApp(ctx context.Context, cfg *config.Config, log *slog.Logger, clock occurrence.Clock) (*app, error) {
	translator, err := i18n.New(cfg.Locale)
	if err != nil {
		return nil, err
	}

	a := &app{
		cfg:        cfg,
		log:        log,
		calc:       occurrence.New(clock),
		validate:   validation.New(clock),
		translator: translator,
	}

	if err := a.openStore(ctx); err != nil {
		return nil, err
	}
	a.provider = dataprovider.NewBirthdayProvider(a.store, a.calc)
	return a, nil
}

// openStore selects the backend named in the config. The memory store
// always starts from the sample data when seeding is on; SQLite is only
// seeded while its table is empty.
func (a *app) openStore(ctx context.Context) error {
	var seed []types.BirthdayInput
	if a.cfg.Storage.Seed {
		seed = storage.SeedBirthdays(a.calc.Today())
	}

	switch a.cfg.Storage.Backend {
	case config.BackendSQLite:
		db, err := sqlite.New(a.cfg)
		if err != nil {
			return fmt.Errorf("open storage: %w", err)
		}
		n, err := db.Seed(ctx, seed)
		if err != nil {
			db.Close()
			return fmt.Errorf("seed storage: %w", err)
		}
		a.store, a.closer = db, db
		a.log.Info("storage initialised",
			slog.String("backend", config.BackendSQLite),
			slog.String("path", a.cfg.Storage.Path),
			slog.Int("seeded", n))
	default:
		a.store = memory.New(seed...)
		a.log.Info("storage initialised",
			slog.String("backend", config.BackendMemory),
			slog.Int("seeded", len(seed)))
	}
	return nil
}

// Close releases the store.
func (a *app) Close() error {
	if a.closer == nil {
		return nil
	}
	return a.closer.Close()
}

// enableMetrics registers the application and runtime collectors on a
// fresh registry.
func (a *app) enableMetrics() {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	a.metrics = observability.NewMetrics(reg)
}

// routes builds the HTTP handler.
//
// Route table:
//
//	GET    /healthz                          health probe
//	GET    /metrics                          Prometheus exposition
//	GET    /api/dashboard                    summary
//	GET    /api/birthdays/upcoming           upcoming birthdays
//	GET    /api/birthdays/calendar.ics       iCalendar feed
//	GET    /api/birthdays/export.vcf         vCard export
//	POST   /api/birthdays/import             vCard import
//	GET    /api/birthdays/{id}/timeline      computed dates of one record
//	GET    /api/{resource}                   list
//	POST   /api/{resource}                   create
//	GET    /api/{resource}/{id}              get one
//	PATCH  /api/{resource}/{id}              partial update
//	PUT    /api/{resource}/{id}              partial update
//	DELETE /api/{resource}/{id}              delete
//	POST   /api/{resource}/{id}/clone        duplicate
func (a *app) routes() http.Handler {
	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", overview.Health(a.provider, a.translator))
	if a.metrics != nil {
		router.Handle("GET /metrics", a.metrics.Handler())
	}
	router.HandleFunc("GET /api/dashboard", overview.Dashboard(a.provider, a.calc, a.translator, a.metrics))

	router.HandleFunc("GET /api/birthdays/upcoming", birthday.Upcoming(a.provider, a.calc, a.translator))
	router.HandleFunc("GET /api/birthdays/calendar.ics", feed.Calendar(a.provider, a.calc, a.translator))
	router.HandleFunc("GET /api/birthdays/export.vcf", feed.VCards(a.provider))
	router.HandleFunc("POST /api/birthdays/import", feed.Import(a.provider, a.validate, a.metrics))
	router.HandleFunc("GET /api/birthdays/{id}/timeline", birthday.Timeline(a.provider, a.calc))

	router.HandleFunc("GET /api/{resource}", birthday.GetList(a.provider, a.metrics))
	router.HandleFunc("POST /api/{resource}", birthday.New(a.provider, a.validate, a.metrics))
	router.HandleFunc("GET /api/{resource}/{id}", birthday.GetByID(a.provider))
	router.HandleFunc("PATCH /api/{resource}/{id}", birthday.Update(a.provider, a.validate, a.metrics))
	router.HandleFunc("PUT /api/{resource}/{id}", birthday.Update(a.provider, a.validate, a.metrics))
	router.HandleFunc("DELETE /api/{resource}/{id}", birthday.Delete(a.provider, a.metrics))
	router.HandleFunc("POST /api/{resource}/{id}/clone", birthday.Clone(a.provider, a.validate, a.metrics))

	// Route resolves the pattern on its own copy of the request, so the
	// log, metrics and limiter layers inside it all see the same route.
	return middleware.Chain(router,
		middleware.RequestID,
		middleware.Route(router),
		middleware.Logger(a.log),
		middleware.Observe(a.metrics),
		middleware.RateLimit(middleware.NewLimiter(a.cfg.HTTPServer.RateLimit, a.cfg.HTTPServer.Burst), a.metrics),
	)
}
