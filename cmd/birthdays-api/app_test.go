package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/birthdays-api/internal/config"
	"github.com/aanand-mishra/birthdays-api/internal/http/middleware"
	"github.com/aanand-mishra/birthdays-api/internal/occurrence"
)

var testClock = occurrence.FixedClock(time.Date(2024, 3, 8, 9, 0, 0, 0, time.UTC))

func testConfig() *config.Config {
	return &config.Config{
		Env:     "dev",
		Locale:  "en",
		Storage: config.Storage{Backend: config.BackendMemory, Seed: true},
		HTTPServer: config.HTTPServer{
			Addr:            "127.0.0.1:0",
			ShutdownTimeout: time.Second,
		},
	}
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestApp(t *testing.T, cfg *config.Config) *app {
	t.Helper()
	a, err := newApp(context.Background(), cfg, discard(), testClock)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestRoutes(t *testing.T) {
	a := newTestApp(t, testConfig())
	a.enableMetrics()
	h := a.routes()

	tests := []struct {
		target string
		status int
		want   string
	}{
		{"/healthz", http.StatusOK, `"birthdays"`},
		{"/api/dashboard", http.StatusOK, `"upcoming":4`},
		{"/api/birthdays/upcoming?days=1", http.StatusOK, "Maria Garcia"},
		{"/api/birthdays/calendar.ics", http.StatusOK, "BEGIN:VCALENDAR"},
		{"/api/birthdays/export.vcf", http.StatusOK, "BEGIN:VCARD"},
		{"/api/birthdays/1/timeline", http.StatusOK, `"turningAge":34`},
		{"/api/birthdays?pageSize=2", http.StatusOK, `"total":10`},
		{"/api/birthdays/3", http.StatusOK, "Mike Chen"},
		{"/api/people", http.StatusNotFound, "unsupported resource"},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(h, tt.target)
			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.want)
			assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
		})
	}

	metrics := get(h, "/metrics")
	require.Equal(t, http.StatusOK, metrics.Code)
	assert.Contains(t, metrics.Body.String(), `birthdays_http_requests_total{code="200",method="GET",route="GET /api/{resource}/{id}"} 1`)
	assert.Contains(t, metrics.Body.String(), "birthdays_records 10")
	assert.Contains(t, metrics.Body.String(), "go_goroutines")
}

func TestRoutes_RateLimited(t *testing.T) {
	cfg := testConfig()
	cfg.HTTPServer.RateLimit = 0.001
	cfg.HTTPServer.Burst = 1
	h := newTestApp(t, cfg).routes()

	assert.Equal(t, http.StatusOK, get(h, "/healthz").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(h, "/healthz").Code)
}

func TestNewApp_SQLite(t *testing.T) {
	cfg := testConfig()
	cfg.Storage.Backend = config.BackendSQLite
	cfg.Storage.Path = filepath.Join(t.TempDir(), "birthdays.db")

	first := newTestApp(t, cfg)
	rec := get(first.routes(), "/api/birthdays")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"total":10`)
	require.NoError(t, first.Close())

	// A second start finds the table populated and does not seed again.
	second := newTestApp(t, cfg)
	rec = get(second.routes(), "/api/birthdays")
	assert.Contains(t, rec.Body.String(), `"total":10`)
}

func TestNewApp_Errors(t *testing.T) {
	cfg := testConfig()
	cfg.Locale = "!!"
	_, err := newApp(context.Background(), cfg, discard(), testClock)
	assert.Error(t, err)
}

func TestPrintUpcoming(t *testing.T) {
	a := newTestApp(t, testConfig())

	var out bytes.Buffer
	require.NoError(t, printUpcoming(context.Background(), &out, a, 3, 0, false))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "NAME"))
	assert.Contains(t, lines[1], "Tom Anderson")
	assert.Contains(t, lines[1], "Today!")
	assert.Contains(t, lines[3], "3 days")

	out.Reset()
	require.NoError(t, printUpcoming(context.Background(), &out, a, 0, 0, false))
	assert.Contains(t, out.String(), "Tom Anderson")

	assert.Error(t, printUpcoming(context.Background(), &out, a, 400, 0, false))
}

func TestPrintUpcoming_Plain(t *testing.T) {
	a := newTestApp(t, testConfig())

	var out bytes.Buffer
	require.NoError(t, printUpcoming(context.Background(), &out, a, 1, 0, true))
	assert.Equal(t, "9\tTom Anderson\t2024-03-08\t28\t0\n8\tMaria Garcia\t2024-03-09\t28\t1\n", out.String())
	assert.False(t, isTerminal(&out))
}

func TestPrintUpcoming_Nothing(t *testing.T) {
	cfg := testConfig()
	cfg.Storage.Seed = false
	a := newTestApp(t, cfg)

	var out bytes.Buffer
	require.NoError(t, printUpcoming(context.Background(), &out, a, 7, 0, false))
	assert.Equal(t, "No birthdays in the next 7 days.\n", out.String())
}

func TestWriteExport(t *testing.T) {
	a := newTestApp(t, testConfig())

	var ics bytes.Buffer
	require.NoError(t, writeExport(context.Background(), &ics, a, formatICS))
	assert.Equal(t, 30, strings.Count(ics.String(), "BEGIN:VEVENT"))

	var vcf bytes.Buffer
	require.NoError(t, writeExport(context.Background(), &vcf, a, formatVCF))
	assert.Equal(t, 10, strings.Count(vcf.String(), "BEGIN:VCARD"))

	assert.ErrorContains(t, writeExport(context.Background(), io.Discard, a, "csv"), "unknown export format")
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	a := newTestApp(t, testConfig())
	server := &http.Server{Addr: addr, Handler: a.routes()}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- serve(ctx, server, time.Second, discard()) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + addr + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}
