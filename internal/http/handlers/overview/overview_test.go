package overview

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/birthdays-api/internal/dashboard"
	"github.com/aanand-mishra/birthdays-api/internal/dataprovider"
	"github.com/aanand-mishra/birthdays-api/internal/i18n"
	"github.com/aanand-mishra/birthdays-api/internal/observability"
	"github.com/aanand-mishra/birthdays-api/internal/occurrence"
	"github.com/aanand-mishra/birthdays-api/internal/storage"
	"github.com/aanand-mishra/birthdays-api/internal/storage/memory"
)

var testToday = civil.Date{Year: 2024, Month: 3, Day: 8}

func provider(seeded bool) (*dataprovider.BirthdayProvider, *occurrence.Calculator) {
	calc := occurrence.New(occurrence.FixedClock(time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC)))
	store := memory.New()
	if seeded {
		store = memory.New(storage.SeedBirthdays(testToday)...)
	}
	return dataprovider.NewBirthdayProvider(store, calc), calc
}

func TestDashboard(t *testing.T) {
	p, calc := provider(true)
	m := observability.NewMetrics(prometheus.NewRegistry())

	rec := httptest.NewRecorder()
	Dashboard(p, calc, i18n.Must("fr"), m)(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got dashboard.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, testToday, got.Today)
	assert.Equal(t, 10, got.Total)
	assert.Equal(t, 4, got.Upcoming)
	assert.Equal(t, 4, got.ThisMonth)
	require.Len(t, got.NextUp, 4)
	assert.Equal(t, "Tom Anderson", got.NextUp[0].Name)
	assert.Equal(t, "Aujourd'hui !", got.NextUp[0].Label)
	assert.Equal(t, 10.0, testutil.ToFloat64(m.Records))
}

func TestDashboard_Empty(t *testing.T) {
	p, calc := provider(false)

	rec := httptest.NewRecorder()
	Dashboard(p, calc, nil, nil)(rec, httptest.NewRequest(http.MethodGet, "/api/dashboard", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 0.0, got["total"])
	assert.Equal(t, []any{}, got["nextUp"])
	assert.Len(t, got["categories"], 4)
}

func TestHealth(t *testing.T) {
	p, _ := provider(false)

	rec := httptest.NewRecorder()
	Health(p, i18n.Must("fr"))(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","resources":["birthdays"],"locale":"fr","locales":["en","fr"]}`, rec.Body.String())
}
