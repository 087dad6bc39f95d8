// Package overview serves the read-only summary endpoints: the dashboard
// and the health probe.
package overview

import (
	"net/http"

	"github.com/aanand-mishra/birthdays-api/internal/dashboard"
	"github.com/aanand-mishra/birthdays-api/internal/dataprovider"
	"github.com/aanand-mishra/birthdays-api/internal/observability"
	"github.com/aanand-mishra/birthdays-api/internal/occurrence"
	"github.com/aanand-mishra/birthdays-api/internal/utils/response"
)

// Dashboard handles GET /api/dashboard
//
//	{
//	  "today": "2024-03-08", "total": 10, "upcoming": 4, "thisMonth": 4,
//	  "categories": [ { "category": "family", "count": 3, "percentage": 30 } ],
//	  "nextUp": [ { "id": "9", "name": "Tom Anderson", "daysUntil": 0, "label": "Today!" } ]
//	}
func Dashboard(p *dataprovider.BirthdayProvider, calc *occurrence.Calculator, labels dashboard.Labeler, m *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := p.List(r.Context(), dataprovider.BirthdaysResource, dataprovider.ListParams{
			Pagination: dataprovider.Pagination{Mode: dataprovider.PaginationOff},
		})
		if err != nil {
			response.Error(w, r, err)
			return
		}

		m.SetRecords(res.Total)
		response.WriteJSON(w, http.StatusOK, dashboard.Build(res.Items, calc.Today(), labels))
	}
}

// Locales reports the active and the available label languages.
type Locales interface {
	Lang() string
	Languages() []string
}

// Health handles GET /healthz. It answers as long as the process serves
// requests and reports the registered resources and label languages.
func Health(p *dataprovider.BirthdayProvider, locales Locales) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.WriteJSON(w, http.StatusOK, map[string]any{
			"status":    response.StatusOK,
			"resources": p.Resources(),
			"locale":    locales.Lang(),
			"locales":   locales.Languages(),
		})
	}
}
