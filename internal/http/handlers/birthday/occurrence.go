package birthday

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aanand-mishra/birthdays-api/internal/dashboard"
	"github.com/aanand-mishra/birthdays-api/internal/dataprovider"
	"github.com/aanand-mishra/birthdays-api/internal/occurrence"
	"github.com/aanand-mishra/birthdays-api/internal/types"
	"github.com/aanand-mishra/birthdays-api/internal/utils/response"
)

// maxUpcomingDays bounds the days parameter: every birthday recurs
// within 365 days.
const maxUpcomingDays = 365

// TimelineResponse pairs a record with its computed dates.
type TimelineResponse struct {
	Birthday types.Birthday      `json:"birthday"`
	Timeline occurrence.Timeline `json:"timeline"`
}

// Timeline handles GET /api/birthdays/{id}/timeline
//
//	{ "birthday": {...}, "timeline": { "age": 33, "daysUntil": 7, ... } }
func Timeline(p *dataprovider.BirthdayProvider, calc *occurrence.Calculator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")

		record, err := p.GetOne(r.Context(), dataprovider.BirthdaysResource, id)
		if err != nil {
			response.Error(w, r, err)
			return
		}

		response.WriteJSON(w, http.StatusOK, TimelineResponse{
			Birthday: record,
			Timeline: calc.Describe(record.BirthDate),
		})
	}
}

// UpcomingResponse is the body of the upcoming endpoint.
type UpcomingResponse struct {
	Days  int               `json:"days"`
	Items []dashboard.Entry `json:"items"`
	Total int               `json:"total"`
}

// Upcoming handles GET /api/birthdays/upcoming?days=7&limit=5
//
// Items are sorted by days until the next occurrence. days defaults to
// the standard upcoming window and must be within [0, 365]; limit 0 or
// absent returns every match.
func Upcoming(p *dataprovider.BirthdayProvider, calc *occurrence.Calculator, labels dashboard.Labeler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		days := occurrence.UpcomingWindow
		if q.Has("days") {
			n, err := intParam(q, "days")
			if err != nil {
				response.BadRequest(w, err)
				return
			}
			days = n
		}
		if days < 0 || days > maxUpcomingDays {
			response.BadRequest(w, fmt.Errorf("days must be between 0 and %d", maxUpcomingDays))
			return
		}

		limit, err := intParam(q, "limit")
		if err != nil {
			response.BadRequest(w, err)
			return
		}

		all, err := p.List(r.Context(), dataprovider.BirthdaysResource, dataprovider.ListParams{
			Pagination: dataprovider.Pagination{Mode: dataprovider.PaginationOff},
		})
		if err != nil {
			response.Error(w, r, err)
			return
		}

		items := dashboard.Upcoming(all.Items, calc.Today(), days, limit, labels)
		slog.Debug("upcoming birthdays", slog.Int("days", days), slog.Int("found", len(items)))

		response.WriteJSON(w, http.StatusOK, UpcomingResponse{Days: days, Items: items, Total: len(items)})
	}
}
