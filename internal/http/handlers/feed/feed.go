// Package feed serves birthdays in the formats other clients consume:
// a subscribable iCalendar feed and vCard export and import.
package feed

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/birthdays-api/internal/dataprovider"
	"github.com/aanand-mishra/birthdays-api/internal/export"
	"github.com/aanand-mishra/birthdays-api/internal/observability"
	"github.com/aanand-mishra/birthdays-api/internal/occurrence"
	"github.com/aanand-mishra/birthdays-api/internal/types"
	"github.com/aanand-mishra/birthdays-api/internal/utils/response"
)

// MaxImportBytes caps the size of an uploaded vCard file.
const MaxImportBytes = 1 << 20

const (
	headerETag        = "ETag"
	headerIfNoneMatch = "If-None-Match"
	headerCacheCtl    = "Cache-Control"
	cacheControl      = "private, max-age=3600"
	vcardFilename     = `attachment; filename="birthdays.vcf"`
)

// stampPrecision is how coarsely the feed timestamp is rounded. Within
// one hour the rendered feed is byte-identical, so its ETag is stable.
const stampPrecision = time.Hour

func all(r *http.Request, p *dataprovider.BirthdayProvider) ([]types.Birthday, error) {
	res, err := p.List(r.Context(), dataprovider.BirthdaysResource, dataprovider.ListParams{
		Pagination: dataprovider.Pagination{Mode: dataprovider.PaginationOff},
	})
	return res.Items, err
}

func etag(body []byte) string {
	sum := sha256.Sum256(body)
	return fmt.Sprintf(`"%s"`, hex.EncodeToString(sum[:]))
}

// Calendar handles GET /api/birthdays/calendar.ics
//
// Every record yields one all-day event for last year, this year and next
// year. The response carries an ETag; a matching If-None-Match gets 304.
func Calendar(p *dataprovider.BirthdayProvider, calc *occurrence.Calculator, names export.Summarizer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := all(r, p)
		if err != nil {
			response.Error(w, r, err)
			return
		}

		var buf bytes.Buffer
		now := calc.Clock.Now().Truncate(stampPrecision)
		if err := export.WriteCalendar(&buf, items, now, names); err != nil {
			response.Error(w, r, err)
			return
		}

		tag := etag(buf.Bytes())
		w.Header().Set("Content-Type", export.ICalMIMEType)
		w.Header().Set(headerCacheCtl, cacheControl)
		w.Header().Set(headerETag, tag)

		if r.Header.Get(headerIfNoneMatch) == tag {
			w.WriteHeader(http.StatusNotModified)
			return
		}

		if _, err := buf.WriteTo(w); err != nil {
			slog.Error("failed to write calendar", slog.String("error", err.Error()))
		}
	}
}

// VCards handles GET /api/birthdays/export.vcf
func VCards(p *dataprovider.BirthdayProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := all(r, p)
		if err != nil {
			response.Error(w, r, err)
			return
		}

		var buf bytes.Buffer
		if err := export.WriteVCards(&buf, items); err != nil {
			response.Error(w, r, err)
			return
		}

		w.Header().Set("Content-Type", export.VCardMIMEType)
		w.Header().Set("Content-Disposition", vcardFilename)
		if _, err := buf.WriteTo(w); err != nil {
			slog.Error("failed to write vcards", slog.String("error", err.Error()))
		}
	}
}

// ImportResult is the body of a vCard import. Error is set only when the
// store failed partway; Imported then lists the records already kept.
type ImportResult struct {
	Status   string           `json:"status,omitempty"`
	Error    string           `json:"error,omitempty"`
	Imported []types.Birthday `json:"imported"`
	Skipped  []export.Skipped `json:"skipped"`
}

// Import handles POST /api/birthdays/import
//
// The body is a vCard stream. Each card with a name and a full BDAY that
// passes validation becomes a new record; the others are listed in
// "skipped" with a reason. A stream that cannot be parsed at all is a 400
// and nothing is stored. Import is not atomic: if the store fails on a
// card, the error response still lists the records created before it.
func Import(p *dataprovider.BirthdayProvider, validate *validator.Validate, m *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body := http.MaxBytesReader(w, r.Body, MaxImportBytes)

		check := func(in types.BirthdayInput) error {
			var verrs validator.ValidationErrors
			if err := validate.Struct(in); errors.As(err, &verrs) {
				return errors.New(response.ValidationError(verrs).Error)
			} else if err != nil {
				return err
			}
			return nil
		}

		inputs, skipped, err := export.ReadVCards(body, check)
		if err != nil {
			response.BadRequest(w, err)
			return
		}

		result := ImportResult{
			Imported: make([]types.Birthday, 0, len(inputs)),
			Skipped:  skipped,
		}
		if result.Skipped == nil {
			result.Skipped = []export.Skipped{}
		}

		for _, in := range inputs {
			created, err := p.Create(r.Context(), dataprovider.BirthdaysResource, in)
			if err != nil {
				m.RecordMutation(observability.MutationImport, len(result.Imported))
				slog.ErrorContext(r.Context(), "vcard import interrupted",
					slog.Int("imported", len(result.Imported)),
					slog.String("error", err.Error()))

				result.Status = response.StatusError
				result.Error = err.Error()
				response.WriteJSON(w, response.StatusFor(err), result)
				return
			}
			result.Imported = append(result.Imported, created)
		}

		m.RecordMutation(observability.MutationImport, len(result.Imported))
		slog.Info("vcards imported",
			slog.Int("imported", len(result.Imported)),
			slog.Int("skipped", len(result.Skipped)))

		response.WriteJSON(w, http.StatusOK, result)
	}
}
