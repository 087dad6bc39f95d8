// Package birthday contains the HTTP handlers of the birthdays resource.
//
// HANDLER PATTERN USED HERE: THE CLOSURE / FACTORY PATTERN
// ────────────────────────────────────────────────────────────
// Each exported function receives its dependencies once, at route
// registration, and returns the http.HandlerFunc that runs per request:
//
//	router.HandleFunc("POST /api/{resource}", birthday.New(provider, validate, metrics))
//
// Handlers never touch a store directly. Every read and write goes through
// the data provider, addressed by the {resource} path segment, so an
// unknown resource name is answered with 404 by the provider itself.
package birthday

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/birthdays-api/internal/dataprovider"
	"github.com/aanand-mishra/birthdays-api/internal/observability"
	"github.com/aanand-mishra/birthdays-api/internal/types"
	"github.com/aanand-mishra/birthdays-api/internal/utils/response"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

var errEmptyBody = errors.New("request body is empty")

// decodeJSON reads the request body into dst. An empty body is an error
// unless allowEmpty is set, in which case dst is left untouched.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) error {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst)
	if errors.Is(err, io.EOF) {
		if allowEmpty {
			return nil
		}
		return errEmptyBody
	}
	return err
}

// ─────────────────────────────────────────────────────────────────────────────
// GetList handles GET /api/{resource}
//
// Query parameters: category, name, q (filters); sort, order; page,
// pageSize, pagination=off.
//
// Success response (200 OK):
//
//	{ "items": [ { "id": "1", "name": "John Doe", ... } ], "total": 10 }
//
// ─────────────────────────────────────────────────────────────────────────────
func GetList(p *dataprovider.BirthdayProvider, m *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resource := r.PathValue("resource")
		slog.Debug("listing records", slog.String("resource", resource))

		params, err := ParseListParams(r.URL.Query())
		if err != nil {
			response.BadRequest(w, err)
			return
		}

		result, err := p.List(r.Context(), resource, params)
		if err != nil {
			response.Error(w, r, err)
			return
		}

		if len(params.Filters) == 0 {
			m.SetRecords(result.Total)
		}
		response.WriteJSON(w, http.StatusOK, result)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// GetByID handles GET /api/{resource}/{id}
//
// Error responses:
//
//	404 Not Found  no record with that id, or unknown resource
//
// ─────────────────────────────────────────────────────────────────────────────
func GetByID(p *dataprovider.BirthdayProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resource, id := r.PathValue("resource"), r.PathValue("id")
		slog.Debug("getting a record", slog.String("resource", resource), slog.String("id", id))

		record, err := p.GetOne(r.Context(), resource, id)
		if err != nil {
			response.Error(w, r, err)
			return
		}
		response.WriteJSON(w, http.StatusOK, record)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// New handles POST /api/{resource}
//
// Request body (JSON):
//
//	{ "name": "Ada Lovelace", "birthDate": "1815-12-10", "category": "other" }
//
// Success response (201 Created): the stored record with its id, and a
// Location header pointing at it.
//
// Error responses:
//
//	400 Bad Request  empty body, malformed JSON or failed validation
//
// ─────────────────────────────────────────────────────────────────────────────
func New(p *dataprovider.BirthdayProvider, validate *validator.Validate, m *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resource := r.PathValue("resource")
		slog.Info("creating a record", slog.String("resource", resource))

		var in types.BirthdayInput
		if err := decodeJSON(w, r, &in, false); err != nil {
			response.BadRequest(w, err)
			return
		}

		if err := validate.Struct(in); err != nil {
			response.Error(w, r, err)
			return
		}

		created, err := p.Create(r.Context(), resource, in)
		if err != nil {
			response.Error(w, r, err)
			return
		}

		m.RecordMutation(observability.MutationCreate, 1)
		slog.Info("record created", slog.String("resource", resource), slog.String("id", created.ID))

		w.Header().Set("Location", path.Join("/api", resource, created.ID))
		response.WriteJSON(w, http.StatusCreated, created)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Update handles PATCH and PUT /api/{resource}/{id}
//
// Both verbs merge: only the supplied fields change, the rest keep their
// stored values. An empty object is a no-op that returns the record.
//
//	{ "phone": "+1 555-0100" }
//
// ─────────────────────────────────────────────────────────────────────────────
func Update(p *dataprovider.BirthdayProvider, validate *validator.Validate, m *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resource, id := r.PathValue("resource"), r.PathValue("id")
		slog.Info("updating a record", slog.String("resource", resource), slog.String("id", id))

		var patch types.BirthdayPatch
		if err := decodeJSON(w, r, &patch, false); err != nil {
			response.BadRequest(w, err)
			return
		}

		if err := validate.Struct(patch); err != nil {
			response.Error(w, r, err)
			return
		}

		updated, err := p.Update(r.Context(), resource, id, patch)
		if err != nil {
			response.Error(w, r, err)
			return
		}

		if !patch.Empty() {
			m.RecordMutation(observability.MutationUpdate, 1)
		}
		slog.Info("record updated", slog.String("resource", resource), slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, updated)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Delete handles DELETE /api/{resource}/{id}
//
// Success response (200 OK): the record as it was before removal.
// ─────────────────────────────────────────────────────────────────────────────
func Delete(p *dataprovider.BirthdayProvider, m *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resource, id := r.PathValue("resource"), r.PathValue("id")
		slog.Info("deleting a record", slog.String("resource", resource), slog.String("id", id))

		removed, err := p.DeleteOne(r.Context(), resource, id)
		if err != nil {
			response.Error(w, r, err)
			return
		}

		m.RecordMutation(observability.MutationDelete, 1)
		slog.Info("record deleted", slog.String("resource", resource), slog.String("id", id))
		response.WriteJSON(w, http.StatusOK, removed)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Clone handles POST /api/{resource}/{id}/clone
//
// The copy is named "<name> (Copy)". An optional body with the same shape
// as an update overrides fields of the copy before it is stored.
// ─────────────────────────────────────────────────────────────────────────────
func Clone(p *dataprovider.BirthdayProvider, validate *validator.Validate, m *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resource, id := r.PathValue("resource"), r.PathValue("id")
		slog.Info("cloning a record", slog.String("resource", resource), slog.String("id", id))

		var overrides types.BirthdayPatch
		if err := decodeJSON(w, r, &overrides, true); err != nil {
			response.BadRequest(w, err)
			return
		}

		if err := validate.Struct(overrides); err != nil {
			response.Error(w, r, err)
			return
		}

		created, err := p.Clone(r.Context(), resource, id, overrides)
		if err != nil {
			response.Error(w, r, err)
			return
		}

		m.RecordMutation(observability.MutationClone, 1)
		slog.Info("record cloned",
			slog.String("resource", resource),
			slog.String("source", id),
			slog.String("id", created.ID))

		w.Header().Set("Location", path.Join("/api", resource, created.ID))
		response.WriteJSON(w, http.StatusCreated, created)
	}
}
