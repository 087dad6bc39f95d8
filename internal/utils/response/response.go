// Package response provides helpers for writing consistent JSON HTTP responses.
//
// Every JSON endpoint in this application goes through WriteJSON, and
// every failure is reported with the same envelope:
//
//	{ "status": "error", "error": "field name must be at least 2 characters" }
//
// Error maps the data provider's sentinel errors onto status codes so the
// handlers never have to repeat that switch.
package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/birthdays-api/internal/dataprovider"
	"github.com/aanand-mishra/birthdays-api/internal/validation"
)

// ─────────────────────────────────────────────────────────────────────────────
// Response is the standard envelope returned for error cases.
//
// Success responses may return any JSON shape (a birthday, a page of
// birthdays, a dashboard summary).
// ─────────────────────────────────────────────────────────────────────────────
type Response struct {
	Status string `json:"status"` // "ok" or "error"
	Error  string `json:"error"`  // human-readable error detail
}

// Status string constants.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// ─────────────────────────────────────────────────────────────────────────────
// WriteJSON writes a JSON-encoded response with the given HTTP status code.
//
// IMPORTANT ORDER: Header() → WriteHeader() → body writes.
// Once WriteHeader is called (or the first Write), headers are locked.
// ─────────────────────────────────────────────────────────────────────────────
func WriteJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

// GeneralError wraps any Go error into the standard Response shape.
func GeneralError(err error) Response {
	return Response{
		Status: StatusError,
		Error:  err.Error(),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// ValidationError converts a slice of validator.FieldError values into
// a single human-readable Response.
//
// Field names are the JSON names (see validation.New), so the message
// points at the key the client actually sent:
//
//	{ "status": "error", "error": "field name is required, field phone must be a valid phone number" }
//
// ─────────────────────────────────────────────────────────────────────────────
func ValidationError(errs validator.ValidationErrors) Response {
	messages := make([]string, 0, len(errs))

	for _, e := range errs {
		messages = append(messages, fieldMessage(e))
	}

	return Response{
		Status: StatusError,
		Error:  strings.Join(messages, ", "),
	}
}

func fieldMessage(e validator.FieldError) string {
	switch e.ActualTag() {
	case "required":
		return fmt.Sprintf("field %s is required", e.Field())
	case validation.TagPersonName:
		return fmt.Sprintf("field %s must be at least %d characters", e.Field(), validation.MinNameLength)
	case validation.TagBirthDate:
		return fmt.Sprintf("field %s must be a date between %s and today", e.Field(), validation.EarliestBirthDate)
	case validation.TagLooseEmail, "email":
		return fmt.Sprintf("field %s must be a valid email address", e.Field())
	case validation.TagPhone:
		return fmt.Sprintf("field %s must be a valid phone number", e.Field())
	case "oneof":
		return fmt.Sprintf("field %s must be one of: %s", e.Field(), strings.ReplaceAll(e.Param(), " ", ", "))
	default:
		return fmt.Sprintf("field %s is invalid", e.Field())
	}
}

// StatusFor picks the HTTP status for err.
//
//	dataprovider.ErrNotFound, ErrUnsupportedResource  → 404
//	dataprovider.ErrInvalidSort, validation failures  → 400
//	anything else                                      → 500
func StatusFor(err error) int {
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, dataprovider.ErrNotFound),
		errors.Is(err, dataprovider.ErrUnsupportedResource):
		return http.StatusNotFound
	case errors.Is(err, dataprovider.ErrInvalidSort),
		errors.As(err, &verrs):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err with the status chosen by StatusFor. Server-side
// failures are logged; client mistakes are not.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		WriteJSON(w, status, ValidationError(verrs))
		return
	}

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()))
	}
	WriteJSON(w, status, GeneralError(err))
}

// BadRequest writes a 400 with err as the message.
func BadRequest(w http.ResponseWriter, err error) {
	WriteJSON(w, http.StatusBadRequest, GeneralError(err))
}
