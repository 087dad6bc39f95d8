// Package storage defines the Storage interface: a contract that any
// birthday backend must satisfy to work with this application.
//
// WHY AN INTERFACE?
// ─────────────────
// The data provider (and through it every HTTP handler) should not know
// or care where records live. By depending only on this interface:
//
//   - The default in-memory store and the SQLite store are interchangeable;
//     the application picks one from configuration. Zero provider changes.
//
//   - Tests construct a fresh, explicitly owned store per test instead of
//     sharing a process-wide collection.
package storage

import (
	"context"
	"errors"

	"github.com/aanand-mishra/birthdays-api/internal/types"
)

// ErrNotFound is returned by Get, Update and Remove when no record has
// the requested id.
var ErrNotFound = errors.New("storage: record not found")

// Storage is the record store contract.
//
// Every implementation must:
//   - assign ids itself on Insert, never reusing one (even after Remove);
//   - return List in insertion order;
//   - return copies, so callers can never mutate stored records.
type Storage interface {
	// List returns every record in insertion order.
	// Returns an empty slice (not nil) when the store is empty.
	List(ctx context.Context) ([]types.Birthday, error)

	// Get fetches a single record by id.
	Get(ctx context.Context, id string) (types.Birthday, error)

	// Insert appends a new record and returns it with its assigned id.
	Insert(ctx context.Context, in types.BirthdayInput) (types.Birthday, error)

	// Update merges the supplied fields of patch into the record and
	// returns the merged result.
	Update(ctx context.Context, id string, patch types.BirthdayPatch) (types.Birthday, error)

	// Remove deletes the record and returns it as it was just before.
	Remove(ctx context.Context, id string) (types.Birthday, error)
}
