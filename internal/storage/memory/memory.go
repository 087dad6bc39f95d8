// Package memory provides the in-process implementation of
// storage.Storage: an ordered slice of records plus a never-reused id
// counter.
//
// Nothing here survives a restart. The store is an explicitly constructed
// value owned by whoever composes the application; there is no
// package-level singleton.
package memory

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/aanand-mishra/birthdays-api/internal/storage"
	"github.com/aanand-mishra/birthdays-api/internal/types"
)

// Memory is the in-memory record store.
//
// The mutex makes every operation atomic, including the read-modify-write
// of Update and Remove, so concurrent HTTP requests cannot lose updates.
type Memory struct {
	mu      sync.RWMutex
	records []types.Birthday
	nextID  int64
}

// compile-time check that Memory satisfies the interface
var _ storage.Storage = (*Memory)(nil)

// New returns a store holding seed in the given order with ids 1..len(seed).
// The id counter starts right above the highest seed id.
func New(seed ...types.BirthdayInput) *Memory {
	m := &Memory{
		records: make([]types.Birthday, 0, len(seed)),
		nextID:  1,
	}
	for _, in := range seed {
		m.records = append(m.records, in.Record(m.allocateID()))
	}
	return m
}

// allocateID returns the next id and advances the counter.
// Caller must hold mu (or be the constructor).
func (m *Memory) allocateID() string {
	id := strconv.FormatInt(m.nextID, 10)
	m.nextID++
	return id
}

// indexOf returns the slice position of id, or -1. Caller must hold mu.
func (m *Memory) indexOf(id string) int {
	for i := range m.records {
		if m.records[i].ID == id {
			return i
		}
	}
	return -1
}

func notFound(id string) error {
	return fmt.Errorf("%w: id %q", storage.ErrNotFound, id)
}

// List returns a copy of every record in insertion order.
func (m *Memory) List(_ context.Context) ([]types.Birthday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]types.Birthday, len(m.records))
	copy(out, m.records)
	return out, nil
}

// Get returns the record with id.
func (m *Memory) Get(_ context.Context, id string) (types.Birthday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.indexOf(id)
	if i < 0 {
		return types.Birthday{}, notFound(id)
	}
	return m.records[i], nil
}

// Insert appends a new record at the end of the collection.
func (m *Memory) Insert(_ context.Context, in types.BirthdayInput) (types.Birthday, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b := in.Record(m.allocateID())
	m.records = append(m.records, b)
	return b, nil
}

// Update merges patch into the record in place.
func (m *Memory) Update(_ context.Context, id string, patch types.BirthdayPatch) (types.Birthday, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return types.Birthday{}, notFound(id)
	}
	m.records[i] = patch.Apply(m.records[i])
	return m.records[i], nil
}

// Remove deletes the record, keeping the relative order of the rest.
func (m *Memory) Remove(_ context.Context, id string) (types.Birthday, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return types.Birthday{}, notFound(id)
	}
	removed := m.records[i]
	m.records = append(m.records[:i], m.records[i+1:]...)
	return removed, nil
}

// Len returns the number of stored records.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.records)
}
