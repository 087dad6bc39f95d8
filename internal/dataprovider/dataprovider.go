// Package dataprovider is the uniform data access layer every handler
// goes through: list with filters, sorting and pagination, get-one,
// create, update and delete-one, dispatched by resource name.
//
// A Provider is a registry mapping resource names ("birthdays") to a
// Resource implementation. Asking for a name that was never registered
// fails with ErrUnsupportedResource on every operation.
//
// The provider performs no business validation. Checking names, dates,
// emails and phone numbers is the caller's job (see internal/validation);
// the only failures produced here are existence checks and malformed
// list parameters.
package dataprovider

import (
	"context"
	"errors"
	"fmt"
	"sort"
)

// Errors returned by providers and resources. Test with errors.Is.
var (
	ErrNotFound            = errors.New("record not found")
	ErrUnsupportedResource = errors.New("unsupported resource")
	ErrInvalidSort         = errors.New("invalid sort field")
)

// Resource is the CRUD capability a named collection exposes.
// T is the record type, C the create payload and U the update payload.
type Resource[T, C, U any] interface {
	List(ctx context.Context, params ListParams) (ListResult[T], error)
	GetOne(ctx context.Context, id string) (T, error)
	Create(ctx context.Context, payload C) (T, error)
	Update(ctx context.Context, id string, patch U) (T, error)
	DeleteOne(ctx context.Context, id string) (T, error)
}

// Cloner is implemented by resources that can duplicate a record.
type Cloner[T, U any] interface {
	Clone(ctx context.Context, id string, overrides U) (T, error)
}

// ListResult is one page of records plus the size of the whole filtered
// set, independent of pagination.
type ListResult[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// Provider dispatches operations to registered resources by name.
// Registration happens at startup; afterwards a Provider is read-only and
// safe for concurrent use.
type Provider[T, C, U any] struct {
	resources map[string]Resource[T, C, U]
}

// New returns an empty registry.
func New[T, C, U any]() *Provider[T, C, U] {
	return &Provider[T, C, U]{resources: make(map[string]Resource[T, C, U])}
}

// Register binds name to r, replacing any previous binding.
func (p *Provider[T, C, U]) Register(name string, r Resource[T, C, U]) {
	p.resources[name] = r
}

// Resources returns the registered names in sorted order.
func (p *Provider[T, C, U]) Resources() []string {
	names := make([]string, 0, len(p.resources))
	for name := range p.resources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resource looks up the handler registered under name.
func (p *Provider[T, C, U]) Resource(name string) (Resource[T, C, U], error) {
	r, ok := p.resources[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedResource, name)
	}
	return r, nil
}

// List runs a filtered, sorted, paginated query against resource.
func (p *Provider[T, C, U]) List(ctx context.Context, resource string, params ListParams) (ListResult[T], error) {
	r, err := p.Resource(resource)
	if err != nil {
		return ListResult[T]{}, err
	}
	return r.List(ctx, params)
}

// GetOne fetches one record of resource by id.
func (p *Provider[T, C, U]) GetOne(ctx context.Context, resource, id string) (T, error) {
	r, err := p.Resource(resource)
	if err != nil {
		var zero T
		return zero, err
	}
	return r.GetOne(ctx, id)
}

// Create adds a record to resource.
func (p *Provider[T, C, U]) Create(ctx context.Context, resource string, payload C) (T, error) {
	r, err := p.Resource(resource)
	if err != nil {
		var zero T
		return zero, err
	}
	return r.Create(ctx, payload)
}

// Update merges patch into the record of resource with id.
func (p *Provider[T, C, U]) Update(ctx context.Context, resource, id string, patch U) (T, error) {
	r, err := p.Resource(resource)
	if err != nil {
		var zero T
		return zero, err
	}
	return r.Update(ctx, id, patch)
}

// DeleteOne removes the record of resource with id and returns it.
func (p *Provider[T, C, U]) DeleteOne(ctx context.Context, resource, id string) (T, error) {
	r, err := p.Resource(resource)
	if err != nil {
		var zero T
		return zero, err
	}
	return r.DeleteOne(ctx, id)
}

// Clone duplicates the record of resource with id, applying overrides to
// the copy. Resources without cloning support fail with
// ErrUnsupportedResource.
func (p *Provider[T, C, U]) Clone(ctx context.Context, resource, id string, overrides U) (T, error) {
	var zero T
	r, err := p.Resource(resource)
	if err != nil {
		return zero, err
	}
	c, ok := r.(Cloner[T, U])
	if !ok {
		return zero, fmt.Errorf("%w: %q cannot be cloned", ErrUnsupportedResource, resource)
	}
	return c.Clone(ctx, id, overrides)
}
