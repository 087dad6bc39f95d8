package dataprovider

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/aanand-mishra/birthdays-api/internal/occurrence"
	"github.com/aanand-mishra/birthdays-api/internal/storage"
	"github.com/aanand-mishra/birthdays-api/internal/types"
)

// BirthdaysResource is the name the birthdays resource is registered under.
const BirthdaysResource = "birthdays"

// Filter fields understood by Birthdays.List.
const (
	FilterCategory = "category" // exact match
	FilterName     = "name"     // case-insensitive substring of name
	FilterSearch   = "q"        // case-insensitive substring of name or email
)

// CloneSuffix is appended to the name of a cloned record.
const CloneSuffix = " (Copy)"

// BirthdayProvider is the concrete registry type used by the application.
type BirthdayProvider = Provider[types.Birthday, types.BirthdayInput, types.BirthdayPatch]

// NewBirthdayProvider returns a registry with the birthdays resource
// already registered.
func NewBirthdayProvider(store storage.Storage, calc *occurrence.Calculator) *BirthdayProvider {
	p := New[types.Birthday, types.BirthdayInput, types.BirthdayPatch]()
	p.Register(BirthdaysResource, NewBirthdays(store, calc))
	return p
}

// Birthdays implements Resource on top of a storage.Storage.
type Birthdays struct {
	store storage.Storage
	calc  *occurrence.Calculator
}

var _ Resource[types.Birthday, types.BirthdayInput, types.BirthdayPatch] = (*Birthdays)(nil)

// NewBirthdays wires the resource to its store. calc provides "today" for
// the computed sort keys daysUntil and age.
func NewBirthdays(store storage.Storage, calc *occurrence.Calculator) *Birthdays {
	if calc == nil {
		calc = occurrence.New(nil)
	}
	return &Birthdays{store: store, calc: calc}
}

// translate maps storage sentinels onto provider sentinels.
func translate(id string, err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: birthday %q", ErrNotFound, id)
	}
	return err
}

// List filters, sorts and paginates the stored birthdays.
//
// Filters are intersected in the order given. Sorting compares a single
// key and is NOT stable: records with equal keys may come back in any
// order. Total counts the filtered set before pagination.
func (b *Birthdays) List(ctx context.Context, params ListParams) (ListResult[types.Birthday], error) {
	all, err := b.store.List(ctx)
	if err != nil {
		return ListResult[types.Birthday]{}, fmt.Errorf("list birthdays: %w", err)
	}

	data := all
	for _, f := range params.Filters {
		data = applyFilter(data, f)
	}

	if params.Sort != nil {
		if err := b.sort(data, *params.Sort); err != nil {
			return ListResult[types.Birthday]{}, err
		}
	}

	page := paginate(data, params.Pagination)
	items := make([]types.Birthday, len(page))
	copy(items, page)

	return ListResult[types.Birthday]{Items: items, Total: len(data)}, nil
}

// applyFilter keeps the records matching f. Empty values and unknown
// fields leave the input untouched.
func applyFilter(in []types.Birthday, f Filter) []types.Birthday {
	if f.Value == "" {
		return in
	}

	var keep func(types.Birthday) bool
	switch f.Field {
	case FilterCategory:
		keep = func(b types.Birthday) bool { return string(b.Category) == f.Value }
	case FilterName:
		needle := strings.ToLower(f.Value)
		keep = func(b types.Birthday) bool {
			return strings.Contains(strings.ToLower(b.Name), needle)
		}
	case FilterSearch:
		needle := strings.ToLower(f.Value)
		keep = func(b types.Birthday) bool {
			return strings.Contains(strings.ToLower(b.Name), needle) ||
				strings.Contains(strings.ToLower(b.Email), needle)
		}
	default:
		return in
	}

	out := make([]types.Birthday, 0, len(in))
	for _, b := range in {
		if keep(b) {
			out = append(out, b)
		}
	}
	return out
}

// stringKeys are the stored fields, compared as strings. birthDate sorts
// chronologically because its string form is YYYY-MM-DD.
var stringKeys = map[string]func(types.Birthday) string{
	"id":        func(b types.Birthday) string { return b.ID },
	"name":      func(b types.Birthday) string { return b.Name },
	"birthDate": func(b types.Birthday) string { return b.BirthDate.String() },
	"category":  func(b types.Birthday) string { return string(b.Category) },
	"email":     func(b types.Birthday) string { return b.Email },
	"phone":     func(b types.Birthday) string { return b.Phone },
	"notes":     func(b types.Birthday) string { return b.Notes },
}

// SortFields lists every accepted sort key.
func SortFields() []string {
	fields := make([]string, 0, len(stringKeys)+2)
	for k := range stringKeys {
		fields = append(fields, k)
	}
	fields = append(fields, "daysUntil", "age")
	slices.Sort(fields)
	return fields
}

func (b *Birthdays) sort(data []types.Birthday, s Sorter) error {
	var compare func(x, y types.Birthday) int

	if key, ok := stringKeys[s.Field]; ok {
		compare = func(x, y types.Birthday) int { return cmp.Compare(key(x), key(y)) }
	} else {
		today := b.calc.Today()
		switch s.Field {
		case "daysUntil":
			compare = func(x, y types.Birthday) int {
				return cmp.Compare(occurrence.DaysUntil(x.BirthDate, today), occurrence.DaysUntil(y.BirthDate, today))
			}
		case "age":
			compare = func(x, y types.Birthday) int {
				return cmp.Compare(occurrence.Age(x.BirthDate, today), occurrence.Age(y.BirthDate, today))
			}
		default:
			return fmt.Errorf("%w: %q, want one of %s", ErrInvalidSort, s.Field, strings.Join(SortFields(), ", "))
		}
	}

	if s.Order == OrderDesc {
		asc := compare
		compare = func(x, y types.Birthday) int { return asc(y, x) }
	}
	slices.SortFunc(data, compare)
	return nil
}

// GetOne returns the birthday with id.
func (b *Birthdays) GetOne(ctx context.Context, id string) (types.Birthday, error) {
	rec, err := b.store.Get(ctx, id)
	if err != nil {
		return types.Birthday{}, translate(id, err)
	}
	return rec, nil
}

// Create appends a new birthday and returns it with its assigned id.
func (b *Birthdays) Create(ctx context.Context, payload types.BirthdayInput) (types.Birthday, error) {
	rec, err := b.store.Insert(ctx, payload)
	if err != nil {
		return types.Birthday{}, fmt.Errorf("create birthday: %w", err)
	}
	return rec, nil
}

// Update merges the supplied fields of patch; omitted fields are kept.
func (b *Birthdays) Update(ctx context.Context, id string, patch types.BirthdayPatch) (types.Birthday, error) {
	rec, err := b.store.Update(ctx, id, patch)
	if err != nil {
		return types.Birthday{}, translate(id, err)
	}
	return rec, nil
}

// DeleteOne removes the birthday and returns it as it was.
func (b *Birthdays) DeleteOne(ctx context.Context, id string) (types.Birthday, error) {
	rec, err := b.store.Remove(ctx, id)
	if err != nil {
		return types.Birthday{}, translate(id, err)
	}
	return rec, nil
}

// Clone creates a copy of the birthday with id. The copy's name gets
// CloneSuffix, then overrides are applied before it is stored.
func (b *Birthdays) Clone(ctx context.Context, id string, overrides types.BirthdayPatch) (types.Birthday, error) {
	src, err := b.GetOne(ctx, id)
	if err != nil {
		return types.Birthday{}, err
	}
	src.Name += CloneSuffix
	return b.Create(ctx, overrides.Apply(src).Input())
}
