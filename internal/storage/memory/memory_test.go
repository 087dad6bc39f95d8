package memory

import (
	"context"
	"strconv"
	"sync"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/birthdays-api/internal/storage"
	"github.com/aanand-mishra/birthdays-api/internal/types"
)

func input(name string) types.BirthdayInput {
	return types.BirthdayInput{
		Name:      name,
		BirthDate: civil.Date{Year: 1990, Month: 1, Day: 2},
		Category:  types.CategoryFriends,
	}
}

func TestNew_SeedsIDsInOrder(t *testing.T) {
	m := New(input("a"), input("b"), input("c"))
	ctx := context.Background()

	list, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i, b := range list {
		assert.Equal(t, strconv.Itoa(i+1), b.ID)
	}

	created, err := m.Insert(ctx, input("d"))
	require.NoError(t, err)
	assert.Equal(t, "4", created.ID, "counter starts above the highest seed id")
}

func TestInsert_IDsNeverReused(t *testing.T) {
	m := New(input("a"), input("b"))
	ctx := context.Background()

	_, err := m.Remove(ctx, "2")
	require.NoError(t, err)

	created, err := m.Insert(ctx, input("c"))
	require.NoError(t, err)
	assert.Equal(t, "3", created.ID)

	list, _ := m.List(ctx)
	assert.Equal(t, []string{"1", "3"}, ids(list))
}

func TestList_ReturnsSnapshotCopy(t *testing.T) {
	m := New(input("a"))
	ctx := context.Background()

	before, err := m.List(ctx)
	require.NoError(t, err)

	before[0].Name = "mutated by caller"
	_, err = m.Insert(ctx, input("b"))
	require.NoError(t, err)

	assert.Len(t, before, 1, "earlier reads do not see later inserts")
	got, _ := m.Get(ctx, "1")
	assert.Equal(t, "a", got.Name, "caller copies cannot mutate the store")
}

func TestUpdate_MergesSuppliedFields(t *testing.T) {
	m := New(types.BirthdayInput{
		Name:      "Mike",
		BirthDate: civil.Date{Year: 1992, Month: 12, Day: 8},
		Category:  types.CategoryColleagues,
		Email:     "mike@company.com",
		Notes:     "team lead",
	})
	ctx := context.Background()

	notes := "moved teams"
	got, err := m.Update(ctx, "1", types.BirthdayPatch{Notes: &notes})
	require.NoError(t, err)

	assert.Equal(t, "Mike", got.Name)
	assert.Equal(t, "mike@company.com", got.Email)
	assert.Equal(t, "moved teams", got.Notes)

	stored, _ := m.Get(ctx, "1")
	assert.Equal(t, got, stored)
}

func TestRemove_PreservesOrder(t *testing.T) {
	m := New(input("a"), input("b"), input("c"), input("d"))
	ctx := context.Background()

	removed, err := m.Remove(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "b", removed.Name)

	list, _ := m.List(ctx)
	assert.Equal(t, []string{"1", "3", "4"}, ids(list))
	assert.Equal(t, 3, m.Len())
}

func TestMissingID(t *testing.T) {
	m := New(input("a"))
	ctx := context.Background()

	_, err := m.Get(ctx, "42")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = m.Update(ctx, "42", types.BirthdayPatch{})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	_, err = m.Remove(ctx, "42")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

// TestConcurrentInserts checks ids stay unique under parallel callers.
func TestConcurrentInserts(t *testing.T) {
	m := New()
	ctx := context.Background()

	const workers = 50
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := m.Insert(ctx, input("x"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	list, _ := m.List(ctx)
	seen := make(map[string]bool, len(list))
	for _, b := range list {
		assert.False(t, seen[b.ID], "duplicate id %s", b.ID)
		seen[b.ID] = true
	}
	assert.Len(t, list, workers)
}

func ids(list []types.Birthday) []string {
	out := make([]string, 0, len(list))
	for _, b := range list {
		out = append(out, b.ID)
	}
	return out
}
