package sqlite

import (
	"context"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/birthdays-api/internal/storage"
	"github.com/aanand-mishra/birthdays-api/internal/types"
)

func openTest(t *testing.T) *SQLite {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sample(name string) types.BirthdayInput {
	return types.BirthdayInput{
		Name:      name,
		BirthDate: civil.Date{Year: 1985, Month: 7, Day: 22},
		Category:  types.CategoryFamily,
		Email:     name + "@example.com",
	}
}

func TestInsertGetRoundTrip(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	created, err := s.Insert(ctx, sample("sarah"))
	require.NoError(t, err)
	assert.Equal(t, "1", created.ID)

	got, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)
}

func TestIDsNeverReused(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	a, _ := s.Insert(ctx, sample("a"))
	b, _ := s.Insert(ctx, sample("b"))
	_, err := s.Remove(ctx, b.ID)
	require.NoError(t, err)

	c, err := s.Insert(ctx, sample("c"))
	require.NoError(t, err)
	assert.Equal(t, "1", a.ID)
	assert.Equal(t, "3", c.ID)

	list, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].Name)
	assert.Equal(t, "c", list[1].Name)
}

func TestUpdatePartial(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	created, _ := s.Insert(ctx, sample("lisa"))
	cat := types.CategoryOther
	updated, err := s.Update(ctx, created.ID, types.BirthdayPatch{Category: &cat})
	require.NoError(t, err)

	assert.Equal(t, types.CategoryOther, updated.Category)
	assert.Equal(t, created.Name, updated.Name)
	assert.Equal(t, created.Email, updated.Email)
	assert.Equal(t, created.BirthDate, updated.BirthDate)

	same, err := s.Update(ctx, created.ID, types.BirthdayPatch{})
	require.NoError(t, err)
	assert.Equal(t, updated, same, "empty patch is a no-op")
}

func TestNotFound(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()

	for _, id := range []string{"99", "not-a-number"} {
		_, err := s.Get(ctx, id)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		_, err = s.Update(ctx, id, types.BirthdayPatch{})
		assert.ErrorIs(t, err, storage.ErrNotFound)
		_, err = s.Remove(ctx, id)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	}
}

func TestSeedOnlyWhenEmpty(t *testing.T) {
	s := openTest(t)
	ctx := context.Background()
	seed := storage.SeedBirthdays(civil.Date{Year: 2024, Month: 6, Day: 1})

	n, err := s.Seed(ctx, seed)
	require.NoError(t, err)
	assert.Equal(t, len(seed), n)

	n, err = s.Seed(ctx, seed)
	require.NoError(t, err)
	assert.Zero(t, n)

	list, _ := s.List(ctx)
	assert.Len(t, list, len(seed))
	assert.Equal(t, "John Doe", list[0].Name)
}
