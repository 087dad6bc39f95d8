package dashboard

import (
	"encoding/json"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aanand-mishra/birthdays-api/internal/i18n"
	"github.com/aanand-mishra/birthdays-api/internal/storage"
	"github.com/aanand-mishra/birthdays-api/internal/types"
)

var today = civil.Date{Year: 2024, Month: 3, Day: 8}

// seeded returns the sample records with ids, as a store would.
func seeded() []types.Birthday {
	inputs := storage.SeedBirthdays(today)
	out := make([]types.Birthday, 0, len(inputs))
	for i, in := range inputs {
		out = append(out, in.Record(string(rune('a'+i))))
	}
	return out
}

func TestBuild(t *testing.T) {
	s := Build(seeded(), today, i18n.Must("en"))

	assert.Equal(t, today, s.Today)
	assert.Equal(t, 10, s.Total)
	assert.Equal(t, 4, s.Upcoming)
	assert.Equal(t, 4, s.ThisMonth)

	assert.Equal(t, []CategoryCount{
		{Category: types.CategoryFamily, Count: 3, Percentage: 30},
		{Category: types.CategoryFriends, Count: 3, Percentage: 30},
		{Category: types.CategoryColleagues, Count: 3, Percentage: 30},
		{Category: types.CategoryOther, Count: 1, Percentage: 10},
	}, s.Categories)

	require.Len(t, s.NextUp, 4)
	var got []string
	for _, e := range s.NextUp {
		got = append(got, e.Name+" "+e.Label)
	}
	assert.Equal(t, []string{
		"Tom Anderson Today!",
		"Maria Garcia 1 day",
		"Alex Brown 3 days",
		"John Doe 7 days",
	}, got)

	tom := s.NextUp[0]
	assert.Equal(t, 28, tom.Age)
	assert.Equal(t, 28, tom.TurningAge)
	assert.Equal(t, today, tom.NextOccurrence)

	maria := s.NextUp[1]
	assert.Equal(t, 27, maria.Age)
	assert.Equal(t, 28, maria.TurningAge)
}

func TestBuild_CapsNextUp(t *testing.T) {
	var items []types.Birthday
	for i := 0; i < 8; i++ {
		items = append(items, types.Birthday{
			ID:        string(rune('a' + i)),
			Name:      "Soon",
			BirthDate: civil.Date{Year: 2000, Month: 3, Day: 8 + i},
			Category:  types.CategoryOther,
		})
	}

	s := Build(items, today, nil)
	assert.Equal(t, 8, s.Upcoming, "count is not capped")
	require.Len(t, s.NextUp, NextUpLimit)
	assert.Equal(t, 0, s.NextUp[0].DaysUntil)
	assert.Equal(t, 4, s.NextUp[4].DaysUntil)
	assert.Empty(t, s.NextUp[0].Label, "no labeler, no label")
}

func TestBuild_Empty(t *testing.T) {
	s := Build(nil, today, nil)

	assert.Zero(t, s.Total)
	assert.NotNil(t, s.NextUp)
	for _, c := range s.Categories {
		assert.Zero(t, c.Count)
		assert.Zero(t, c.Percentage)
	}

	raw, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"nextUp":[]`)
}

func TestUpcoming_WindowAndLimit(t *testing.T) {
	items := seeded()

	month := Upcoming(items, today, 30, 0, nil)
	assert.Len(t, month, 4)

	two := Upcoming(items, today, 30, 2, nil)
	require.Len(t, two, 2)
	assert.Equal(t, "Tom Anderson", two[0].Name)
	assert.Equal(t, "Maria Garcia", two[1].Name)

	todayOnly := Upcoming(items, today, 0, 0, nil)
	require.Len(t, todayOnly, 1)
	assert.Equal(t, "Tom Anderson", todayOnly[0].Name)
}

func TestEntry_JSONFlattensRecord(t *testing.T) {
	e := entry(types.Birthday{
		ID:        "7",
		Name:      "Ada",
		BirthDate: civil.Date{Year: 1990, Month: 3, Day: 10},
		Category:  types.CategoryFriends,
	}, today, i18n.Must("en"))

	raw, err := json.Marshal(e)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, "7", m["id"])
	assert.Equal(t, "1990-03-10", m["birthDate"])
	assert.Equal(t, "2024-03-10", m["nextOccurrence"])
	assert.EqualValues(t, 2, m["daysUntil"])
	assert.Equal(t, "2 days", m["label"])
}
