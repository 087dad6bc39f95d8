// Package dashboard summarizes a set of birthdays as of a given day:
// totals, the upcoming window, this month's birthdays and the breakdown
// per category.
package dashboard

import (
	"cmp"
	"slices"

	"cloud.google.com/go/civil"

	"github.com/aanand-mishra/birthdays-api/internal/occurrence"
	"github.com/aanand-mishra/birthdays-api/internal/types"
)

// NextUpLimit caps the number of entries in Summary.NextUp.
const NextUpLimit = 5

// Labeler renders the human label for a distance in days.
type Labeler interface {
	DaysUntil(days int) string
}

// Entry is one upcoming birthday with its computed values.
type Entry struct {
	types.Birthday
	Age            int        `json:"age"`
	TurningAge     int        `json:"turningAge"`
	NextOccurrence civil.Date `json:"nextOccurrence"`
	DaysUntil      int        `json:"daysUntil"`
	Label          string     `json:"label"`
}

// CategoryCount is the share of one category. Percentage is in [0, 100]
// and is 0 for an empty set.
type CategoryCount struct {
	Category   types.Category `json:"category"`
	Count      int            `json:"count"`
	Percentage float64        `json:"percentage"`
}

// Summary is the dashboard payload.
type Summary struct {
	Today      civil.Date      `json:"today"`
	Total      int             `json:"total"`
	Upcoming   int             `json:"upcoming"`
	ThisMonth  int             `json:"thisMonth"`
	Categories []CategoryCount `json:"categories"`
	NextUp     []Entry         `json:"nextUp"`
}

// Build computes the Summary of items as of today. Upcoming counts every
// birthday in the next occurrence.UpcomingWindow days; NextUp holds the
// closest NextUpLimit of them.
func Build(items []types.Birthday, today civil.Date, labels Labeler) Summary {
	upcoming := Upcoming(items, today, occurrence.UpcomingWindow, 0, labels)

	thisMonth := 0
	for _, b := range items {
		if occurrence.SameMonth(b.BirthDate, today) {
			thisMonth++
		}
	}

	nextUp := upcoming
	if len(nextUp) > NextUpLimit {
		nextUp = nextUp[:NextUpLimit]
	}

	return Summary{
		Today:      today,
		Total:      len(items),
		Upcoming:   len(upcoming),
		ThisMonth:  thisMonth,
		Categories: Categories(items),
		NextUp:     nextUp,
	}
}

// Upcoming returns the birthdays occurring within window days of today
// (inclusive), closest first. limit <= 0 means no limit. Entries with the
// same distance keep no particular order.
func Upcoming(items []types.Birthday, today civil.Date, window, limit int, labels Labeler) []Entry {
	out := make([]Entry, 0)
	for _, b := range items {
		if !occurrence.Within(b.BirthDate, today, window) {
			continue
		}
		out = append(out, entry(b, today, labels))
	}

	slices.SortFunc(out, func(x, y Entry) int { return cmp.Compare(x.DaysUntil, y.DaysUntil) })

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func entry(b types.Birthday, today civil.Date, labels Labeler) Entry {
	days := occurrence.DaysUntil(b.BirthDate, today)
	e := Entry{
		Birthday:       b,
		Age:            occurrence.Age(b.BirthDate, today),
		TurningAge:     occurrence.TurningAge(b.BirthDate, today),
		NextOccurrence: occurrence.NextOccurrence(b.BirthDate, today),
		DaysUntil:      days,
	}
	if labels != nil {
		e.Label = labels.DaysUntil(days)
	}
	return e
}

// Categories counts items per category in types.Categories order.
// Records with a category outside that list are not counted.
func Categories(items []types.Birthday) []CategoryCount {
	counts := make(map[types.Category]int, len(types.Categories))
	for _, b := range items {
		counts[b.Category]++
	}

	out := make([]CategoryCount, 0, len(types.Categories))
	for _, c := range types.Categories {
		cc := CategoryCount{Category: c, Count: counts[c]}
		if len(items) > 0 {
			cc.Percentage = float64(cc.Count) / float64(len(items)) * 100
		}
		out = append(out, cc)
	}
	return out
}
