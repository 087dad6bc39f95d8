package occurrence

import (
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}

// TestAge verifies the anniversary boundary: age only increments once the
// birthday has actually happened this year.
func TestAge(t *testing.T) {
	tests := []struct {
		name  string
		birth civil.Date
		today civil.Date
		want  int
	}{
		{"day before anniversary", date(1990, 3, 15), date(2024, 3, 14), 33},
		{"on anniversary", date(1990, 3, 15), date(2024, 3, 15), 34},
		{"day after anniversary", date(1990, 3, 15), date(2024, 3, 16), 34},
		{"born today", date(2024, 6, 1), date(2024, 6, 1), 0},
		{"future birth clamps to zero", date(2030, 1, 1), date(2024, 6, 1), 0},
		{"leapling before Mar 1 in non-leap year", date(2000, 2, 29), date(2023, 2, 28), 22},
		{"leapling on Mar 1 in non-leap year", date(2000, 2, 29), date(2023, 3, 1), 23},
		{"leapling on Feb 29 in leap year", date(2000, 2, 29), date(2024, 2, 29), 24},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Age(tt.birth, tt.today))
		})
	}
}

// TestDaysUntil covers the same-day rule and the year rollover.
func TestDaysUntil(t *testing.T) {
	birth := date(1990, 12, 8)

	assert.Equal(t, 7, DaysUntil(birth, date(2024, 12, 1)), "one week ahead")
	assert.Equal(t, 0, DaysUntil(birth, date(2024, 12, 8)), "today counts as not-before")
	assert.Equal(t, 364, DaysUntil(birth, date(2024, 12, 9)), "2025 is not a leap year")
	assert.Equal(t, 365, DaysUntil(birth, date(2023, 12, 9)), "2024 is a leap year")
}

func TestDaysUntil_AlwaysInRange(t *testing.T) {
	birth := date(1985, 7, 22)
	today := date(2024, 1, 1)
	for i := 0; i < 800; i++ {
		d := DaysUntil(birth, today.AddDays(i))
		assert.GreaterOrEqual(t, d, 0)
		assert.Less(t, d, 366)
	}
}

func TestNextOccurrence_LeapDayPolicy(t *testing.T) {
	leapling := date(2000, 2, 29)

	// Non-leap target year resolves to Mar 1.
	assert.Equal(t, date(2025, 3, 1), NextOccurrence(leapling, date(2025, 1, 10)))
	// Leap target year keeps Feb 29.
	assert.Equal(t, date(2024, 2, 29), NextOccurrence(leapling, date(2024, 1, 1)))
	// Already past this year: next year, still normalized.
	assert.Equal(t, date(2026, 3, 1), NextOccurrence(leapling, date(2025, 6, 15)))
}

func TestIsUpcoming(t *testing.T) {
	birth := date(1992, 12, 8)
	for days := 0; days <= 7; days++ {
		today := date(2024, 12, 8).AddDays(-days)
		assert.True(t, IsUpcoming(birth, today), "%d days ahead should be upcoming", days)
	}
	assert.False(t, IsUpcoming(birth, date(2024, 11, 30)), "8 days ahead is not upcoming")
}

func TestNextMilestone(t *testing.T) {
	tests := []struct {
		age       int
		milestone int
		years     int
	}{
		{0, 10, 10},
		{9, 10, 1},
		{10, 20, 10},
		{33, 40, 7},
		{39, 40, 1},
		{40, 50, 10},
	}
	for _, tt := range tests {
		m, y := NextMilestone(tt.age)
		assert.Equal(t, tt.milestone, m, "milestone for age %d", tt.age)
		assert.Equal(t, tt.years, y, "years for age %d", tt.age)
	}
}

func TestDescribe(t *testing.T) {
	tl := Describe(date(1990, 3, 15), date(2024, 3, 10))

	assert.Equal(t, 33, tl.Age)
	assert.Equal(t, 34, tl.TurningAge)
	assert.Equal(t, date(2024, 3, 15), tl.NextOccurrence)
	assert.Equal(t, 5, tl.DaysUntil)
	assert.True(t, tl.Upcoming)
	assert.Equal(t, 40, tl.NextMilestone)
	assert.Equal(t, 7, tl.YearsToNextMilestone)
	assert.Equal(t, date(2024, 3, 10).DaysSince(date(1990, 3, 15)), tl.DaysSinceBirth)
}

// TestCalculator_TodayUsesClockLocation makes sure "today" is taken in the
// clock's own zone, not in UTC.
func TestCalculator_TodayUsesClockLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	// 2024-12-07 20:00 UTC is already Dec 8 in Tokyo.
	now := time.Date(2024, 12, 8, 5, 0, 0, 0, tokyo)
	calc := New(FixedClock(now))

	assert.Equal(t, date(2024, 12, 8), calc.Today())
	assert.Equal(t, 0, calc.DaysUntil(date(1990, 12, 8)))
	assert.True(t, calc.IsUpcoming(date(1990, 12, 8)))
	assert.Equal(t, 34, calc.Age(date(1990, 12, 8)))
}

func TestNew_DefaultsToRealClock(t *testing.T) {
	calc := New(nil)
	assert.IsType(t, RealClock{}, calc.Clock)
}
