// Package occurrence computes everything derived from a birth date and
// "today": current age, the next yearly occurrence, how many days remain
// until it and whether it counts as upcoming.
//
// All functions work on civil.Date values so time-of-day and time zones
// never leak into the day arithmetic. The only place a moment in time is
// turned into a calendar day is Calculator.Today.
//
// Leap days: a Feb 29 birth date projected onto a non-leap year falls on
// Mar 1. This is what time.Date normalization produces and it is used
// consistently for occurrences and for age.
package occurrence

import (
	"time"

	"cloud.google.com/go/civil"
)

// UpcomingWindow is the inclusive number of days ahead that counts as
// upcoming (0 = today).
const UpcomingWindow = 7

// Clock abstracts time.Now() to allow deterministic testing.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current local time.
func (RealClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same moment.
type FixedClock time.Time

// Now returns the fixed moment.
func (c FixedClock) Now() time.Time {
	return time.Time(c)
}

// Anniversary returns the birth month/day placed in year.
func Anniversary(birth civil.Date, year int) civil.Date {
	t := time.Date(year, birth.Month, birth.Day, 0, 0, 0, 0, time.UTC)
	return civil.DateOf(t)
}

// Age returns the number of whole years between birth and today. It only
// increments once the anniversary has been reached in today's year.
// Births after today yield 0.
func Age(birth, today civil.Date) int {
	if birth.After(today) {
		return 0
	}
	years := today.Year - birth.Year
	if Anniversary(birth, today.Year).After(today) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}

// NextOccurrence returns the anniversary in today's year, or next year's
// if this year's is strictly before today. Today itself counts.
func NextOccurrence(birth, today civil.Date) civil.Date {
	next := Anniversary(birth, today.Year)
	if next.Before(today) {
		next = Anniversary(birth, today.Year+1)
	}
	return next
}

// DaysUntil returns the number of calendar days from today to the next
// occurrence. The result is always in [0, 365].
func DaysUntil(birth, today civil.Date) int {
	return NextOccurrence(birth, today).DaysSince(today)
}

// IsUpcoming reports whether the next occurrence is within the next
// UpcomingWindow days, today included.
func IsUpcoming(birth, today civil.Date) bool {
	return Within(birth, today, UpcomingWindow)
}

// Within reports whether DaysUntil falls in [0, days].
func Within(birth, today civil.Date, days int) bool {
	d := DaysUntil(birth, today)
	return d >= 0 && d <= days
}

// TurningAge is the age reached on the next occurrence.
func TurningAge(birth, today civil.Date) int {
	next := NextOccurrence(birth, today)
	age := next.Year - birth.Year
	if age < 0 {
		return 0
	}
	return age
}

// DaysSinceBirth returns the number of days lived, 0 for future births.
func DaysSinceBirth(birth, today civil.Date) int {
	if birth.After(today) {
		return 0
	}
	return today.DaysSince(birth)
}

// NextMilestone returns the next round (multiple of ten) age strictly
// above age and how many years away it is.
func NextMilestone(age int) (milestone, yearsAway int) {
	if age < 0 {
		age = 0
	}
	milestone = ((age + 1 + 9) / 10) * 10
	return milestone, milestone - age
}

// SameMonth reports whether the birth month is today's month.
func SameMonth(birth, today civil.Date) bool {
	return birth.Month == today.Month
}

// Timeline bundles every derived value for one birth date.
type Timeline struct {
	Age                  int        `json:"age"`
	TurningAge           int        `json:"turningAge"`
	NextOccurrence       civil.Date `json:"nextOccurrence"`
	DaysUntil            int        `json:"daysUntil"`
	Upcoming             bool       `json:"upcoming"`
	DaysSinceBirth       int        `json:"daysSinceBirth"`
	NextMilestone        int        `json:"nextMilestone"`
	YearsToNextMilestone int        `json:"yearsToNextMilestone"`
}

// Describe computes the full Timeline of birth relative to today.
func Describe(birth, today civil.Date) Timeline {
	age := Age(birth, today)
	milestone, years := NextMilestone(age)
	return Timeline{
		Age:                  age,
		TurningAge:           TurningAge(birth, today),
		NextOccurrence:       NextOccurrence(birth, today),
		DaysUntil:            DaysUntil(birth, today),
		Upcoming:             IsUpcoming(birth, today),
		DaysSinceBirth:       DaysSinceBirth(birth, today),
		NextMilestone:        milestone,
		YearsToNextMilestone: years,
	}
}

// Calculator binds the package functions to a Clock.
type Calculator struct {
	Clock Clock
}

// New returns a Calculator reading time from clock. A nil clock means
// RealClock.
func New(clock Clock) *Calculator {
	if clock == nil {
		clock = RealClock{}
	}
	return &Calculator{Clock: clock}
}

// Today returns the calendar day of Clock.Now() in the clock's location.
func (c *Calculator) Today() civil.Date {
	return civil.DateOf(c.Clock.Now())
}

// Age is Age(birth, c.Today()).
func (c *Calculator) Age(birth civil.Date) int {
	return Age(birth, c.Today())
}

// DaysUntil is DaysUntil(birth, c.Today()).
func (c *Calculator) DaysUntil(birth civil.Date) int {
	return DaysUntil(birth, c.Today())
}

// IsUpcoming is IsUpcoming(birth, c.Today()).
func (c *Calculator) IsUpcoming(birth civil.Date) bool {
	return IsUpcoming(birth, c.Today())
}

// Describe is Describe(birth, c.Today()).
func (c *Calculator) Describe(birth civil.Date) Timeline {
	return Describe(birth, c.Today())
}
