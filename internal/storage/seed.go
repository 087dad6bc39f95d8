package storage

import (
	"cloud.google.com/go/civil"

	"github.com/aanand-mishra/birthdays-api/internal/types"
)

// relativeSeedYears pushes the "soon" sample birthdays back in time so
// they are never future dates. It is a multiple of four, which keeps a
// Feb 29 "today" on a valid date.
const relativeSeedYears = 28

// SeedBirthdays returns the sample records a fresh store starts with.
// Three of them fall on today, tomorrow and in three days so the
// dashboard always has something upcoming to show.
func SeedBirthdays(today civil.Date) []types.BirthdayInput {
	soon := func(days int) civil.Date {
		d := today.AddDays(days)
		d.Year -= relativeSeedYears
		return d
	}

	return []types.BirthdayInput{
		{
			Name:      "John Doe",
			BirthDate: civil.Date{Year: 1990, Month: 3, Day: 15},
			Category:  types.CategoryFriends,
			Email:     "john@example.com",
			Phone:     "+1 555-0123",
			Notes:     "College friend, loves hiking",
		},
		{
			Name:      "Sarah Johnson",
			BirthDate: civil.Date{Year: 1985, Month: 7, Day: 22},
			Category:  types.CategoryFamily,
			Email:     "sarah@example.com",
			Phone:     "+1 555-0456",
			Notes:     "Sister, always forgets her own birthday",
		},
		{
			Name:      "Mike Chen",
			BirthDate: civil.Date{Year: 1992, Month: 12, Day: 8},
			Category:  types.CategoryColleagues,
			Email:     "mike.chen@company.com",
			Phone:     "+1 555-0789",
			Notes:     "Team lead, great at coding",
		},
		{
			Name:      "Emily Rodriguez",
			BirthDate: civil.Date{Year: 1988, Month: 5, Day: 3},
			Category:  types.CategoryFriends,
			Email:     "emily@example.com",
			Notes:     "Childhood friend, loves photography",
		},
		{
			Name:      "David Wilson",
			BirthDate: civil.Date{Year: 1995, Month: 11, Day: 18},
			Category:  types.CategoryColleagues,
			Email:     "david.wilson@company.com",
			Phone:     "+1 555-0321",
			Notes:     "Designer, very creative",
		},
		{
			Name:      "Lisa Taylor",
			BirthDate: civil.Date{Year: 1987, Month: 1, Day: 25},
			Category:  types.CategoryFamily,
			Email:     "lisa@example.com",
			Phone:     "+1 555-0654",
			Notes:     "Cousin, lives in California",
		},
		{
			Name:      "Alex Brown",
			BirthDate: soon(3),
			Category:  types.CategoryFriends,
			Email:     "alex@example.com",
			Phone:     "+1 555-0987",
			Notes:     "Birthday coming up soon!",
		},
		{
			Name:      "Maria Garcia",
			BirthDate: soon(1),
			Category:  types.CategoryColleagues,
			Email:     "maria@company.com",
			Phone:     "+1 555-0147",
			Notes:     "HR manager, very organized",
		},
		{
			Name:      "Tom Anderson",
			BirthDate: soon(0),
			Category:  types.CategoryFamily,
			Email:     "tom@example.com",
			Phone:     "+1 555-0258",
			Notes:     "Uncle, birthday is today!",
		},
		{
			Name:      "Rachel Green",
			BirthDate: civil.Date{Year: 1993, Month: 9, Day: 12},
			Category:  types.CategoryOther,
			Email:     "rachel@example.com",
			Notes:     "Neighbor, very friendly",
		},
	}
}
