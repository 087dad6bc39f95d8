// Package types holds all shared data structures (models) used across
// the application. Keeping them in one place prevents import cycles:
// handlers, storage, the data provider and the calculators can all import
// types without depending on each other.
package types

import "cloud.google.com/go/civil"

// Category groups birthdays the same way the dashboard breaks them down.
type Category string

const (
	CategoryFamily     Category = "family"
	CategoryFriends    Category = "friends"
	CategoryColleagues Category = "colleagues"
	CategoryOther      Category = "other"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryFamily,
	CategoryFriends,
	CategoryColleagues,
	CategoryOther,
}

// Valid reports whether c is one of the four known categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Birthday is the single record type of the application.
//
// Struct tags serve two purposes:
//
//  1. json:"..."      controls how the field appears when encoded to JSON.
//     Optional fields carry omitempty so absent values stay absent.
//
//  2. validate:"..."  rules checked by the go-playground/validator
//     package (see internal/validation for the custom tags).
//
// BirthDate is a civil.Date: a calendar day with no time-of-day and no
// location. It encodes to JSON as "YYYY-MM-DD".
type Birthday struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	BirthDate civil.Date `json:"birthDate"`
	Category  Category   `json:"category"`
	Email     string     `json:"email,omitempty"`
	Phone     string     `json:"phone,omitempty"`
	Notes     string     `json:"notes,omitempty"`
}

// BirthdayInput is the create payload: a full record minus its id.
type BirthdayInput struct {
	Name      string     `json:"name"      validate:"required,personname"`
	BirthDate civil.Date `json:"birthDate" validate:"required,birthdate"`
	Category  Category   `json:"category"  validate:"required,oneof=family friends colleagues other"`
	Email     string     `json:"email"     validate:"omitempty,looseemail"`
	Phone     string     `json:"phone"     validate:"omitempty,phone"`
	Notes     string     `json:"notes"`
}

// Record attaches an id to the input, producing a stored Birthday.
func (in BirthdayInput) Record(id string) Birthday {
	return Birthday{
		ID:        id,
		Name:      in.Name,
		BirthDate: in.BirthDate,
		Category:  in.Category,
		Email:     in.Email,
		Phone:     in.Phone,
		Notes:     in.Notes,
	}
}

// BirthdayPatch is the update payload. A nil field was not supplied and
// keeps its stored value. There is deliberately no ID field: ids never
// change after creation.
type BirthdayPatch struct {
	Name      *string     `json:"name,omitempty"      validate:"omitempty,personname"`
	BirthDate *civil.Date `json:"birthDate,omitempty" validate:"omitempty,birthdate"`
	Category  *Category   `json:"category,omitempty"  validate:"omitempty,oneof=family friends colleagues other"`
	Email     *string     `json:"email,omitempty"     validate:"omitempty,looseemail"`
	Phone     *string     `json:"phone,omitempty"     validate:"omitempty,phone"`
	Notes     *string     `json:"notes,omitempty"`
}

// Empty reports whether no field was supplied.
func (p BirthdayPatch) Empty() bool {
	return p.Name == nil && p.BirthDate == nil && p.Category == nil &&
		p.Email == nil && p.Phone == nil && p.Notes == nil
}

// Apply returns b with every supplied field of p overwritten.
func (p BirthdayPatch) Apply(b Birthday) Birthday {
	if p.Name != nil {
		b.Name = *p.Name
	}
	if p.BirthDate != nil {
		b.BirthDate = *p.BirthDate
	}
	if p.Category != nil {
		b.Category = *p.Category
	}
	if p.Email != nil {
		b.Email = *p.Email
	}
	if p.Phone != nil {
		b.Phone = *p.Phone
	}
	if p.Notes != nil {
		b.Notes = *p.Notes
	}
	return b
}

// Input strips the id from b, e.g. to clone it.
func (b Birthday) Input() BirthdayInput {
	return BirthdayInput{
		Name:      b.Name,
		BirthDate: b.BirthDate,
		Category:  b.Category,
		Email:     b.Email,
		Phone:     b.Phone,
		Notes:     b.Notes,
	}
}
