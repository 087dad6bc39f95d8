// Package validation builds the go-playground validator used at the HTTP
// boundary. The data provider stores whatever it is given, so every
// create and update payload passes through here first.
//
// Custom tags registered by New:
//
//	personname  at least two characters after trimming whitespace
//	birthdate   a date between 1900-01-01 and today (inclusive)
//	looseemail  something@something.something, no whitespace
//	phone       ten or more of 0-9 + - ( ) once spaces are removed
//
// civil.Date fields are presented to validators as their YYYY-MM-DD
// string, and as "" when zero, so "required" works on them as expected.
package validation

import (
	"reflect"
	"regexp"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/go-playground/validator/v10"

	"github.com/aanand-mishra/birthdays-api/internal/occurrence"
)

// Tag names, shared with the error messages in internal/utils/response.
const (
	TagPersonName = "personname"
	TagBirthDate  = "birthdate"
	TagLooseEmail = "looseemail"
	TagPhone      = "phone"
)

// MinNameLength is the shortest accepted trimmed name.
const MinNameLength = 2

// EarliestBirthDate is the lower bound of the birthdate tag.
var EarliestBirthDate = civil.Date{Year: 1900, Month: 1, Day: 1}

var (
	emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	phonePattern = regexp.MustCompile(`^[\d\s\-\+\(\)]{10,}$`)
)

// New returns a validator with the custom tags registered. clock decides
// what "today" is for the birthdate tag; nil means the wall clock.
func New(clock occurrence.Clock) *validator.Validate {
	calc := occurrence.New(clock)
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names so messages match the payload.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})

	v.RegisterCustomTypeFunc(dateValue, civil.Date{})

	// RegisterValidation only fails on an empty tag or nil func.
	_ = v.RegisterValidation(TagPersonName, validPersonName)
	_ = v.RegisterValidation(TagLooseEmail, validLooseEmail)
	_ = v.RegisterValidation(TagPhone, validPhone)
	_ = v.RegisterValidation(TagBirthDate, func(fl validator.FieldLevel) bool {
		return ValidBirthDate(fl.Field().String(), calc.Today())
	})

	return v
}

func dateValue(field reflect.Value) any {
	d, ok := field.Interface().(civil.Date)
	if !ok || d == (civil.Date{}) {
		return ""
	}
	return d.String()
}

func validPersonName(fl validator.FieldLevel) bool {
	return ValidPersonName(fl.Field().String())
}

func validLooseEmail(fl validator.FieldLevel) bool {
	return ValidLooseEmail(fl.Field().String())
}

func validPhone(fl validator.FieldLevel) bool {
	return ValidPhone(fl.Field().String())
}

// ValidPersonName reports whether name has at least MinNameLength
// characters once trimmed.
func ValidPersonName(name string) bool {
	return len([]rune(strings.TrimSpace(name))) >= MinNameLength
}

// ValidBirthDate reports whether s is a YYYY-MM-DD date within
// [EarliestBirthDate, today].
func ValidBirthDate(s string, today civil.Date) bool {
	d, err := civil.ParseDate(s)
	if err != nil {
		return false
	}
	return !d.Before(EarliestBirthDate) && !d.After(today)
}

// ValidLooseEmail checks the shape local@domain.tld. An empty string is
// accepted so an update can clear the field.
func ValidLooseEmail(email string) bool {
	return email == "" || emailPattern.MatchString(email)
}

// ValidPhone checks for at least ten digits or separators once spaces
// are stripped. An empty string clears the field.
func ValidPhone(phone string) bool {
	if phone == "" {
		return true
	}
	return phonePattern.MatchString(strings.ReplaceAll(phone, " ", ""))
}
