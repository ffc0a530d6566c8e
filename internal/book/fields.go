package book

import (
	"fmt"
	"regexp"
	"time"

	"github.com/tartampluch/go-addressbook/internal/config"
)

var (
	nameRegex  = regexp.MustCompile(fmt.Sprintf(`^[A-Za-z]{%d,}$`, config.NameMinLength))
	phoneRegex = regexp.MustCompile(fmt.Sprintf(`^\d{%d}$`, config.PhoneDigits))
)

// Name is a validated contact name. It is the unique key of a Record.
type Name struct {
	value string
}

// NewName validates value and returns a Name, or an error wrapping ErrInvalidName.
func NewName(value string) (Name, error) {
	if !nameRegex.MatchString(value) {
		return Name{}, fmt.Errorf("%w: %q", ErrInvalidName, value)
	}
	return Name{value: value}, nil
}

// String returns the name as typed.
func (n Name) String() string {
	return n.value
}

// Phone is a validated 12-digit phone number. Phones compare equal by value.
type Phone struct {
	value string
}

// NewPhone validates value and returns a Phone, or an error wrapping ErrInvalidPhone.
func NewPhone(value string) (Phone, error) {
	if !phoneRegex.MatchString(value) {
		return Phone{}, fmt.Errorf("%w: %q", ErrInvalidPhone, value)
	}
	return Phone{value: value}, nil
}

// String returns the digits of the phone number.
func (p Phone) String() string {
	return p.value
}

// Birthday is a calendar date without a time component.
type Birthday struct {
	date time.Time
}

// NewBirthday parses value in DD-MM-YYYY form.
func NewBirthday(value string) (Birthday, error) {
	t, err := time.Parse(config.DateFormatBirthday, value)
	if err != nil {
		return Birthday{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return Birthday{date: t}, nil
}

// BirthdayFromDate builds a Birthday from the calendar date of t.
func BirthdayFromDate(t time.Time) Birthday {
	return Birthday{date: time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// Date returns the birth date at midnight UTC.
func (b Birthday) Date() time.Time {
	return b.date
}

// String formats the birthday as DD-MM-YYYY.
func (b Birthday) String() string {
	return b.date.Format(config.DateFormatBirthday)
}

// NextOccurrence returns the next anniversary on or after the calendar day of now.
// time.Date normalizes Feb 29 to March 1st when the target year is not a leap year.
func (b Birthday) NextOccurrence(now time.Time) time.Time {
	year, month, day := now.Date()
	today := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)

	candidate := time.Date(year, b.date.Month(), b.date.Day(), 0, 0, 0, 0, time.UTC)
	if candidate.Before(today) {
		candidate = time.Date(year+1, b.date.Month(), b.date.Day(), 0, 0, 0, 0, time.UTC)
	}
	return candidate
}

// DaysUntil returns the number of days from the calendar day of now to the
// next anniversary. It is 0 when the birthday is today.
func (b Birthday) DaysUntil(now time.Time) int {
	year, month, day := now.Date()
	today := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return int(b.NextOccurrence(now).Sub(today).Hours() / 24)
}
