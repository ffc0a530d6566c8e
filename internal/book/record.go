package book

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/tartampluch/go-addressbook/internal/config"
)

// Record is one contact: a name, its phones in insertion order and an optional birthday.
// The name is fixed at construction since it is the record's key in an AddressBook.
type Record struct {
	name     Name
	Phones   []Phone
	Birthday *Birthday
}

// NewRecord creates a record holding the given phones.
func NewRecord(name Name, phones ...Phone) *Record {
	return &Record{
		name:   name,
		Phones: slices.Clone(phones),
	}
}

// Name returns the contact's name.
func (r *Record) Name() Name {
	return r.name
}

// HasPhone reports whether p is among the record's phones.
func (r *Record) HasPhone(p Phone) bool {
	return slices.Contains(r.Phones, p)
}

// AddPhone appends p. Duplicates are the caller's concern.
func (r *Record) AddPhone(p Phone) {
	r.Phones = append(r.Phones, p)
}

// ChangePhone replaces old with replacement, keeping its position.
func (r *Record) ChangePhone(old, replacement Phone) error {
	i := slices.Index(r.Phones, old)
	if i < 0 {
		return fmt.Errorf("%w: %s in %s", ErrPhoneNotFound, old, r.name)
	}
	r.Phones[i] = replacement
	return nil
}

// RemovePhone deletes the first occurrence of p.
func (r *Record) RemovePhone(p Phone) error {
	i := slices.Index(r.Phones, p)
	if i < 0 {
		return fmt.Errorf("%w: %s in %s", ErrPhoneNotFound, p, r.name)
	}
	r.Phones = slices.Delete(r.Phones, i, i+1)
	return nil
}

// SetBirthday replaces the record's birthday.
func (r *Record) SetBirthday(b Birthday) {
	r.Birthday = &b
}

// DaysToBirthday returns the days remaining until the next birthday.
func (r *Record) DaysToBirthday(now time.Time) (int, error) {
	if r.Birthday == nil {
		return 0, fmt.Errorf("%w: %s", ErrNoBirthday, r.name)
	}
	return r.Birthday.DaysUntil(now), nil
}

// BirthdayText returns the formatted birthday or the placeholder when unset.
func (r *Record) BirthdayText() string {
	if r.Birthday == nil {
		return config.BirthdayPlaceholder
	}
	return r.Birthday.String()
}

// String renders the record on one line, e.g. "Ann: +123456789012, birthday 01-01-2000".
func (r *Record) String() string {
	phones := make([]string, len(r.Phones))
	for i, p := range r.Phones {
		phones[i] = config.PhonePrefix + p.String()
	}
	if len(phones) == 0 {
		return fmt.Sprintf("%s: birthday %s", r.name, r.BirthdayText())
	}
	return fmt.Sprintf("%s: %s, birthday %s", r.name, strings.Join(phones, config.PhoneSeparator), r.BirthdayText())
}
