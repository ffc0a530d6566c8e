package book

import "errors"

// Field validation and lookup failures. Callers wrap them with the offending
// value and compare with errors.Is.
var (
	ErrInvalidName   = errors.New("name must contain only letters and be at least 2 characters long")
	ErrInvalidPhone  = errors.New("phone must be exactly 12 digits, e.g. 380501234567")
	ErrInvalidDate   = errors.New("invalid date format, use DD-MM-YYYY")
	ErrNotFound      = errors.New("contact not found")
	ErrPhoneNotFound = errors.New("phone not found")
	ErrNoBirthday    = errors.New("birthday is not set")
)
