// Package contact holds the in-memory contact book: validated phone numbers,
// per-contact records, and the directory that keys records by name.
package contact

import (
	"errors"
	"fmt"
)

// phoneDigits is the exact number of digits a phone number must have.
const phoneDigits = 10

// ErrInvalidPhone is wrapped by every ValidationError raised for a phone number.
var ErrInvalidPhone = errors.New("contact: invalid phone number")

// ValidationError reports a value that failed field validation.
type ValidationError struct {
	Field   string
	Value   string
	Message string
	Wrapped error // sentinel for errors.Is
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Unwrap returns the underlying sentinel error.
func (e *ValidationError) Unwrap() error {
	return e.Wrapped
}

// Phone is a validated 10-digit phone number. The zero value is not valid;
// construct with NewPhone.
type Phone struct {
	value string
}

// NewPhone validates raw and returns it as a Phone.
func NewPhone(raw string) (Phone, error) {
	if !isPhoneDigits(raw) {
		return Phone{}, &ValidationError{
			Field:   "phone",
			Value:   raw,
			Message: fmt.Sprintf("Phone number must be %d digits", phoneDigits),
			Wrapped: ErrInvalidPhone,
		}
	}
	return Phone{value: raw}, nil
}

// Value returns the digits of the phone number.
func (p Phone) Value() string {
	return p.value
}

func (p Phone) String() string {
	return p.value
}

// isPhoneDigits reports whether s is exactly phoneDigits ASCII digits.
func isPhoneDigits(s string) bool {
	if len(s) != phoneDigits {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
