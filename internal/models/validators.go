package models

import "errors"

var (
	// ErrPhoneLength is returned when a phone number is not exactly 9
	// characters long.
	ErrPhoneLength = errors.New("phone number must contain 9 numbers")
	// ErrPhoneDigits is returned when a phone number of valid length
	// contains a non-digit character.
	ErrPhoneDigits = errors.New("phone number must contain only numbers")
)

// ValidatePhoneNumber checks that value is exactly 9 ASCII digits.
// Length is checked before characters; the two failures carry distinct
// errors because their messages differ.
func ValidatePhoneNumber(value string) error {
	if len(value) != 9 {
		return ErrPhoneLength
	}
	for i := 0; i < len(value); i++ {
		if value[i] < '0' || value[i] > '9' {
			return ErrPhoneDigits
		}
	}
	return nil
}
