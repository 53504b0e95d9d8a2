package validation

import (
	"errors"
	"net/mail"
)

// ValidateEmail checks the address for RFC 5322 shape via the stdlib
// parser and caps the total length at 254 (RFC 5321 path limit).
func ValidateEmail(email string) error {
	if email == "" {
		return errors.New("email address is required")
	}

	if len(email) > 254 {
		return errors.New("email address is too long (max 254 characters)")
	}

	_, err := mail.ParseAddress(email)
	if err != nil {
		return errors.New("invalid email address format")
	}

	return nil
}
