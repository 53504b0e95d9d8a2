package validation

import (
	"errors"
	"strings"
)

// weakSubstrings are fragments that dominate breached-password lists.
// A substring match is deliberate: "Password123!" is no better than
// "password".
var weakSubstrings = []string{
	"password", "123456", "qwerty", "letmein", "iloveyou",
	"welcome", "admin", "monkey", "dragon", "sunshine",
	"goalguard",
}

// ValidatePassword enforces a 12 character minimum and rejects passwords
// built around common fragments. The ceiling is 72 bytes because bcrypt
// truncates anything longer without reporting it.
func ValidatePassword(password string) error {
	if len(password) < 12 {
		return errors.New("password must be at least 12 characters")
	}

	if len(password) > 72 {
		return errors.New("password must not exceed 72 characters")
	}

	lower := strings.ToLower(password)
	for _, weak := range weakSubstrings {
		if strings.Contains(lower, weak) {
			return errors.New("password is too common, please choose a stronger one")
		}
	}

	return nil
}
