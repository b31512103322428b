package service

import (
	"regexp"

	apperr "github.com/sakhrm410f/secure-bank-system/internal/errors"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,80}$`)
	emailPattern    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

	hasUpper   = regexp.MustCompile(`[A-Z]`)
	hasLower   = regexp.MustCompile(`[a-z]`)
	hasDigit   = regexp.MustCompile(`\d`)
	hasSpecial = regexp.MustCompile(`[!@#$%^&*]`)
)

func validUsername(username string) bool {
	return usernamePattern.MatchString(username)
}

func validEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// ValidatePasswordStrength enforces the registration password policy:
// at least 8 characters with upper, lower, digit, and one of !@#$%^&*.
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 ||
		!hasUpper.MatchString(password) ||
		!hasLower.MatchString(password) ||
		!hasDigit.MatchString(password) ||
		!hasSpecial.MatchString(password) {
		return apperr.ErrWeakPassword
	}
	return nil
}
