package service

import (
	"regexp"
	"strings"

	apperrors "mediscanner/internal/errors"
)

// specialCharacters is the set a password must draw at least one symbol from.
const specialCharacters = `!@#$%^&*(),.?":{}|<>`

var (
	emailRegex     = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	nonDigitRegex  = regexp.MustCompile(`\D`)
	uppercaseRegex = regexp.MustCompile(`[A-Z]`)
	lowercaseRegex = regexp.MustCompile(`[a-z]`)
	digitRegex     = regexp.MustCompile(`\d`)
)

// CredentialValidator validates registration input. Pure; no side effects.
type CredentialValidator struct{}

// NewCredentialValidator creates a new credential validator.
func NewCredentialValidator() *CredentialValidator {
	return &CredentialValidator{}
}

// PasswordViolations returns every policy rule the candidate fails. An empty
// slice means the password satisfies the full policy.
func (v *CredentialValidator) PasswordViolations(candidate string) []string {
	var violations []string
	if len(candidate) < 8 {
		violations = append(violations, "password must be at least 8 characters long")
	}
	if !uppercaseRegex.MatchString(candidate) {
		violations = append(violations, "password must contain at least one uppercase letter")
	}
	if !lowercaseRegex.MatchString(candidate) {
		violations = append(violations, "password must contain at least one lowercase letter")
	}
	if !digitRegex.MatchString(candidate) {
		violations = append(violations, "password must contain at least one digit")
	}
	if !strings.ContainsAny(candidate, specialCharacters) {
		violations = append(violations, "password must contain at least one special character")
	}
	return violations
}

// ValidatePassword checks the full password policy.
func (v *CredentialValidator) ValidatePassword(candidate string) error {
	if violations := v.PasswordViolations(candidate); len(violations) > 0 {
		return apperrors.NewValidationError(violations...)
	}
	return nil
}

// ValidateEmail checks the email format.
func (v *CredentialValidator) ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return apperrors.NewValidationError("invalid email address")
	}
	return nil
}

// ValidateMobile checks that the mobile number has 10 to 15 digits once
// formatting characters are stripped.
func (v *CredentialValidator) ValidateMobile(mobile string) error {
	digits := nonDigitRegex.ReplaceAllString(mobile, "")
	if len(digits) < 10 || len(digits) > 15 {
		return apperrors.NewValidationError("mobile number must be between 10 and 15 digits")
	}
	return nil
}

// ValidateProfile checks the non-credential registration fields.
func (v *CredentialValidator) ValidateProfile(name string, age int) error {
	var violations []string
	if len(name) < 2 || len(name) > 100 {
		violations = append(violations, "name must be between 2 and 100 characters")
	}
	if age < 1 || age > 150 {
		violations = append(violations, "age must be between 1 and 150")
	}
	if len(violations) > 0 {
		return apperrors.NewValidationError(violations...)
	}
	return nil
}
