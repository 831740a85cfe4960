package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCredentialValidator_PasswordViolations(t *testing.T) {
	v := NewCredentialValidator()

	tests := []struct {
		name       string
		password   string
		violations int
	}{
		{
			name:       "satisfies full policy",
			password:   "Abc123!@",
			violations: 0,
		},
		{
			name:       "missing uppercase and special",
			password:   "abc12345",
			violations: 2,
		},
		{
			name:       "too short",
			password:   "Ab1!",
			violations: 1,
		},
		{
			name:       "empty fails every rule",
			password:   "",
			violations: 5,
		},
		{
			name:       "missing digit",
			password:   "Abcdefg!",
			violations: 1,
		},
		{
			name:       "missing lowercase",
			password:   "ABC123!@",
			violations: 1,
		},
		{
			name:       "special from the defined set",
			password:   `Xy9"aaaa`,
			violations: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			violations := v.PasswordViolations(tt.password)
			assert.Len(t, violations, tt.violations)

			err := v.ValidatePassword(tt.password)
			if tt.violations == 0 {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestCredentialValidator_ValidateEmail(t *testing.T) {
	v := NewCredentialValidator()

	assert.NoError(t, v.ValidateEmail("user@example.com"))
	assert.NoError(t, v.ValidateEmail("first.last+tag@sub.domain.org"))
	assert.Error(t, v.ValidateEmail("not-an-email"))
	assert.Error(t, v.ValidateEmail("missing@tld"))
	assert.Error(t, v.ValidateEmail("@example.com"))
}

func TestCredentialValidator_ValidateMobile(t *testing.T) {
	v := NewCredentialValidator()

	assert.NoError(t, v.ValidateMobile("9876543210"))
	assert.NoError(t, v.ValidateMobile("+91 98765-43210"))
	assert.NoError(t, v.ValidateMobile("123456789012345"))
	assert.Error(t, v.ValidateMobile("12345"))
	assert.Error(t, v.ValidateMobile("1234567890123456"))
	assert.Error(t, v.ValidateMobile("no digits here"))
}

func TestCredentialValidator_ValidateProfile(t *testing.T) {
	v := NewCredentialValidator()

	assert.NoError(t, v.ValidateProfile("Demo Patient", 34))
	assert.Error(t, v.ValidateProfile("X", 34))
	assert.Error(t, v.ValidateProfile("Demo Patient", 0))
	assert.Error(t, v.ValidateProfile("Demo Patient", 151))
}
