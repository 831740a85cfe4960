package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	apperrors "mediscanner/internal/errors"
)

func TestJWTService_IssueVerifyRoundtrip(t *testing.T) {
	s := NewJWTService("test-secret", "HS256", time.Minute)

	token, tokenID, err := s.Issue("64f1a2b3c4d5e6f708091a0b", "user@example.com")
	assert.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, tokenID)

	claims, err := s.Verify(token)
	assert.NoError(t, err)
	assert.Equal(t, "64f1a2b3c4d5e6f708091a0b", claims.Subject)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, tokenID, claims.ID)
}

func TestJWTService_ZeroTTLExpiresImmediately(t *testing.T) {
	s := NewJWTService("test-secret", "HS256", 0)

	token, _, err := s.Issue("64f1a2b3c4d5e6f708091a0b", "user@example.com")
	assert.NoError(t, err)

	_, err = s.Verify(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestJWTService_ExpiredIsNeverInvalid(t *testing.T) {
	s := NewJWTService("test-secret", "HS256", -time.Minute)

	token, _, err := s.Issue("64f1a2b3c4d5e6f708091a0b", "user@example.com")
	assert.NoError(t, err)

	_, err = s.Verify(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
	assert.NotErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestJWTService_WrongSecretIsInvalid(t *testing.T) {
	issuer := NewJWTService("secret-a", "HS256", time.Minute)
	verifier := NewJWTService("secret-b", "HS256", time.Minute)

	token, _, err := issuer.Issue("64f1a2b3c4d5e6f708091a0b", "user@example.com")
	assert.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestJWTService_ExpiredWithWrongSecretIsInvalid(t *testing.T) {
	issuer := NewJWTService("secret-a", "HS256", -time.Minute)
	verifier := NewJWTService("secret-b", "HS256", time.Minute)

	token, _, err := issuer.Issue("64f1a2b3c4d5e6f708091a0b", "user@example.com")
	assert.NoError(t, err)

	// The bad signature outranks the expiry.
	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
	assert.NotErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestJWTService_GarbageTokenIsInvalid(t *testing.T) {
	s := NewJWTService("test-secret", "HS256", time.Minute)

	_, err := s.Verify("not.a.jwt")
	assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
}

func TestJWTService_AlgorithmFamily(t *testing.T) {
	for _, alg := range []string{"HS256", "HS384", "HS512"} {
		t.Run(alg, func(t *testing.T) {
			s := NewJWTService("test-secret", alg, time.Minute)
			token, _, err := s.Issue("64f1a2b3c4d5e6f708091a0b", "")
			assert.NoError(t, err)

			claims, err := s.Verify(token)
			assert.NoError(t, err)
			assert.Equal(t, "64f1a2b3c4d5e6f708091a0b", claims.Subject)
		})
	}
}

func TestJWTService_Remaining(t *testing.T) {
	s := NewJWTService("test-secret", "HS256", time.Hour)

	token, _, err := s.Issue("64f1a2b3c4d5e6f708091a0b", "")
	assert.NoError(t, err)

	claims, err := s.Verify(token)
	assert.NoError(t, err)

	remaining := s.Remaining(claims)
	assert.Greater(t, remaining, 59*time.Minute)
	assert.LessOrEqual(t, remaining, time.Hour)
}
