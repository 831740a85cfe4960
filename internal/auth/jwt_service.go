package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	apperrors "mediscanner/internal/errors"
)

// Claims represents JWT claims. Subject carries the user id.
type Claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// JWTService issues and verifies signed, time-limited session tokens.
type JWTService struct {
	secret []byte
	method jwt.SigningMethod
	ttl    time.Duration
}

// NewJWTService creates a JWT service. The algorithm must name an HMAC
// signing method (HS256, HS384, HS512).
func NewJWTService(secret, algorithm string, ttl time.Duration) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		method: jwt.GetSigningMethod(algorithm),
		ttl:    ttl,
	}
}

// TTL returns the configured token lifetime.
func (s *JWTService) TTL() time.Duration {
	return s.ttl
}

// Issue generates a signed token for the user. The token id (JTI) is returned
// separately for session tracking and revocation.
func (s *JWTService) Issue(userID, email string) (token string, tokenID string, err error) {
	now := time.Now()
	tokenID = uuid.New().String()
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        tokenID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	tokenObj := jwt.NewWithClaims(s.method, claims)
	token, err = tokenObj.SignedString(s.secret)
	return token, tokenID, err
}

// Verify checks the token signature and expiry and returns the claims.
// Expiry and signature failures are distinct error kinds so callers can emit
// the right status codes.
func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, apperrors.ErrTokenInvalid
		}
		return s.secret, nil
	})

	if err != nil {
		// Signature first: a forged token that also happens to be expired is
		// invalid, not expired.
		if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, apperrors.ErrTokenInvalid
		}
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" || claims.ID == "" {
		return nil, apperrors.ErrTokenInvalid
	}

	return claims, nil
}

// Remaining reports how long the claims remain valid. Used to bound the
// revocation entry's retention to the token's own life.
func (s *JWTService) Remaining(claims *Claims) time.Duration {
	if claims.ExpiresAt == nil {
		return 0
	}
	return time.Until(claims.ExpiresAt.Time)
}
