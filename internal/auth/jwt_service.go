package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"github.com/isengartz/SinExpressBlogApi/internal/apperrors"
)

// Claims represents session token claims. The subject is the user id.
type Claims struct {
	jwt.RegisteredClaims
}

// JWTService signs and verifies stateless session tokens with a
// process-wide secret injected at startup.
type JWTService struct {
	secret    []byte
	expiresIn time.Duration
}

// NewJWTService creates a new JWT service with the given secret and
// token validity window.
func NewJWTService(secret string, expiresIn time.Duration) *JWTService {
	return &JWTService{
		secret:    []byte(secret),
		expiresIn: expiresIn,
	}
}

// ExpiresIn returns the configured token validity window.
func (s *JWTService) ExpiresIn() time.Duration {
	return s.expiresIn
}

// Sign issues a session token for the given user id.
func (s *JWTService) Sign(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify validates a session token and returns its claims. Expired tokens
// and malformed/badly signed tokens carry distinct error kinds so callers
// can log them apart while both render as 401.
func (s *JWTService) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.Wrap(apperrors.KindTokenExpired, "expired token. login again", err)
		}
		return nil, apperrors.Wrap(apperrors.KindTokenInvalid, "invalid token. please login again", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, apperrors.New(apperrors.KindTokenInvalid, "invalid token. please login again")
	}

	return claims, nil
}

// UserID parses the subject claim back into a user id.
func (c *Claims) UserID() (uuid.UUID, error) {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil, apperrors.Wrap(apperrors.KindTokenInvalid, "invalid token. please login again", err)
	}
	return id, nil
}
