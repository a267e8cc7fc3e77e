// Package auth issues and checks session tokens. A token is an HS256 JWT
// whose subject is the session id; holding it grants full access to that
// session's drawing.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

type Service struct {
	jwtSecret []byte
	ttl       time.Duration
	now       func() time.Time
}

func NewService(jwtSecret string, ttl time.Duration) *Service {
	return &Service{
		jwtSecret: []byte(jwtSecret),
		ttl:       ttl,
		now:       time.Now,
	}
}

// IssueToken returns a signed token for sessionID.
func (s *Service) IssueToken(sessionID string) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"sub": sessionID,
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// ValidateToken returns the session id of a valid token. Every failure wraps
// ErrInvalidToken.
func (s *Service) ValidateToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", ErrInvalidToken
	}

	sessionID, ok := claims["sub"].(string)
	if !ok || sessionID == "" {
		return "", fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return sessionID, nil
}
