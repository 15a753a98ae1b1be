// Package auth issues and validates guest participant identities. It is the
// authentication collaborator at the boundary of the game core: every
// connection presents a token, the core only ever sees the stable identity.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// ErrInvalidToken covers expired, malformed and mis-signed tokens.
var ErrInvalidToken = errors.New("auth: invalid token")

// Identity is a validated, stable participant identity.
type Identity struct {
	ID   string
	Name string
}

// Service signs guest tokens with a process-local secret.
type Service struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

// NewService builds the token issuer.
func NewService(secret string, ttl time.Duration) *Service {
	return &Service{
		secret: []byte(secret),
		issuer: "bigtwo",
		ttl:    ttl,
	}
}

// IssueGuest mints a fresh identity for the display name and returns it with
// its signed token.
func (s *Service) IssueGuest(name string) (Identity, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Identity{}, "", fmt.Errorf("auth: display name required")
	}

	id := Identity{ID: uuid.NewString(), Name: name}
	now := time.Now()
	claims := jwt.MapClaims{
		"iss":  s.issuer,
		"sub":  id.ID,
		"name": id.Name,
		"iat":  now.Unix(),
		"exp":  now.Add(s.ttl).Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Identity{}, "", fmt.Errorf("auth: sign token: %w", err)
	}
	return id, token, nil
}

// Validate parses a token back into the identity it was issued for.
func (s *Service) Validate(token string) (Identity, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithExpirationRequired())
	if err != nil || !parsed.Valid {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, ErrInvalidToken
	}
	sub, _ := claims["sub"].(string)
	name, _ := claims["name"].(string)
	if sub == "" || name == "" {
		return Identity{}, ErrInvalidToken
	}
	return Identity{ID: sub, Name: name}, nil
}
