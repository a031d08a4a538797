// Package ticket signs the short-lived welcome ticket carried from an accepted form
// to the welcome page.
package ticket

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"signup/internal/signup/registration"
	dErrors "signup/pkg/domain-errors"
)

const (
	issuerName = "signup"
	minKeyLen  = 32
	defaultTTL = 5 * time.Minute
)

// Claims is the ticket payload. Subject carries the username.
type Claims struct {
	Name   string `json:"name,omitempty"`
	Device string `json:"device,omitempty"`
	jwt.RegisteredClaims
}

// Issuer creates and verifies HS256 welcome tickets.
type Issuer struct {
	key []byte
	ttl time.Duration
}

// NewIssuer requires a signing key of at least 32 bytes. A non-positive ttl uses 5 minutes.
func NewIssuer(signingKey string, ttl time.Duration) (*Issuer, error) {
	if len(signingKey) < minKeyLen {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "ticket signing key must be at least 32 bytes")
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Issuer{key: []byte(signingKey), ttl: ttl}, nil
}

// Issue signs a ticket for reg, valid from now for the issuer's TTL.
func (i *Issuer) Issue(reg *registration.Registration, now time.Time) (string, error) {
	if reg == nil || reg.Username == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "registration username is required")
	}
	claims := Claims{
		Name:   reg.DisplayName(),
		Device: reg.Device,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   reg.Username,
			Issuer:    issuerName,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.key)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign ticket")
	}
	return signed, nil
}

// Verify parses and validates a ticket as of now.
func (i *Issuer) Verify(token string, now time.Time) (*Claims, error) {
	if token == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "missing ticket")
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return i.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuerName),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "ticket expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid ticket")
	}
	return claims, nil
}
