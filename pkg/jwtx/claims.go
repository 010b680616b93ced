package jwtx

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/kushistore/storefront/pkg/idx"
)

// DefaultSessionTTL is the default validity window for session tokens. The
// window is fixed at issuance; activity does not extend it.
const DefaultSessionTTL = 7 * 24 * time.Hour

// Claims are the session-token claims. The identity triple {sub, email, name}
// is everything a page needs to render the signed-in state without a store
// round trip; anything else has to be fetched through the profile endpoint.
type Claims struct {
	jwt.RegisteredClaims

	// Email of the authenticated user as of issuance time. May be stale
	// relative to concurrent profile edits; accepted tradeoff of stateless
	// tokens.
	Email string `json:"email,omitempty"`

	// Name is the display name of the authenticated user.
	Name string `json:"name,omitempty"`
}

// NewSessionClaims builds minimally-correct claims for a session token issued
// at now with the given validity window.
func NewSessionClaims(subject, email, name string, ttl time.Duration, issuer string, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        idx.New().String(),
		},
		Email: email,
		Name:  name,
	}
}

// ValidateIssuer checks the issuer claim against the expected value.
// An empty expected value enforces nothing.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateExpiry ensures the token hasn't expired (exp) and isn't used before
// it becomes valid (nbf).
func (c *Claims) ValidateExpiry() error {
	return c.ValidateExpiryAt(time.Now().UTC())
}

// ValidateExpiryAt is ValidateExpiry against an explicit clock, for tests and
// anything replaying historical tokens.
func (c *Claims) ValidateExpiryAt(now time.Time) error {
	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}
	return nil
}
