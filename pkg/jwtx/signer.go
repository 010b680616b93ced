package jwtx

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// Signer is anything that can sign session claims into a compact JWT.
type Signer interface {
	Alg() string
	Sign(Claims) (string, error)
}

// HS256Signer signs tokens with a process-wide symmetric secret. Every
// instance of the service must share the same secret, and rotating it
// invalidates all outstanding sessions at once.
type HS256Signer struct {
	key []byte
}

// NewSignerHS256 creates an HS256 signer from the shared secret. The secret
// must be at least 32 bytes; anything shorter undermines the signature.
func NewSignerHS256(secret []byte) (*HS256Signer, error) {
	if len(secret) < 32 {
		return nil, errors.New("jwtx: HS256 secret must be at least 32 bytes")
	}
	return &HS256Signer{key: secret}, nil
}

func (s *HS256Signer) Alg() string { return jwt.SigningMethodHS256.Alg() }

// Sign turns claims into a signed compact JWT string.
func (s *HS256Signer) Sign(claims Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.key)
}
