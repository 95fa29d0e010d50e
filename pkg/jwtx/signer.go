package jwtx

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// MinHS256KeyLength is the smallest accepted HMAC key, 256 bits.
const MinHS256KeyLength = 32

// ErrKeyTooShort is returned for HMAC keys below MinHS256KeyLength.
var ErrKeyTooShort = fmt.Errorf("jwtx: signing key must be at least %d bytes", MinHS256KeyLength)

// Signer is anything that can sign session claims.
type Signer interface {
	Alg() string
	KID() string
	Sign(Claims) (string, error)
	Validate() error
}

// HS256Signer signs tokens with a shared HMAC-SHA256 key.
type HS256Signer struct {
	kid string
	key []byte
}

// NewSignerHS256 creates an HS256 signer. kid may be empty.
func NewSignerHS256(kid string, key []byte) (*HS256Signer, error) {
	s := &HS256Signer{kid: kid, key: append([]byte(nil), key...)}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *HS256Signer) Alg() string { return jwt.SigningMethodHS256.Alg() }
func (s *HS256Signer) KID() string { return s.kid }

// Sign serialises and signs claims.
func (s *HS256Signer) Sign(claims Claims) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	if s.kid != "" {
		t.Header["kid"] = s.kid
	}
	signed, err := t.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign: %w", err)
	}
	return signed, nil
}

// Validate checks the key length.
func (s *HS256Signer) Validate() error {
	if len(s.key) == 0 {
		return errors.New("jwtx: empty signing key")
	}
	if len(s.key) < MinHS256KeyLength {
		return ErrKeyTooShort
	}
	return nil
}
