package jwtx

import (
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// DefaultSessionTTL is the session token lifetime when none is configured.
const DefaultSessionTTL = 24 * time.Hour

// Claims are the session-token claims shared with every service that
// accepts CourseHub tokens. Subject and UserID carry the same value; UserID
// exists for clients that do not read registered claims.
type Claims struct {
	jwt.RegisteredClaims

	UserID   string `json:"uid"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`

	// Roles holds one entry per role; never null on the wire.
	Roles []string `json:"roles"`
}

// Identity is the user data carried in a session token.
type Identity struct {
	UserID   string
	Username string
	FullName string
	Email    string
	Roles    []string
}

// NewSessionClaims builds claims for id valid from now for ttl.
func NewSessionClaims(id Identity, issuer string, audience []string, ttl time.Duration, now time.Time) Claims {
	roles := slices.Clone(id.Roles)
	if roles == nil {
		roles = []string{}
	}

	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   id.UserID,
			Audience:  jwt.ClaimStrings(audience),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		UserID:   id.UserID,
		Username: id.Username,
		FullName: id.FullName,
		Email:    id.Email,
		Roles:    roles,
	}
}

// HasRole reports whether the claims carry role.
func (c *Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// ValidateIssuer checks the issuer when expected is non-empty.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected != "" && c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateAudience checks that at least one expected audience is present.
func (c *Claims) ValidateAudience(expected []string) error {
	if len(expected) == 0 {
		return nil
	}
	for _, want := range expected {
		if slices.Contains(c.Audience, want) {
			return nil
		}
	}
	return ErrAudience
}

// ValidateExpiry checks exp and nbf against now with a leeway for clock skew.
func (c *Claims) ValidateExpiry(now time.Time, leeway time.Duration) error {
	if c.ExpiresAt == nil {
		return ErrInvalidClaim
	}
	if now.After(c.ExpiresAt.Add(leeway)) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Add(-leeway)) {
		return ErrNotYetValid
	}
	return nil
}
