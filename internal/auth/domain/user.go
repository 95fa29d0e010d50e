package domain

import "time"

// User is an account on the marketplace.
type User struct {
	ID                string
	Username          string
	Email             string
	FullName          string
	ProfilePictureURL *string
	PasswordHash      string // argon2id PHC string

	EmailConfirmed       bool
	TwoFactorEnabled     bool
	NeedToChangePassword bool

	// AuthenticatorKey is the base32 TOTP secret. Nil until 2FA setup begins.
	AuthenticatorKey *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProfilePicture returns the user's picture or fallback when unset.
func (u User) ProfilePicture(fallback string) string {
	if u.ProfilePictureURL == nil || *u.ProfilePictureURL == "" {
		return fallback
	}
	return *u.ProfilePictureURL
}

// HasAuthenticatorKey reports whether 2FA setup has begun.
func (u User) HasAuthenticatorKey() bool {
	return u.AuthenticatorKey != nil && *u.AuthenticatorKey != ""
}
