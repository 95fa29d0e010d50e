package domain

import "time"

// TokenPurpose scopes a UserToken to one flow.
type TokenPurpose string

const (
	PurposeEmailConfirmation TokenPurpose = "email_confirmation"
	PurposePasswordReset     TokenPurpose = "password_reset"
)

// UserToken is a single-use, time-limited token bound to one user and one
// purpose. Only the fingerprint of the token is stored.
type UserToken struct {
	ID        string
	UserID    string
	Purpose   TokenPurpose
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the token is no longer usable at now.
func (t UserToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// TempToken binds an in-flight 2FA login to a user.
type TempToken struct {
	TokenHash string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// Expired reports whether the token is no longer usable at now.
func (t TempToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
