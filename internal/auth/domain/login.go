package domain

import "time"

// LoginResult is one of *SessionGranted, *PasswordChangeRequired or
// *TwoFactorRequired.
type LoginResult interface {
	loginResult()
}

// SessionGranted carries a freshly issued session token.
type SessionGranted struct {
	Token             string
	ExpiresAt         time.Time
	UserID            string
	Username          string
	Email             string
	FullName          string
	Roles             []string
	ProfilePictureURL string
}

// PasswordChangeRequired is returned instead of a session when the account
// must rotate its password first.
type PasswordChangeRequired struct {
	Message    string
	Username   string
	Email      string
	FullName   string
	Roles      []string
	ResetToken string
}

// TwoFactorRequired is returned when a TOTP code must be presented with
// TempToken before a session is issued.
type TwoFactorRequired struct {
	TempToken string
	Username  string
	Email     string
	FullName  string
	Roles     []string
}

func (*SessionGranted) loginResult()         {}
func (*PasswordChangeRequired) loginResult() {}
func (*TwoFactorRequired) loginResult()      {}
