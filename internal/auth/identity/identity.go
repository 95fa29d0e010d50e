// Package identity owns user credentials: account records, password
// hashes, role membership, purpose-scoped single-use tokens and the TOTP
// authenticator key. Services depend on the CredentialStore interface;
// Manager is the store-backed implementation.
package identity

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/coursehub/internal/auth/domain"
)

var (
	ErrUserNotFound       = errors.New("identity: user not found")
	ErrDuplicateEmail     = errors.New("identity: email already registered")
	ErrDuplicateUsername  = errors.New("identity: username already registered")
	ErrInvalidToken       = errors.New("identity: invalid token")
	ErrPasswordMismatch   = errors.New("identity: password does not match")
	ErrNoAuthenticatorKey = errors.New("identity: no authenticator key")
	ErrEmptyPassword      = errors.New("identity: password is empty")
)

// NewUser is the input to CreateUser. Password is plaintext and is hashed
// before it reaches the store.
type NewUser struct {
	Username             string
	Email                string
	FullName             string
	Password             string
	ProfilePictureURL    *string
	NeedToChangePassword bool
}

type CredentialStore interface {
	// CreateUser persists a new unconfirmed account. Username or email
	// collisions return ErrDuplicateUsername or ErrDuplicateEmail.
	CreateUser(ctx context.Context, u NewUser) (domain.User, error)

	FindByID(ctx context.Context, id string) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	FindByUsername(ctx context.Context, username string) (domain.User, error)

	// CheckPassword reports whether password matches. Only infrastructure
	// faults and corrupt hashes return an error.
	CheckPassword(ctx context.Context, u domain.User, password string) (bool, error)

	// ChangePassword replaces the password after checking current. A wrong
	// current password returns ErrPasswordMismatch.
	ChangePassword(ctx context.Context, userID, current, next string) error

	// ResetPassword consumes a password-reset token and sets the password.
	ResetPassword(ctx context.Context, userID, token, next string) error

	Roles(ctx context.Context, userID string) ([]string, error)
	EnsureRole(ctx context.Context, name string) (domain.Role, error)
	AddToRole(ctx context.Context, userID, roleName string) error

	// GenerateToken mints a single-use token for purpose. The returned
	// value is the only copy of the plaintext token.
	GenerateToken(ctx context.Context, userID string, purpose domain.TokenPurpose) (string, error)

	// VerifyToken consumes the token. Unknown, expired, already used or
	// mis-scoped tokens return ErrInvalidToken.
	VerifyToken(ctx context.Context, userID string, purpose domain.TokenPurpose, token string) error

	// ConfirmEmail consumes an email-confirmation token and marks the
	// address confirmed.
	ConfirmEmail(ctx context.Context, userID, token string) error

	// AuthenticatorKey returns the stored TOTP secret or ErrNoAuthenticatorKey.
	AuthenticatorKey(ctx context.Context, userID string) (string, error)

	// ResetAuthenticatorKey generates and stores a fresh TOTP secret.
	ResetAuthenticatorKey(ctx context.Context, u domain.User) (string, error)

	SetTwoFactorEnabled(ctx context.Context, userID string, enabled bool) error
}
