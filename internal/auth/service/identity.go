package service

import (
	"errors"

	"github.com/aussiebroadwan/coursehub/internal/auth/identity"
)

// mapIdentityErr converts credential-store sentinels into business errors.
// Anything else is an infrastructure fault and is returned unchanged.
func mapIdentityErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, identity.ErrUserNotFound):
		return ErrUserNotFound.WithCause(err)
	case errors.Is(err, identity.ErrDuplicateEmail):
		return ErrEmailInUse.WithCause(err)
	case errors.Is(err, identity.ErrDuplicateUsername):
		return ErrUsernameInUse.WithCause(err)
	case errors.Is(err, identity.ErrInvalidToken):
		return ErrInvalidToken.WithCause(err)
	case errors.Is(err, identity.ErrPasswordMismatch):
		return ErrInvalidCreds.WithCause(err)
	case errors.Is(err, identity.ErrNoAuthenticatorKey):
		return ErrTwoFactorNotSetUp.WithCause(err)
	case errors.Is(err, identity.ErrEmptyPassword):
		return ErrInvalidInput.WithMessage("Password is required.").WithCause(err)
	}
	return err
}
