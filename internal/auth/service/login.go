package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/coursehub/internal/auth/domain"
	"github.com/aussiebroadwan/coursehub/internal/auth/identity"
	"github.com/aussiebroadwan/coursehub/pkg/slogx"
)

const MsgPasswordChangeRequired = "You must change your password before continuing."

// LoginService decides the outcome of a password login.
type LoginService struct {
	Credentials identity.CredentialStore
	Sessions    *TokenService
	TempTokens  *TempTokenService
	Passwords   *PasswordService

	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *LoginService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Login checks, in order: the account exists, its email is confirmed and
// the password matches. It then returns exactly one of
// *domain.PasswordChangeRequired, *domain.TwoFactorRequired or
// *domain.SessionGranted. A pending password change wins over 2FA.
func (s *LoginService) Login(ctx context.Context, email, password string) (domain.LoginResult, error) {
	l := slogx.FromContext(ctx)

	u, err := s.Credentials.FindByEmail(ctx, email)
	if err != nil {
		return nil, mapIdentityErr(err)
	}
	l = l.With(slogx.UserID(u.ID))

	if !u.EmailConfirmed {
		l.Info("login rejected", slog.String("reason", "email_not_confirmed"))
		return nil, ErrEmailNotConfirmed
	}

	ok, err := s.Credentials.CheckPassword(ctx, u, password)
	if err != nil {
		return nil, err
	}
	if !ok {
		l.Info("login rejected", slog.String("reason", "invalid_credentials"))
		return nil, ErrInvalidCreds
	}

	roles, err := s.Credentials.Roles(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}

	switch {
	case u.NeedToChangePassword:
		reset, err := s.Passwords.GenerateResetToken(ctx, u)
		if err != nil {
			return nil, err
		}
		l.Info("login requires password change")
		return &domain.PasswordChangeRequired{
			Message:    MsgPasswordChangeRequired,
			Username:   u.Username,
			Email:      u.Email,
			FullName:   u.FullName,
			Roles:      roles,
			ResetToken: reset,
		}, nil

	case u.TwoFactorEnabled:
		temp, err := s.TempTokens.IssueFor(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		l.Info("login requires two-factor code")
		return &domain.TwoFactorRequired{
			TempToken: temp,
			Username:  u.Username,
			Email:     u.Email,
			FullName:  u.FullName,
			Roles:     roles,
		}, nil
	}

	granted, err := s.Sessions.Grant(u, roles, s.now())
	if err != nil {
		return nil, err
	}
	l.Info("login succeeded")
	return granted, nil
}
