package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/coursehub/internal/auth/domain"
	"github.com/aussiebroadwan/coursehub/internal/auth/identity"
	"github.com/aussiebroadwan/coursehub/internal/auth/store"
	"github.com/aussiebroadwan/coursehub/pkg/cryptox"
	"github.com/aussiebroadwan/coursehub/pkg/slogx"
)

const DefaultTempTokenTTL = 5 * time.Minute

// TempTokenService carries a user through the 2FA leg of login. Tokens are
// single use: verification takes the token before checking the code, so a
// wrong code burns it and the user must log in again.
type TempTokenService struct {
	Tokens      store.TempTokens
	Credentials identity.CredentialStore
	TwoFactor   *TwoFactorService
	Sessions    *TokenService
	TTL         time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *TempTokenService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// IssueFor binds a fresh random token to userID.
func (s *TempTokenService) IssueFor(ctx context.Context, userID string) (string, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", err
	}

	ttl := s.TTL
	if ttl <= 0 {
		ttl = DefaultTempTokenTTL
	}
	now := s.now().UTC()

	err = s.Tokens.CreateTempToken(ctx, domain.TempToken{
		TokenHash: cryptox.FingerprintToken(token),
		UserID:    userID,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	})
	if err != nil {
		return "", fmt.Errorf("store temp token: %w", err)
	}
	return token, nil
}

// Resolve returns the user bound to token without consuming it. Unknown,
// expired and consumed tokens all yield ErrInvalidTempToken.
func (s *TempTokenService) Resolve(ctx context.Context, token string) (domain.User, error) {
	if token == "" {
		return domain.User{}, ErrInvalidTempToken
	}
	t, err := s.Tokens.GetTempToken(ctx, cryptox.FingerprintToken(token), s.now())
	if err != nil {
		return domain.User{}, mapTempTokenErr(err)
	}
	return s.user(ctx, t.UserID)
}

// VerifyTwoFactorLogin consumes tempToken, checks code and issues a session.
func (s *TempTokenService) VerifyTwoFactorLogin(ctx context.Context, tempToken, code string) (*domain.SessionGranted, error) {
	if tempToken == "" {
		return nil, ErrInvalidTempToken
	}
	now := s.now()

	t, err := s.Tokens.TakeTempToken(ctx, cryptox.FingerprintToken(tempToken), now)
	if err != nil {
		return nil, mapTempTokenErr(err)
	}

	u, err := s.user(ctx, t.UserID)
	if err != nil {
		return nil, err
	}
	ctx = slogx.With(ctx, slogx.UserID(u.ID))

	ok, err := s.TwoFactor.VerifyCode(ctx, u.ID, code)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalid2FACode
	}

	roles, err := s.Credentials.Roles(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("load roles: %w", err)
	}

	granted, err := s.Sessions.Grant(u, roles, now)
	if err != nil {
		return nil, err
	}
	slogx.FromContext(ctx).Info("two-factor login succeeded")
	return granted, nil
}

// user loads the bound account; a deleted account looks like a dead token.
func (s *TempTokenService) user(ctx context.Context, userID string) (domain.User, error) {
	u, err := s.Credentials.FindByID(ctx, userID)
	if errors.Is(err, identity.ErrUserNotFound) {
		return domain.User{}, ErrInvalidTempToken
	}
	if err != nil {
		return domain.User{}, err
	}
	return u, nil
}

func mapTempTokenErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrInvalidTempToken
	}
	return fmt.Errorf("load temp token: %w", err)
}
