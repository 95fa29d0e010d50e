package identity

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/aussiebroadwan/coursehub/internal/auth/domain"
	"github.com/aussiebroadwan/coursehub/internal/auth/store"
	"github.com/aussiebroadwan/coursehub/pkg/cryptox"
	"github.com/aussiebroadwan/coursehub/pkg/idx"
)

const (
	DefaultTOTPIssuer           = "CourseHub"
	DefaultResetTokenTTL        = time.Hour
	DefaultConfirmationTokenTTL = 24 * time.Hour
)

// Manager implements CredentialStore over a store.Store.
type Manager struct {
	Store  store.Store
	Hasher *cryptox.PasswordHasher

	// TOTPIssuer labels generated authenticator keys.
	TOTPIssuer string

	ResetTokenTTL        time.Duration
	ConfirmationTokenTTL time.Duration

	// Now defaults to time.Now.
	Now func() time.Time
}

var _ CredentialStore = (*Manager)(nil)

func (m *Manager) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}

func (m *Manager) ttl(purpose domain.TokenPurpose) time.Duration {
	switch purpose {
	case domain.PurposeEmailConfirmation:
		if m.ConfirmationTokenTTL > 0 {
			return m.ConfirmationTokenTTL
		}
		return DefaultConfirmationTokenTTL
	default:
		if m.ResetTokenTTL > 0 {
			return m.ResetTokenTTL
		}
		return DefaultResetTokenTTL
	}
}

func mapUserErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

func (m *Manager) CreateUser(ctx context.Context, nu NewUser) (domain.User, error) {
	if nu.Password == "" {
		return domain.User{}, ErrEmptyPassword
	}

	hash, err := m.Hasher.Hash(nu.Password)
	if err != nil {
		return domain.User{}, err
	}

	now := m.now().UTC()
	u := domain.User{
		ID:                   idx.NewAt(m.now()),
		Username:             strings.TrimSpace(nu.Username),
		Email:                strings.TrimSpace(nu.Email),
		FullName:             strings.TrimSpace(nu.FullName),
		ProfilePictureURL:    nu.ProfilePictureURL,
		PasswordHash:         hash,
		NeedToChangePassword: nu.NeedToChangePassword,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	if err := m.Store.Users().CreateUser(ctx, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, m.duplicateReason(ctx, u)
		}
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// duplicateReason works out which unique column a failed insert hit.
func (m *Manager) duplicateReason(ctx context.Context, u domain.User) error {
	if _, err := m.Store.Users().GetUserByEmail(ctx, u.Email); err == nil {
		return ErrDuplicateEmail
	}
	return ErrDuplicateUsername
}

// FindByID skips the store for ids that are not ULIDs.
func (m *Manager) FindByID(ctx context.Context, id string) (domain.User, error) {
	if !idx.Valid(id) {
		return domain.User{}, ErrUserNotFound
	}
	u, err := m.Store.Users().GetUserByID(ctx, id)
	return u, mapUserErr(err)
}

func (m *Manager) FindByEmail(ctx context.Context, email string) (domain.User, error) {
	u, err := m.Store.Users().GetUserByEmail(ctx, email)
	return u, mapUserErr(err)
}

func (m *Manager) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	u, err := m.Store.Users().GetUserByUsername(ctx, username)
	return u, mapUserErr(err)
}

func (m *Manager) CheckPassword(_ context.Context, u domain.User, password string) (bool, error) {
	err := m.Hasher.Verify(password, u.PasswordHash)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, cryptox.ErrPasswordMismatch):
		return false, nil
	default:
		return false, fmt.Errorf("check password for %s: %w", u.ID, err)
	}
}

func (m *Manager) ChangePassword(ctx context.Context, userID, current, next string) error {
	if next == "" {
		return ErrEmptyPassword
	}

	u, err := m.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	ok, err := m.CheckPassword(ctx, u, current)
	if err != nil {
		return err
	}
	if !ok {
		return ErrPasswordMismatch
	}

	hash, err := m.Hasher.Hash(next)
	if err != nil {
		return err
	}
	return mapUserErr(m.Store.Users().UpdatePassword(ctx, userID, hash, false))
}

func (m *Manager) ResetPassword(ctx context.Context, userID, token, next string) error {
	if next == "" {
		return ErrEmptyPassword
	}

	hash, err := m.Hasher.Hash(next)
	if err != nil {
		return err
	}

	return m.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := consumeToken(ctx, tx, userID, domain.PurposePasswordReset, token, m.now()); err != nil {
			return err
		}
		if err := tx.Users().UpdatePassword(ctx, userID, hash, false); err != nil {
			return mapUserErr(err)
		}
		// Outstanding reset links die with the password they were for.
		return tx.UserTokens().DeleteUserTokens(ctx, userID, domain.PurposePasswordReset)
	})
}

func (m *Manager) Roles(ctx context.Context, userID string) ([]string, error) {
	return m.Store.Roles().ListUserRoles(ctx, userID)
}

func (m *Manager) EnsureRole(ctx context.Context, name string) (domain.Role, error) {
	role, err := m.Store.Roles().GetRoleByName(ctx, name)
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return domain.Role{}, err
	}

	role = domain.Role{ID: idx.NewAt(m.now()), Name: name, CreatedAt: m.now().UTC()}
	err = m.Store.Roles().CreateRole(ctx, role)
	if errors.Is(err, store.ErrAlreadyExists) {
		// Lost a race with another creator.
		return m.Store.Roles().GetRoleByName(ctx, name)
	}
	if err != nil {
		return domain.Role{}, err
	}
	return role, nil
}

func (m *Manager) AddToRole(ctx context.Context, userID, roleName string) error {
	role, err := m.EnsureRole(ctx, roleName)
	if err != nil {
		return fmt.Errorf("ensure role %q: %w", roleName, err)
	}
	return m.Store.Roles().AddUserToRole(ctx, userID, role.ID)
}

func (m *Manager) GenerateToken(ctx context.Context, userID string, purpose domain.TokenPurpose) (string, error) {
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", err
	}

	now := m.now().UTC()
	err = m.Store.UserTokens().CreateUserToken(ctx, domain.UserToken{
		ID:        idx.NewAt(m.now()),
		UserID:    userID,
		Purpose:   purpose,
		TokenHash: cryptox.FingerprintToken(token),
		ExpiresAt: now.Add(m.ttl(purpose)),
		CreatedAt: now,
	})
	if err != nil {
		return "", fmt.Errorf("store %s token: %w", purpose, err)
	}
	return token, nil
}

func (m *Manager) VerifyToken(ctx context.Context, userID string, purpose domain.TokenPurpose, token string) error {
	return consumeToken(ctx, m.Store, userID, purpose, token, m.now())
}

func (m *Manager) ConfirmEmail(ctx context.Context, userID, token string) error {
	return m.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := consumeToken(ctx, tx, userID, domain.PurposeEmailConfirmation, token, m.now()); err != nil {
			return err
		}
		return mapUserErr(tx.Users().ConfirmEmail(ctx, userID))
	})
}

func consumeToken(
	ctx context.Context,
	s store.Store,
	userID string,
	purpose domain.TokenPurpose,
	token string,
	now time.Time,
) error {
	if token == "" {
		return ErrInvalidToken
	}
	_, err := s.UserTokens().ConsumeUserToken(ctx, userID, purpose, cryptox.FingerprintToken(token), now)
	if errors.Is(err, store.ErrNotFound) {
		return ErrInvalidToken
	}
	return err
}

func (m *Manager) AuthenticatorKey(ctx context.Context, userID string) (string, error) {
	u, err := m.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if !u.HasAuthenticatorKey() {
		return "", ErrNoAuthenticatorKey
	}
	return *u.AuthenticatorKey, nil
}

func (m *Manager) ResetAuthenticatorKey(ctx context.Context, u domain.User) (string, error) {
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      cmp.Or(m.TOTPIssuer, DefaultTOTPIssuer),
		AccountName: u.Email,
		Period:      30,
		Digits:      otp.DigitsSix,
		Algorithm:   otp.AlgorithmSHA1,
	})
	if err != nil {
		return "", fmt.Errorf("generate authenticator key: %w", err)
	}

	if err := m.Store.Users().SetAuthenticatorKey(ctx, u.ID, key.Secret()); err != nil {
		return "", mapUserErr(err)
	}
	return key.Secret(), nil
}

// SetTwoFactorEnabled refuses to enable 2FA for a user with no key.
func (m *Manager) SetTwoFactorEnabled(ctx context.Context, userID string, enabled bool) error {
	err := m.Store.Users().SetTwoFactorEnabled(ctx, userID, enabled)
	if enabled && errors.Is(err, store.ErrNotFound) {
		if _, ferr := m.FindByID(ctx, userID); ferr != nil {
			return ferr
		}
		return ErrNoAuthenticatorKey
	}
	return mapUserErr(err)
}
