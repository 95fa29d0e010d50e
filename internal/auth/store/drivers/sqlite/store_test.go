package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/coursehub/internal/auth/domain"
	"github.com/aussiebroadwan/coursehub/internal/auth/store"
	"github.com/aussiebroadwan/coursehub/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/coursehub/pkg/idx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(sqlite.DSN(filepath.Join(t.TempDir(), "auth.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func TestMigrations(t *testing.T) {
	s, err := sqlite.NewStore(sqlite.DSN(filepath.Join(t.TempDir(), "auth.db")))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	v, err := s.SchemaVersion()
	require.NoError(t, err)
	require.Zero(t, v)

	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.ApplyMigrations(), "re-applying is a no-op")

	v, err = s.SchemaVersion()
	require.NoError(t, err)
	require.Equal(t, uint(2), v)

	// The seed migration creates the built-in roles.
	_, err = s.Roles().GetRoleByName(context.Background(), domain.RoleStudent)
	require.NoError(t, err)
	_, err = s.Roles().GetRoleByName(context.Background(), domain.RoleInstructor)
	require.NoError(t, err)
}

func newUser(username, email string) domain.User {
	now := time.Now().UTC().Truncate(time.Second)
	return domain.User{
		ID:           idx.New(),
		Username:     username,
		Email:        email,
		FullName:     "Test User",
		PasswordHash: "$argon2id$dummy",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUsers(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	u := newUser("Alice", "Alice@Example.com")
	require.NoError(t, s.Users().CreateUser(ctx, u))

	t.Run("lookups are case-insensitive", func(t *testing.T) {
		got, err := s.Users().GetUserByEmail(ctx, "alice@example.COM")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
		assert.Equal(t, "Alice@Example.com", got.Email)

		got, err = s.Users().GetUserByUsername(ctx, "ALICE")
		require.NoError(t, err)
		assert.Equal(t, u.ID, got.ID)
		assert.Equal(t, u.CreatedAt, got.CreatedAt)
	})

	t.Run("duplicates are rejected", func(t *testing.T) {
		err := s.Users().CreateUser(ctx, newUser("alice", "other@example.com"))
		require.ErrorIs(t, err, store.ErrAlreadyExists)

		err = s.Users().CreateUser(ctx, newUser("bob", "ALICE@example.com"))
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := s.Users().GetUserByID(ctx, "missing")
		require.ErrorIs(t, err, store.ErrNotFound)

		err = s.Users().ConfirmEmail(ctx, "missing")
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("flags round trip", func(t *testing.T) {
		require.NoError(t, s.Users().ConfirmEmail(ctx, u.ID))
		require.NoError(t, s.Users().UpdatePassword(ctx, u.ID, "$argon2id$new", true))

		got, err := s.Users().GetUserByID(ctx, u.ID)
		require.NoError(t, err)
		assert.True(t, got.EmailConfirmed)
		assert.True(t, got.NeedToChangePassword)
		assert.Equal(t, "$argon2id$new", got.PasswordHash)
		assert.Nil(t, got.ProfilePictureURL)
	})
}

func TestUsersTwoFactor(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	u := newUser("carol", "carol@example.com")
	require.NoError(t, s.Users().CreateUser(ctx, u))

	// Enabling requires a key.
	err := s.Users().SetTwoFactorEnabled(ctx, u.ID, true)
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Users().SetAuthenticatorKey(ctx, u.ID, "JBSWY3DPEHPK3PXP"))
	require.NoError(t, s.Users().SetTwoFactorEnabled(ctx, u.ID, true))

	got, err := s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, got.TwoFactorEnabled)
	require.True(t, got.HasAuthenticatorKey())
	assert.Equal(t, "JBSWY3DPEHPK3PXP", *got.AuthenticatorKey)

	require.NoError(t, s.Users().SetTwoFactorEnabled(ctx, u.ID, false))
	got, err = s.Users().GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, got.TwoFactorEnabled)
	assert.True(t, got.HasAuthenticatorKey(), "disabling keeps the key")
}

func TestRoles(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	student, err := s.Roles().GetRoleByName(ctx, "student")
	require.NoError(t, err, "built-in roles are seeded")
	assert.Equal(t, domain.RoleStudent, student.Name)

	instructor, err := s.Roles().GetRoleByName(ctx, domain.RoleInstructor)
	require.NoError(t, err)

	err = s.Roles().CreateRole(ctx, domain.Role{ID: idx.New(), Name: "STUDENT"})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	u := newUser("dave", "dave@example.com")
	require.NoError(t, s.Users().CreateUser(ctx, u))

	roles, err := s.Roles().ListUserRoles(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, roles)
	assert.NotNil(t, roles)

	require.NoError(t, s.Roles().AddUserToRole(ctx, u.ID, student.ID))
	require.NoError(t, s.Roles().AddUserToRole(ctx, u.ID, student.ID))
	require.NoError(t, s.Roles().AddUserToRole(ctx, u.ID, instructor.ID))

	roles, err = s.Roles().ListUserRoles(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{domain.RoleInstructor, domain.RoleStudent}, roles)
}

func TestUserTokens(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	u := newUser("erin", "erin@example.com")
	require.NoError(t, s.Users().CreateUser(ctx, u))

	now := time.Now()
	tok := domain.UserToken{
		ID:        idx.New(),
		UserID:    u.ID,
		Purpose:   domain.PurposePasswordReset,
		TokenHash: "hash-1",
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
	}
	require.NoError(t, s.UserTokens().CreateUserToken(ctx, tok))

	t.Run("purpose must match", func(t *testing.T) {
		_, err := s.UserTokens().ConsumeUserToken(ctx, u.ID, domain.PurposeEmailConfirmation, "hash-1", now)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("expired tokens are not consumable", func(t *testing.T) {
		_, err := s.UserTokens().ConsumeUserToken(ctx, u.ID, domain.PurposePasswordReset, "hash-1", now.Add(2*time.Hour))
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("single use", func(t *testing.T) {
		got, err := s.UserTokens().ConsumeUserToken(ctx, u.ID, domain.PurposePasswordReset, "hash-1", now)
		require.NoError(t, err)
		assert.Equal(t, tok.ID, got.ID)

		_, err = s.UserTokens().ConsumeUserToken(ctx, u.ID, domain.PurposePasswordReset, "hash-1", now)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("housekeeping", func(t *testing.T) {
		old := tok
		old.ID = idx.New()
		old.TokenHash = "hash-old"
		old.ExpiresAt = now.Add(-time.Minute)
		require.NoError(t, s.UserTokens().CreateUserToken(ctx, old))

		n, err := s.UserTokens().DeleteExpiredUserTokens(ctx, now)
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)
	})
}

func TestTempTokens(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	u := newUser("frank", "frank@example.com")
	require.NoError(t, s.Users().CreateUser(ctx, u))

	now := time.Now()
	require.NoError(t, s.TempTokens().CreateTempToken(ctx, domain.TempToken{
		TokenHash: "temp-1",
		UserID:    u.ID,
		ExpiresAt: now.Add(5 * time.Minute),
		CreatedAt: now,
	}))
	require.NoError(t, s.TempTokens().CreateTempToken(ctx, domain.TempToken{
		TokenHash: "temp-expired",
		UserID:    u.ID,
		ExpiresAt: now.Add(-time.Minute),
		CreatedAt: now.Add(-10 * time.Minute),
	}))

	got, err := s.TempTokens().GetTempToken(ctx, "temp-1", now)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.UserID)

	_, err = s.TempTokens().GetTempToken(ctx, "temp-expired", now)
	require.ErrorIs(t, err, store.ErrNotFound)

	_, err = s.TempTokens().TakeTempToken(ctx, "temp-expired", now)
	require.ErrorIs(t, err, store.ErrNotFound)

	got, err = s.TempTokens().TakeTempToken(ctx, "temp-1", now)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.UserID)

	_, err = s.TempTokens().TakeTempToken(ctx, "temp-1", now)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestWithTxRollsBack(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	s := newTestStore(t)

	u := newUser("gina", "gina@example.com")
	err := s.WithTx(ctx, func(tx store.Tx) error {
		require.NoError(t, tx.Users().CreateUser(ctx, u))
		return store.ErrAlreadyExists
	})
	require.ErrorIs(t, err, store.ErrAlreadyExists)

	_, err = s.Users().GetUserByID(ctx, u.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}
