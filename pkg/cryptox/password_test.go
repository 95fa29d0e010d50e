package cryptox

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPasswordHasher_HashFormat(t *testing.T) {
	t.Parallel()
	h := NewPasswordHasher("pepper")

	hash, err := h.Hash("password123")
	require.NoError(t, err)

	parts := strings.Split(hash, "$")
	require.Len(t, parts, 6)
	require.Equal(t, "argon2id", parts[1])
	require.Equal(t, "v=19", parts[2])
	require.Equal(t, "m=19456,t=2,p=1", parts[3])
}

func TestPasswordHasher_Verify(t *testing.T) {
	t.Parallel()
	h := NewPasswordHasher("pepper")

	tests := []struct {
		name     string
		password string
	}{
		{"simple", "password123"},
		{"symbols", "P@ssw0rd!#$%^&*()"},
		{"empty", ""},
		{"unicode", "пароль🔒密码"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := h.Hash(tt.password)
			require.NoError(t, err)
			require.NoError(t, h.Verify(tt.password, hash))
			require.ErrorIs(t, h.Verify(tt.password+"x", hash), ErrPasswordMismatch)
		})
	}
}

func TestPasswordHasher_UniqueSalts(t *testing.T) {
	t.Parallel()
	h := NewPasswordHasher("pepper")

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)

	require.NotEqual(t, a, b)
}

func TestPasswordHasher_PepperMatters(t *testing.T) {
	t.Parallel()

	hash, err := NewPasswordHasher("pepper-one").Hash("password123")
	require.NoError(t, err)

	require.ErrorIs(t, NewPasswordHasher("pepper-two").Verify("password123", hash), ErrPasswordMismatch)
}

func TestPasswordHasher_InvalidHash(t *testing.T) {
	t.Parallel()
	h := NewPasswordHasher("pepper")

	for _, bad := range []string{
		"",
		"$bcrypt$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=19456",
		"$argon2id$v=19$invalid$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=19456,t=2,p=1$!!!$aGFzaA",
		"$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA",
	} {
		require.ErrorIs(t, h.Verify("pw", bad), ErrInvalidHash, bad)
	}
}

func TestGeneratePassword(t *testing.T) {
	t.Parallel()

	for range 20 {
		pw, err := GeneratePassword(16)
		require.NoError(t, err)
		require.Len(t, pw, 16)
		require.True(t, strings.ContainsAny(pw, lowerChars))
		require.True(t, strings.ContainsAny(pw, upperChars))
		require.True(t, strings.ContainsAny(pw, digitChars))
		require.True(t, strings.ContainsAny(pw, symbolChars))
	}

	short, err := GeneratePassword(4)
	require.NoError(t, err)
	require.Len(t, short, 12)
}

func TestLoadOrCreatePepper(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "secrets", "pepper")

	first, err := LoadOrCreatePepper(path)
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := LoadOrCreatePepper(path)
	require.NoError(t, err)
	require.Equal(t, first, second)
}
