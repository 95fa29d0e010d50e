package cryptox

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateToken(t *testing.T) {
	tests := []struct {
		name    string
		size    int
		wantLen int
	}{
		{"128-bit token", TokenSize128, 22},
		{"256-bit token", TokenSize256, 43},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := GenerateToken(tt.size)
			require.NoError(t, err)
			require.Len(t, token, tt.wantLen)

			other, err := GenerateToken(tt.size)
			require.NoError(t, err)
			require.NotEqual(t, token, other)
		})
	}
}

func TestGenerateToken_InvalidSize(t *testing.T) {
	for _, size := range []int{0, -1} {
		token, err := GenerateToken(size)
		require.Error(t, err)
		require.Empty(t, token)
	}
}

func TestGenerateToken_URLSafe(t *testing.T) {
	for range 50 {
		token, err := GenerateToken(TokenSize256)
		require.NoError(t, err)
		require.Equal(t, token, url.QueryEscape(token), "token must not need escaping")
	}
}

func TestFingerprintToken(t *testing.T) {
	a1 := FingerprintToken("token-a")
	a2 := FingerprintToken("token-a")
	b := FingerprintToken("token-b")

	require.Equal(t, a1, a2)
	require.NotEqual(t, a1, b)
	require.Len(t, a1, 43)
}
