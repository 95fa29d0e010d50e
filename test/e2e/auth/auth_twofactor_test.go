package auth_test

import (
	"bytes"
	"context"
	"image/png"
	"net/http"
	"testing"

	"github.com/aussiebroadwan/coursehub/pkg/authsdk"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestTwoFactorSetup checks the enrolment endpoints. The TOTP secret only
// leaves the service inside the QR image, so codes cannot be computed here;
// the full login flow is covered by the HTTP package tests.
func TestTwoFactorSetup(t *testing.T) {
	env := setupAuthContainer(t, nil)
	ctx := t.Context()

	email := env.registerStudent(t, "lamport")
	session, _ := env.login(t, email, testPassword)

	enabled, err := session.TwoFactorStatus(ctx)
	require.NoError(t, err)
	require.False(t, enabled)

	err = session.ConfirmTwoFactor(ctx, "123456")
	requireAPIError(t, err, http.StatusBadRequest, "two_factor_not_initiated")

	qr, err := session.InitiateTwoFactor(ctx)
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(qr))
	require.NoError(t, err)
	require.Positive(t, img.Bounds().Dx())

	err = session.ConfirmTwoFactor(ctx, "000000x")
	require.Error(t, err)

	enabled, err = session.TwoFactorStatus(ctx)
	require.NoError(t, err)
	require.False(t, enabled)

	require.NoError(t, session.DisableTwoFactor(ctx))
}

// TestTwoFactorLoginUnknownTempToken rejects temp tokens that were never
// issued.
func TestTwoFactorLoginUnknownTempToken(t *testing.T) {
	env := setupAuthContainer(t, nil)

	_, err := env.client.AuthenticateWithTwoFactor(t.Context(), "never-issued", "123456")
	requireAPIError(t, err, http.StatusUnauthorized, "invalid_or_expired_token")
}

// TestRedisTempTokenBackend runs the service against a Redis container and
// checks the readiness probe covers it.
func TestRedisTempTokenBackend(t *testing.T) {
	ctx := context.Background()

	net, err := network.New(ctx)
	require.NoError(t, err)
	t.Cleanup(func() { _ = net.Remove(context.Background()) })

	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:          "redis:7-alpine",
			ExposedPorts:   []string{"6379/tcp"},
			Networks:       []string{net.Name},
			NetworkAliases: map[string][]string{net.Name: {"redis"}},
			WaitingFor:     wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	terminateOnCleanup(t, redisC)

	env := setupAuthContainer(t, map[string]string{
		"AUTH_TEMP_TOKEN_BACKEND": "redis",
		"REDIS_URL":               "redis://redis:6379/0",
	}, net.Name)

	health, err := env.client.GetReadiness(t.Context())
	assertHealthy(t, health, err)
	require.Equal(t, "ok", health.Checks.TempTokens)

	_, err = env.client.AuthenticateWithTwoFactor(t.Context(), "never-issued", "123456")
	requireAPIError(t, err, http.StatusUnauthorized, "invalid_or_expired_token")

	var apiErr *authsdk.APIError
	require.ErrorAs(t, err, &apiErr)
}
