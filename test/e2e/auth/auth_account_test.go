package auth_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/aussiebroadwan/coursehub/pkg/authsdk"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

// TestStudentRegistrationAndLogin walks a student from registration through
// email confirmation to a signed session token.
func TestStudentRegistrationAndLogin(t *testing.T) {
	env := setupAuthContainer(t, nil)
	ctx := t.Context()

	email := "ada@example.com"
	_, err := env.client.Register(ctx, authsdk.RegisterRequest{
		Username:        "ada",
		Email:           email,
		FullName:        "Ada Lovelace",
		Password:        testPassword,
		ConfirmPassword: testPassword,
	})
	require.NoError(t, err)

	// Unconfirmed accounts cannot log in.
	_, err = env.client.Login(ctx, authsdk.LoginRequest{Email: email, Password: testPassword})
	requireAPIError(t, err, http.StatusUnauthorized, "email_not_confirmed")

	redirect := env.confirm(t, email)
	require.Equal(t, "coursehub.test", redirect.Host)
	require.Equal(t, "/confirmation", redirect.Path)

	session, resp := env.login(t, email, testPassword)
	require.Equal(t, "ada", resp.Username)
	require.Equal(t, []string{"Student"}, resp.Roles)
	require.False(t, session.Expired(time.Now()))

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(session.Token(), claims, func(*jwt.Token) (any, error) {
		return []byte(signingKey), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	require.NoError(t, err)
	require.True(t, token.Valid)
	require.Equal(t, "coursehub", claims["iss"])
	require.Equal(t, "coursehub-e2e", token.Header["kid"])
}

// TestDuplicateRegistration verifies username and email uniqueness.
func TestDuplicateRegistration(t *testing.T) {
	env := setupAuthContainer(t, nil)
	ctx := t.Context()

	env.registerStudent(t, "grace")

	_, err := env.client.Register(ctx, authsdk.RegisterRequest{
		Username:        "grace",
		Email:           "other@example.com",
		FullName:        "Grace Other",
		Password:        testPassword,
		ConfirmPassword: testPassword,
	})
	requireAPIError(t, err, http.StatusBadRequest, "username_in_use")

	_, err = env.client.Register(ctx, authsdk.RegisterRequest{
		Username:        "grace2",
		Email:           "grace@example.com",
		FullName:        "Grace Again",
		Password:        testPassword,
		ConfirmPassword: testPassword,
	})
	requireAPIError(t, err, http.StatusBadRequest, "email_in_use")
}

// TestInstructorOnboarding confirms an instructor account, which must then
// choose a password through the reset flow.
func TestInstructorOnboarding(t *testing.T) {
	env := setupAuthContainer(t, nil)
	ctx := t.Context()

	email := "turing@example.com"
	_, err := env.client.RegisterInstructor(ctx, authsdk.RegisterInstructorRequest{
		Username: "turing",
		Email:    email,
		FullName: "Alan Turing",
	})
	require.NoError(t, err)

	redirect := env.confirm(t, email)
	resetToken := redirect.Query().Get("token")
	require.NotEmpty(t, resetToken, "instructor confirmation should carry a reset token")

	require.NoError(t, env.client.ResetPassword(ctx, authsdk.ResetPasswordRequest{
		Email:           email,
		Token:           resetToken,
		NewPassword:     testPassword,
		ConfirmPassword: testPassword,
	}))

	_, resp := env.login(t, email, testPassword)
	require.Equal(t, []string{"Instructor"}, resp.Roles)
}
