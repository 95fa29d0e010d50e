/*
Package authsdk provides the wire types and a client SDK for the CourseHub
authentication service.

# SDKClient vs Session

  - SDKClient: public endpoints (register, login, password reset, email
    confirmation, health) and Session creation
  - Session: endpoints that need a session token (2FA management, password
    verification and change)

	client := authsdk.NewSDKClient("https://auth.coursehub.example")

	res, err := client.Register(ctx, authsdk.RegisterRequest{
		Username:        "alice",
		Email:           "alice@example.com",
		FullName:        "Alice Example",
		Password:        "password123",
		ConfirmPassword: "password123",
	})

# Login

Login returns one of three statuses. Only "success" carries a session
token:

	session, login, err := client.AuthenticateWithPassword(ctx, email, password)
	if err != nil {
		return err
	}
	switch login.Status {
	case authsdk.LoginStatusTwoFactorRequired:
		session, err = client.AuthenticateWithTwoFactor(ctx, login.TempToken, code)
	case authsdk.LoginStatusPasswordChangeRequired:
		err = client.ResetPassword(ctx, authsdk.ResetPasswordRequest{
			Email:           email,
			Token:           login.ResetToken,
			NewPassword:     next,
			ConfirmPassword: next,
		})
	}

A temp token is single use. A wrong 2FA code spends it and the user has
to log in again.

# Two-factor setup

	png, err := session.InitiateTwoFactor(ctx)  // show the QR code
	err = session.ConfirmTwoFactor(ctx, code)   // enables 2FA
	enabled, err := session.TwoFactorStatus(ctx)

# Errors

Failed calls return *APIError carrying the HTTP status, a machine-readable
code such as "email_in_use" or "invalid_2fa_code", and a message:

	var apiErr *authsdk.APIError
	if errors.As(err, &apiErr) && apiErr.Code == "email_not_confirmed" {
		// prompt the user to check their inbox
	}

The server writes the same type with APIError.WriteError.

# Thread Safety

SDKClient and Session are safe for concurrent use.
*/
package authsdk
