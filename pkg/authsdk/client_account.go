package authsdk

import (
	"context"
	"errors"
	"net/http"
	"net/url"
)

// Register creates a student account.
func (c *SDKClient) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	return c.register(ctx, "/v1/auth/register", req)
}

// RegisterInstructor creates an instructor account.
func (c *SDKClient) RegisterInstructor(ctx context.Context, req RegisterInstructorRequest) (*RegisterResponse, error) {
	return c.register(ctx, "/v1/auth/register-instructor", req)
}

func (c *SDKClient) register(ctx context.Context, path string, req any) (*RegisterResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, path, req)
	if err != nil {
		return nil, err
	}

	var out RegisterResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates with email and password. A successful call may
// still require a password change or a 2FA code; check Status.
func (c *SDKClient) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	return c.login(ctx, "/v1/auth/login", req)
}

// VerifyTwoFactorLogin exchanges a temp token and TOTP code for a session.
// The temp token is spent whether or not the code is correct.
func (c *SDKClient) VerifyTwoFactorLogin(ctx context.Context, req VerifyTwoFactorLoginRequest) (*LoginResponse, error) {
	return c.login(ctx, "/v1/auth/2fa/verify-login", req)
}

func (c *SDKClient) login(ctx context.Context, path string, req any) (*LoginResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, path, req)
	if err != nil {
		return nil, err
	}

	var out LoginResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ForgotPassword emails a password reset link.
func (c *SDKClient) ForgotPassword(ctx context.Context, email string) (*MessageResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/auth/forgot-password", ForgotPasswordRequest{Email: email})
	if err != nil {
		return nil, err
	}

	var out MessageResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetPassword applies a new password using an emailed token.
func (c *SDKClient) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/auth/reset-password", req)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// ConfirmEmail follows a confirmation link and returns the redirect target
// without following it.
func (c *SDKClient) ConfirmEmail(ctx context.Context, token, email string) (string, error) {
	q := url.Values{"token": {token}, "email": {email}}
	req, err := c.newRequest(ctx, http.MethodGet, "/v1/auth/confirm-email?"+q.Encode(), nil)
	if err != nil {
		return "", err
	}

	noFollow := *c.HTTPClient
	noFollow.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}
	resp, err := noFollow.Do(req)
	if err != nil {
		return "", err
	}

	if resp.StatusCode != http.StatusFound {
		var discard struct{}
		err := decodeJSON(resp, &discard, http.StatusFound)
		if err == nil {
			err = errors.New("confirm email: no redirect")
		}
		return "", err
	}
	_ = resp.Body.Close()
	return resp.Header.Get("Location"), nil
}
