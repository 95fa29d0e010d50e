package authsdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// SDKClient is a client for the CourseHub authentication service. It
// covers the public endpoints and creates Sessions for the authenticated
// ones.
type SDKClient struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewSDKClient creates a new auth service client.
func NewSDKClient(baseURL string) *SDKClient {
	return &SDKClient{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// AuthenticateWithPassword logs in and returns a Session when the login
// completes immediately. For any other status the Session is nil and the
// LoginResponse tells the caller what to do next.
func (c *SDKClient) AuthenticateWithPassword(ctx context.Context, email, password string) (*Session, *LoginResponse, error) {
	resp, err := c.Login(ctx, LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, nil, err
	}
	if resp.Status != LoginStatusSuccess {
		return nil, resp, nil
	}
	return c.NewSession(resp.Token, resp.ExpiresAt), resp, nil
}

// AuthenticateWithTwoFactor completes a two_factor_required login.
func (c *SDKClient) AuthenticateWithTwoFactor(ctx context.Context, tempToken, code string) (*Session, error) {
	resp, err := c.VerifyTwoFactorLogin(ctx, VerifyTwoFactorLoginRequest{TempToken: tempToken, Code: code})
	if err != nil {
		return nil, err
	}
	return c.NewSession(resp.Token, resp.ExpiresAt), nil
}

// NewSession wraps an existing session token. expiresAt is in epoch
// seconds; zero means unknown.
func (c *SDKClient) NewSession(token string, expiresAt int64) *Session {
	s := &Session{client: c, token: token}
	if expiresAt > 0 {
		s.expiresAt = time.Unix(expiresAt, 0)
	}
	return s
}
