package authsdk

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// Session carries a session token and exposes the authenticated
// endpoints. Session tokens cannot be refreshed; log in again once
// Expired reports true.
type Session struct {
	client *SDKClient

	mu        sync.RWMutex
	token     string
	expiresAt time.Time
}

// Token returns the bearer token.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Expired reports whether the token has passed its expiry. Sessions with
// an unknown expiry never report expired.
func (s *Session) Expired(now time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.expiresAt.IsZero() && !now.Before(s.expiresAt)
}

// InitiateTwoFactor starts 2FA setup and returns the QR code PNG to scan.
func (s *Session) InitiateTwoFactor(ctx context.Context) ([]byte, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/auth/2fa/initiate", nil)
	if err != nil {
		return nil, err
	}
	return readBytes(resp, "image/png")
}

// ConfirmTwoFactor enables 2FA once the authenticator produces a valid code.
func (s *Session) ConfirmTwoFactor(ctx context.Context, code string) error {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/auth/2fa/confirm", TwoFactorCodeRequest{Code: code})
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// TwoFactorStatus reports whether 2FA is enabled for the caller.
func (s *Session) TwoFactorStatus(ctx context.Context) (bool, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodGet, "/v1/auth/2fa/status", nil)
	if err != nil {
		return false, err
	}

	var status TwoFactorStatusResponse
	if err := decodeJSON(resp, &status, http.StatusOK); err != nil {
		return false, err
	}
	return status.Enabled, nil
}

// DisableTwoFactor turns 2FA off for the caller.
func (s *Session) DisableTwoFactor(ctx context.Context) error {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/auth/2fa/disable", nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

// VerifyPassword checks the caller's password.
func (s *Session) VerifyPassword(ctx context.Context, password string) (bool, error) {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/auth/verify-password", VerifyPasswordRequest{Password: password})
	if err != nil {
		return false, err
	}

	var out VerifyPasswordResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return false, err
	}
	return out.Valid, nil
}

// ChangePassword replaces the caller's password.
func (s *Session) ChangePassword(ctx context.Context, req ChangePasswordRequest) error {
	resp, err := s.doAuthRequest(ctx, http.MethodPost, "/v1/auth/change-password", req)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}
