package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"

	"github.com/aussiebroadwan/coursehub/internal/auth/domain"
	"github.com/aussiebroadwan/coursehub/internal/auth/identity"
	"github.com/aussiebroadwan/coursehub/pkg/qrx"
	"github.com/aussiebroadwan/coursehub/pkg/slogx"
)

// TOTP parameters shared by provisioning and validation. Skew 1 accepts the
// previous and next 30 second step.
var totpOpts = totp.ValidateOpts{
	Period:    30,
	Skew:      1,
	Digits:    otp.DigitsSix,
	Algorithm: otp.AlgorithmSHA1,
}

type TwoFactorService struct {
	Credentials identity.CredentialStore

	// Issuer is the product name shown in authenticator apps.
	Issuer string
	QRSize int

	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *TwoFactorService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Secret returns the user's authenticator key, creating one on first use.
// Restarting setup before confirmation keeps the same key; Initiate refuses
// once the key is confirmed.
func (s *TwoFactorService) Secret(ctx context.Context, userID string) (string, error) {
	u, err := s.Credentials.FindByID(ctx, userID)
	if err != nil {
		return "", mapIdentityErr(err)
	}
	if u.HasAuthenticatorKey() {
		return *u.AuthenticatorKey, nil
	}

	key, err := s.Credentials.ResetAuthenticatorKey(ctx, u)
	if err != nil {
		return "", mapIdentityErr(err)
	}
	slogx.FromContext(ctx).Info("authenticator key created", slogx.UserID(userID))
	return key, nil
}

// ProvisioningURI builds the otpauth URI. The email goes in verbatim since
// authenticator apps display the label as written.
func (s *TwoFactorService) ProvisioningURI(email, secret string) string {
	return fmt.Sprintf("otpauth://totp/%s:%s?secret=%s&issuer=%s&digits=6", s.Issuer, email, secret, s.Issuer)
}

// RenderQR encodes uri as a PNG QR code.
func (s *TwoFactorService) RenderQR(uri string) ([]byte, error) {
	if strings.TrimSpace(uri) == "" {
		return nil, ErrInvalidArgument.WithMessage("Provisioning URI must not be empty.")
	}
	png, err := qrx.PNG(uri, s.QRSize)
	if err != nil {
		return nil, fmt.Errorf("render qr code: %w", err)
	}
	return png, nil
}

// Initiate starts (or restarts) 2FA setup for the caller.
func (s *TwoFactorService) Initiate(ctx context.Context, caller domain.AuthenticatedCaller) (domain.TwoFactorSetup, error) {
	if caller.IsZero() {
		return domain.TwoFactorSetup{}, ErrUnauthenticated
	}

	u, err := s.Credentials.FindByID(ctx, caller.UserID)
	if err != nil {
		return domain.TwoFactorSetup{}, mapIdentityErr(err)
	}

	if u.TwoFactorEnabled {
		return domain.TwoFactorSetup{}, ErrTwoFactorAlreadyEnabled
	}

	secret, err := s.Secret(ctx, u.ID)
	if err != nil {
		return domain.TwoFactorSetup{}, err
	}

	uri := s.ProvisioningURI(u.Email, secret)
	png, err := s.RenderQR(uri)
	if err != nil {
		return domain.TwoFactorSetup{}, err
	}

	return domain.TwoFactorSetup{
		Secret:          secret,
		ProvisioningURI: uri,
		QRCodePNG:       png,
	}, nil
}

// Confirm enables 2FA once the caller proves their app produces valid
// codes. A wrong code changes nothing.
func (s *TwoFactorService) Confirm(ctx context.Context, caller domain.AuthenticatedCaller, code string) error {
	if caller.IsZero() {
		return ErrUnauthenticated
	}

	ok, err := s.VerifyCode(ctx, caller.UserID, code)
	if err != nil {
		return err
	}
	if !ok {
		return ErrInvalid2FACode
	}

	if err := s.Credentials.SetTwoFactorEnabled(ctx, caller.UserID, true); err != nil {
		return mapIdentityErr(err)
	}
	slogx.FromContext(ctx).Info("two-factor authentication enabled", slogx.UserID(caller.UserID))
	return nil
}

func (s *TwoFactorService) Status(ctx context.Context, caller domain.AuthenticatedCaller) (bool, error) {
	if caller.IsZero() {
		return false, ErrUnauthenticated
	}
	u, err := s.Credentials.FindByID(ctx, caller.UserID)
	if err != nil {
		return false, mapIdentityErr(err)
	}
	return u.TwoFactorEnabled, nil
}

// Disable clears the enabled flag and replaces the key, so the confirmed
// secret stops working and a later setup starts from a fresh QR code.
func (s *TwoFactorService) Disable(ctx context.Context, caller domain.AuthenticatedCaller) error {
	if caller.IsZero() {
		return ErrUnauthenticated
	}
	u, err := s.Credentials.FindByID(ctx, caller.UserID)
	if err != nil {
		return mapIdentityErr(err)
	}
	if err := s.Credentials.SetTwoFactorEnabled(ctx, u.ID, false); err != nil {
		return mapIdentityErr(err)
	}
	if u.HasAuthenticatorKey() {
		if _, err := s.Credentials.ResetAuthenticatorKey(ctx, u); err != nil {
			return mapIdentityErr(err)
		}
	}
	slogx.FromContext(ctx).Info("two-factor authentication disabled", slogx.UserID(caller.UserID))
	return nil
}

// VerifyCode checks code against the user's key at the current time.
// Malformed codes are reported as not matching.
func (s *TwoFactorService) VerifyCode(ctx context.Context, userID, code string) (bool, error) {
	secret, err := s.Credentials.AuthenticatorKey(ctx, userID)
	if err != nil {
		return false, mapIdentityErr(err)
	}

	ok, err := totp.ValidateCustom(normalizeCode(code), secret, s.now().UTC(), totpOpts)
	if errors.Is(err, otp.ErrValidateInputInvalidLength) {
		return false, nil
	}
	if err != nil {
		slogx.FromContext(ctx).Error("totp validation failed", slogx.UserID(userID), slogx.Err(err))
		return false, fmt.Errorf("validate totp: %w", err)
	}
	if !ok {
		slogx.FromContext(ctx).Info("totp code rejected", slogx.UserID(userID))
	}
	return ok, nil
}

// normalizeCode drops the spaces and hyphens apps use to group digits.
func normalizeCode(code string) string {
	return strings.NewReplacer(" ", "", "-", "").Replace(strings.TrimSpace(code))
}
