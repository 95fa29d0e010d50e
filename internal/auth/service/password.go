package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aussiebroadwan/coursehub/internal/auth/domain"
	"github.com/aussiebroadwan/coursehub/internal/auth/identity"
	"github.com/aussiebroadwan/coursehub/internal/auth/mail"
	"github.com/aussiebroadwan/coursehub/pkg/slogx"
)

const MsgPasswordResetSent = "Password reset link has been sent to your email."

type ResetPasswordInput struct {
	Email           string
	Token           string
	NewPassword     string
	ConfirmPassword string
}

type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

// PasswordService runs the reset, change and email confirmation flows.
type PasswordService struct {
	Credentials identity.CredentialStore
	Mailer      mail.Sender

	// ClientBaseURL is the web client; reset links and the confirmation
	// redirect point at it.
	ClientBaseURL string
	Product       string
}

func (s *PasswordService) clientURL(path string) string {
	return strings.TrimRight(s.ClientBaseURL, "/") + path
}

// GenerateResetToken mints a password reset token for u. Expiry is the
// credential store's concern.
func (s *PasswordService) GenerateResetToken(ctx context.Context, u domain.User) (string, error) {
	token, err := s.Credentials.GenerateToken(ctx, u.ID, domain.PurposePasswordReset)
	if err != nil {
		return "", fmt.Errorf("generate reset token: %w", err)
	}
	return token, nil
}

// ResetLink builds the client URL carried in reset emails.
func (s *PasswordService) ResetLink(email, token string) string {
	return fmt.Sprintf("%s?email=%s&token=%s",
		s.clientURL("/reset-password"), url.QueryEscape(email), url.QueryEscape(token))
}

// ForgotPassword emails a reset link. Unknown emails return
// ErrUserNotFound.
func (s *PasswordService) ForgotPassword(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return ErrInvalidInput.WithMessage("Email is required.")
	}

	u, err := s.Credentials.FindByEmail(ctx, email)
	if err != nil {
		return mapIdentityErr(err)
	}

	token, err := s.GenerateResetToken(ctx, u)
	if err != nil {
		return err
	}

	msg, err := mail.PasswordResetEmail(u.Email, displayName(u), s.Product, s.ResetLink(u.Email, token))
	if err != nil {
		return ErrEmailSending.WithCause(err)
	}
	if err := s.Mailer.Send(ctx, msg); err != nil {
		slogx.FromContext(ctx).Error("password reset email failed", slogx.UserID(u.ID), slogx.Err(err))
		return ErrEmailSending.WithMessage("Failed to send password reset email.").WithCause(err)
	}
	return nil
}

// ResetPassword applies a new password using a reset token. The store's
// reason for rejecting the request is returned as is.
func (s *PasswordService) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	if in.NewPassword != in.ConfirmPassword {
		return ErrPasswordMismatch
	}
	if in.NewPassword == "" {
		return ErrInvalidInput.WithMessage("Password is required.")
	}

	u, err := s.Credentials.FindByEmail(ctx, in.Email)
	if err != nil {
		return mapIdentityErr(err)
	}

	if err := s.Credentials.ResetPassword(ctx, u.ID, decodeToken(in.Token), in.NewPassword); err != nil {
		return mapIdentityErr(err)
	}
	slogx.FromContext(ctx).Info("password reset", slogx.UserID(u.ID))
	return nil
}

// VerifyPassword reports whether password is correct for email. Store
// faults are returned as errors, never as false.
func (s *PasswordService) VerifyPassword(ctx context.Context, email, password string) (bool, error) {
	u, err := s.Credentials.FindByEmail(ctx, email)
	if err != nil {
		return false, mapIdentityErr(err)
	}
	return s.Credentials.CheckPassword(ctx, u, password)
}

// ChangePassword replaces the caller's password after checking the
// current one.
func (s *PasswordService) ChangePassword(ctx context.Context, caller domain.AuthenticatedCaller, in ChangePasswordInput) error {
	if caller.IsZero() {
		return ErrUnauthenticated
	}
	if in.NewPassword != in.ConfirmPassword {
		return ErrPasswordMismatch
	}

	err := s.Credentials.ChangePassword(ctx, caller.UserID, in.CurrentPassword, in.NewPassword)
	if err != nil {
		return mapIdentityErr(err)
	}
	slogx.FromContext(ctx).Info("password changed", slogx.UserID(caller.UserID))
	return nil
}

// ConfirmEmail validates the confirmation token and returns the client
// redirect URL. The redirect carries a fresh reset token so the user can
// set a password straight away.
func (s *PasswordService) ConfirmEmail(ctx context.Context, token, email string) (string, error) {
	if token == "" || email == "" {
		return "", ErrInvalidInput.WithMessage("Token and email are required.")
	}
	// Emails never contain spaces; a space here is a "+" decoded by form rules.
	email = strings.ReplaceAll(email, " ", "+")

	u, err := s.Credentials.FindByEmail(ctx, email)
	if err != nil {
		return "", mapIdentityErr(err)
	}

	if err := s.Credentials.ConfirmEmail(ctx, u.ID, decodeToken(token)); err != nil {
		return "", mapIdentityErr(err)
	}
	slogx.FromContext(ctx).Info("email confirmed", slogx.UserID(u.ID))

	reset, err := s.GenerateResetToken(ctx, u)
	if err != nil {
		return "", err
	}
	return s.ConfirmationRedirect(u.Email, reset), nil
}

// ConfirmationRedirect builds the post-confirmation client URL.
func (s *PasswordService) ConfirmationRedirect(email, resetToken string) string {
	return fmt.Sprintf("%s?confirmed=true&email=%s&token=%s",
		s.clientURL("/confirmation"), url.QueryEscape(email), resetToken)
}

// decodeToken undoes query escaping left on tokens pasted from links.
// Tokens that are not valid escapes are used unchanged.
func decodeToken(token string) string {
	if dec, err := url.QueryUnescape(token); err == nil {
		return dec
	}
	return token
}
