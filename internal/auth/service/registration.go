package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	netmail "net/mail"
	"net/url"
	"strings"

	"github.com/aussiebroadwan/coursehub/internal/auth/domain"
	"github.com/aussiebroadwan/coursehub/internal/auth/identity"
	"github.com/aussiebroadwan/coursehub/internal/auth/mail"
	"github.com/aussiebroadwan/coursehub/pkg/cryptox"
	"github.com/aussiebroadwan/coursehub/pkg/slogx"
)

const (
	MsgRegistered           = "User registered successfully. Please check your email to confirm your account."
	MsgInstructorRegistered = "Instructor registered successfully. Please check your email to confirm your account and set a password."

	generatedPasswordLength = 20
)

type RegisterInput struct {
	Username        string
	Email           string
	FullName        string
	Password        string
	ConfirmPassword string
}

type RegisterInstructorInput struct {
	Username string
	Email    string
	FullName string
}

// RegisterResult is returned on success and alongside ErrEmailSending, in
// which case the account exists but the confirmation email did not go out.
type RegisterResult struct {
	UserID  string
	Message string
}

type RegistrationService struct {
	Credentials identity.CredentialStore
	Mailer      mail.Sender

	// AppBaseURL is where this service is reachable; confirmation links
	// point at it.
	AppBaseURL string
	Product    string
}

// Register creates a student account and sends the confirmation email.
// Checks run in order and stop at the first failure.
func (s *RegistrationService) Register(ctx context.Context, in RegisterInput) (RegisterResult, error) {
	if err := validateIdentity(in.Username, in.Email); err != nil {
		return RegisterResult{}, err
	}
	if err := s.checkAvailable(ctx, in.Username, in.Email); err != nil {
		return RegisterResult{}, err
	}
	if in.Password != in.ConfirmPassword {
		return RegisterResult{}, ErrPasswordMismatch
	}
	if in.Password == "" {
		return RegisterResult{}, ErrInvalidInput.WithMessage("Password is required.")
	}

	return s.create(ctx, identity.NewUser{
		Username: in.Username,
		Email:    in.Email,
		FullName: in.FullName,
		Password: in.Password,
	}, domain.RoleStudent, MsgRegistered)
}

// RegisterInstructor creates an instructor account with a random password
// that must be replaced. The confirmation redirect carries a reset token,
// which is how the instructor sets their first password.
func (s *RegistrationService) RegisterInstructor(ctx context.Context, in RegisterInstructorInput) (RegisterResult, error) {
	if err := validateIdentity(in.Username, in.Email); err != nil {
		return RegisterResult{}, err
	}
	if err := s.checkAvailable(ctx, in.Username, in.Email); err != nil {
		return RegisterResult{}, err
	}

	password, err := cryptox.GeneratePassword(generatedPasswordLength)
	if err != nil {
		return RegisterResult{}, err
	}

	return s.create(ctx, identity.NewUser{
		Username:             in.Username,
		Email:                in.Email,
		FullName:             in.FullName,
		Password:             password,
		NeedToChangePassword: true,
	}, domain.RoleInstructor, MsgInstructorRegistered)
}

func validateIdentity(username, email string) error {
	if strings.TrimSpace(username) == "" {
		return ErrInvalidInput.WithMessage("Username is required.")
	}
	if strings.TrimSpace(email) == "" {
		return ErrInvalidInput.WithMessage("Email is required.")
	}
	addr, err := netmail.ParseAddress(strings.TrimSpace(email))
	if err != nil || addr.Address != strings.TrimSpace(email) {
		return ErrInvalidInput.WithMessage("Email is not a valid address.")
	}
	return nil
}

func (s *RegistrationService) checkAvailable(ctx context.Context, username, email string) error {
	_, err := s.Credentials.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return ErrEmailInUse
	case !errors.Is(err, identity.ErrUserNotFound):
		return fmt.Errorf("check email: %w", err)
	}

	_, err = s.Credentials.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return ErrUsernameInUse
	case !errors.Is(err, identity.ErrUserNotFound):
		return fmt.Errorf("check username: %w", err)
	}
	return nil
}

func (s *RegistrationService) create(ctx context.Context, nu identity.NewUser, role, msg string) (RegisterResult, error) {
	l := slogx.FromContext(ctx)

	u, err := s.Credentials.CreateUser(ctx, nu)
	if err != nil {
		// A racing registration can still trip the unique constraints.
		l.Warn("user creation failed", slog.String("username", nu.Username), slogx.Err(err))
		if be, ok := AsError(mapIdentityErr(err)); ok {
			return RegisterResult{}, ErrUserCreation.WithMessage(be.Message).WithCause(err)
		}
		return RegisterResult{}, ErrUserCreation.WithCause(err)
	}
	l = l.With(slogx.UserID(u.ID))

	if err := s.Credentials.AddToRole(ctx, u.ID, role); err != nil {
		l.Error("role assignment failed", slog.String("role", role), slogx.Err(err))
		return RegisterResult{}, ErrRoleAssignment.WithMessage(fmt.Sprintf("Failed to assign role %q to user.", role)).WithCause(err)
	}

	res := RegisterResult{UserID: u.ID, Message: msg}
	if err := s.SendConfirmation(ctx, u); err != nil {
		l.Error("confirmation email failed", slogx.Err(err))
		return res, err
	}

	l.Info("user registered", slog.String("role", role))
	return res, nil
}

// ConfirmationLink builds the email confirmation URL. The email is appended
// verbatim; the token is query-escaped.
func (s *RegistrationService) ConfirmationLink(token, email string) string {
	return fmt.Sprintf("%s/confirm-email?token=%s&email=%s",
		strings.TrimRight(s.AppBaseURL, "/"), url.QueryEscape(token), email)
}

// SendConfirmation mints a confirmation token for u and emails the link.
// Any failure is reported as ErrEmailSending.
func (s *RegistrationService) SendConfirmation(ctx context.Context, u domain.User) error {
	token, err := s.Credentials.GenerateToken(ctx, u.ID, domain.PurposeEmailConfirmation)
	if err != nil {
		return ErrEmailSending.WithCause(err)
	}

	msg, err := mail.ConfirmationEmail(u.Email, displayName(u), s.Product, s.ConfirmationLink(token, u.Email))
	if err != nil {
		return ErrEmailSending.WithCause(err)
	}
	if err := s.Mailer.Send(ctx, msg); err != nil {
		return ErrEmailSending.WithMessage("Failed to send confirmation email.").WithCause(err)
	}
	return nil
}

func displayName(u domain.User) string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}
