package service

import (
	"errors"
	"fmt"
)

// Kind classifies a business failure. The HTTP layer maps kinds to status
// codes; infrastructure faults are plain errors and have no Kind.
type Kind string

const (
	KindValidation      Kind = "validation"
	KindAuthentication  Kind = "authentication"
	KindAuthorization   Kind = "authorization"
	KindExternalService Kind = "external_service"
	KindInternal        Kind = "internal"
)

// Error is an expected business outcome. Two Errors match with errors.Is
// when their codes match, so sentinels below can be returned with a cause
// attached.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// WithCause returns a copy of e wrapping err.
func (e *Error) WithCause(err error) *Error {
	c := *e
	c.Err = err
	return &c
}

// WithMessage returns a copy of e with a more specific message.
func (e *Error) WithMessage(msg string) *Error {
	c := *e
	c.Message = msg
	return &c
}

// AsError extracts the business error from err, if any.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

var (
	ErrInvalidInput            = &Error{Kind: KindValidation, Code: "invalid_request", Message: "Request is malformed."}
	ErrInvalidArgument         = &Error{Kind: KindValidation, Code: "invalid_argument", Message: "Argument must not be empty."}
	ErrEmailInUse              = &Error{Kind: KindValidation, Code: "email_in_use", Message: "Email is already registered."}
	ErrUsernameInUse           = &Error{Kind: KindValidation, Code: "username_in_use", Message: "Username is already taken."}
	ErrPasswordMismatch        = &Error{Kind: KindValidation, Code: "password_mismatch", Message: "Password and confirmation password do not match."}
	ErrUserCreation            = &Error{Kind: KindValidation, Code: "user_creation_failed", Message: "User could not be created."}
	ErrRoleAssignment          = &Error{Kind: KindInternal, Code: "role_assignment_failed", Message: "Failed to assign role to user."}
	ErrEmailSending            = &Error{Kind: KindExternalService, Code: "email_sending_failed", Message: "Failed to send email."}
	ErrUserNotFound            = &Error{Kind: KindAuthentication, Code: "user_not_found", Message: "User not found."}
	ErrEmailNotConfirmed       = &Error{Kind: KindAuthentication, Code: "email_not_confirmed", Message: "Email is not confirmed. Please check your inbox."}
	ErrInvalidCreds            = &Error{Kind: KindAuthentication, Code: "invalid_credentials", Message: "Invalid email or password."}
	ErrInvalid2FACode          = &Error{Kind: KindAuthentication, Code: "invalid_2fa_code", Message: "Invalid two-factor authentication code."}
	ErrInvalidTempToken        = &Error{Kind: KindAuthentication, Code: "invalid_or_expired_token", Message: "Invalid or expired token."}
	ErrInvalidToken            = &Error{Kind: KindAuthentication, Code: "invalid_token", Message: "Invalid token."}
	ErrTwoFactorNotSetUp       = &Error{Kind: KindValidation, Code: "two_factor_not_initiated", Message: "Two-factor authentication setup has not been started."}
	ErrTwoFactorAlreadyEnabled = &Error{Kind: KindValidation, Code: "two_factor_already_enabled", Message: "Two-factor authentication is already enabled."}
	ErrUnauthenticated         = &Error{Kind: KindAuthorization, Code: "unauthenticated", Message: "User is not authenticated."}
)
