package http

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/aussiebroadwan/coursehub/internal/auth/service"
	"github.com/aussiebroadwan/coursehub/pkg/authsdk"
	"github.com/aussiebroadwan/coursehub/pkg/httpx"
)

type PasswordHandler struct {
	Passwords *service.PasswordService
}

// HandleConfirmEmail godoc
//
//	@Summary		Confirm an email address
//	@Description	Target of the link in the confirmation email. Confirms the address and redirects to the web client with a password reset token.
//	@Tags			Account
//	@Param			token	query	string	true	"Confirmation token"
//	@Param			email	query	string	true	"Account email"
//	@Success		302		"Redirect to {ClientBaseUrl}/confirmation"
//	@Failure		400		{object}	authsdk.ErrorResponse	"invalid_request"
//	@Failure		401		{object}	authsdk.ErrorResponse	"user_not_found, invalid_token"
//	@Failure		500		{object}	authsdk.ErrorResponse	"server_error"
//	@Router			/v1/auth/confirm-email [get].
func (h *PasswordHandler) HandleConfirmEmail(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	redirect, err := h.Passwords.ConfirmEmail(r.Context(), q.Get("token"), rawQueryValue(r.URL, "email"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.NoCache(w)
	http.Redirect(w, r, redirect, http.StatusFound)
}

// rawQueryValue returns the first value of key with path unescaping, which
// keeps a literal "+" instead of turning it into a space. The confirmation
// link carries the email unescaped, so plus addresses arrive as-is.
func rawQueryValue(u *url.URL, key string) string {
	for part := range strings.SplitSeq(u.RawQuery, "&") {
		k, v, _ := strings.Cut(part, "=")
		if k != key {
			continue
		}
		if unescaped, err := url.PathUnescape(v); err == nil {
			return unescaped
		}
		return v
	}
	return ""
}

// HandleForgotPassword godoc
//
//	@Summary		Request a password reset
//	@Description	Emails a password reset link to the account.
//	@Tags			Password
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.ForgotPasswordRequest	true	"Account email"
//	@Success		200		{object}	authsdk.MessageResponse			"message"
//	@Failure		400		{object}	authsdk.ErrorResponse			"invalid_request"
//	@Failure		401		{object}	authsdk.ErrorResponse			"user_not_found"
//	@Failure		502		{object}	authsdk.ErrorResponse			"email_sending_failed"
//	@Router			/v1/auth/forgot-password [post].
func (h *PasswordHandler) HandleForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req authsdk.ForgotPasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.Passwords.ForgotPassword(r.Context(), req.Email); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{Message: service.MsgPasswordResetSent})
}

// HandleResetPassword godoc
//
//	@Summary		Reset a password
//	@Description	Sets a new password using a reset token from email, login or email confirmation. Other outstanding reset tokens are invalidated.
//	@Tags			Password
//	@Accept			json
//	@Param			request	body	authsdk.ResetPasswordRequest	true	"Email, token and new password"
//	@Success		204		"Password changed"
//	@Failure		400		{object}	authsdk.ErrorResponse	"password_mismatch, invalid_request"
//	@Failure		401		{object}	authsdk.ErrorResponse	"user_not_found, invalid_token"
//	@Router			/v1/auth/reset-password [post].
func (h *PasswordHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req authsdk.ResetPasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	err := h.Passwords.ResetPassword(r.Context(), service.ResetPasswordInput{
		Email:           req.Email,
		Token:           req.Token,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}

// HandleVerifyPassword godoc
//
//	@Summary		Verify the caller's password
//	@Description	Checks a password against the authenticated account.
//	@Tags			Password
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.VerifyPasswordRequest	true	"Password"
//	@Success		200		{object}	authsdk.VerifyPasswordResponse	"valid"
//	@Failure		401		{object}	authsdk.ErrorResponse			"invalid_token, user_not_found"
//	@Router			/v1/auth/verify-password [post].
func (h *PasswordHandler) HandleVerifyPassword(w http.ResponseWriter, r *http.Request) {
	caller := callerFrom(r)
	if caller.IsZero() {
		writeError(w, r, service.ErrUnauthenticated)
		return
	}

	var req authsdk.VerifyPasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ok, err := h.Passwords.VerifyPassword(r.Context(), caller.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.VerifyPasswordResponse{Valid: ok})
}

// HandleChangePassword godoc
//
//	@Summary		Change the caller's password
//	@Tags			Password
//	@Security		BearerAuth
//	@Accept			json
//	@Param			request	body	authsdk.ChangePasswordRequest	true	"Current and new password"
//	@Success		204		"Password changed"
//	@Failure		400		{object}	authsdk.ErrorResponse	"password_mismatch, invalid_request"
//	@Failure		401		{object}	authsdk.ErrorResponse	"invalid_token, invalid_credentials"
//	@Router			/v1/auth/change-password [post].
func (h *PasswordHandler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req authsdk.ChangePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}

	err := h.Passwords.ChangePassword(r.Context(), callerFrom(r), service.ChangePasswordInput{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}
