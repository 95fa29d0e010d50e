package http

import (
	"net/http"

	"github.com/aussiebroadwan/coursehub/internal/auth/domain"
	"github.com/aussiebroadwan/coursehub/internal/auth/service"
	"github.com/aussiebroadwan/coursehub/pkg/authsdk"
	"github.com/aussiebroadwan/coursehub/pkg/httpx"
)

type LoginHandler struct {
	Login      *service.LoginService
	TempTokens *service.TempTokenService
}

// HandleLogin godoc
//
//	@Summary		Log in
//	@Description	Authenticates with email and password. The status field says whether a session was issued, a password change is required, or a 2FA code must be verified with the returned temp token.
//	@Tags			Login
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.LoginRequest	true	"Credentials"
//	@Success		200		{object}	authsdk.LoginResponse	"status plus the fields for that status"
//	@Failure		400		{object}	authsdk.ErrorResponse	"invalid_request"
//	@Failure		401		{object}	authsdk.ErrorResponse	"user_not_found, email_not_confirmed, invalid_credentials"
//	@Failure		429		{object}	authsdk.ErrorResponse	"rate_limit_exceeded"
//	@Failure		500		{object}	authsdk.ErrorResponse	"server_error"
//	@Router			/v1/auth/login [post].
func (h *LoginHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req authsdk.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := h.Login.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, loginResponse(result))
}

// HandleVerifyTwoFactor godoc
//
//	@Summary		Complete a 2FA login
//	@Description	Exchanges the temp token from a two_factor_required login and a TOTP code for a session. The temp token is spent by this call whatever the outcome.
//	@Tags			Login
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.VerifyTwoFactorLoginRequest	true	"Temp token and code"
//	@Success		200		{object}	authsdk.LoginResponse				"status success with the session token"
//	@Failure		400		{object}	authsdk.ErrorResponse				"invalid_request"
//	@Failure		401		{object}	authsdk.ErrorResponse				"invalid_or_expired_token, invalid_2fa_code"
//	@Failure		500		{object}	authsdk.ErrorResponse				"server_error"
//	@Router			/v1/auth/2fa/verify-login [post].
func (h *LoginHandler) HandleVerifyTwoFactor(w http.ResponseWriter, r *http.Request) {
	var req authsdk.VerifyTwoFactorLoginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	granted, err := h.TempTokens.VerifyTwoFactorLogin(r.Context(), req.TempToken, req.Code)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, loginResponse(granted))
}

func loginResponse(result domain.LoginResult) authsdk.LoginResponse {
	switch v := result.(type) {
	case *domain.SessionGranted:
		return authsdk.LoginResponse{
			Status:            authsdk.LoginStatusSuccess,
			Token:             v.Token,
			ExpiresAt:         v.ExpiresAt.Unix(),
			UserID:            v.UserID,
			ProfilePictureURL: v.ProfilePictureURL,
			Username:          v.Username,
			Email:             v.Email,
			FullName:          v.FullName,
			Roles:             nonNil(v.Roles),
		}
	case *domain.PasswordChangeRequired:
		return authsdk.LoginResponse{
			Status:     authsdk.LoginStatusPasswordChangeRequired,
			Message:    v.Message,
			ResetToken: v.ResetToken,
			Username:   v.Username,
			Email:      v.Email,
			FullName:   v.FullName,
			Roles:      nonNil(v.Roles),
		}
	case *domain.TwoFactorRequired:
		return authsdk.LoginResponse{
			Status:    authsdk.LoginStatusTwoFactorRequired,
			TempToken: v.TempToken,
			Username:  v.Username,
			Email:     v.Email,
			FullName:  v.FullName,
			Roles:     nonNil(v.Roles),
		}
	}
	panic("http: unknown login result")
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
