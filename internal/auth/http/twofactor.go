package http

import (
	"net/http"

	"github.com/aussiebroadwan/coursehub/internal/auth/service"
	"github.com/aussiebroadwan/coursehub/pkg/authsdk"
	"github.com/aussiebroadwan/coursehub/pkg/httpx"
)

// TwoFactorHandler serves 2FA setup and management for the caller.
type TwoFactorHandler struct {
	TwoFactor *service.TwoFactorService
}

// HandleInitiate godoc
//
//	@Summary		Start 2FA setup
//	@Description	Creates the authenticator key on first use and returns a QR code of the provisioning URI. 2FA stays off until confirmed. Rejected once 2FA is enabled.
//	@Tags			TwoFactor
//	@Security		BearerAuth
//	@Produce		png
//	@Success		200	{file}		binary					"QR code PNG"
//	@Failure		400	{object}	authsdk.ErrorResponse	"two_factor_already_enabled"
//	@Failure		401	{object}	authsdk.ErrorResponse	"invalid_token, user_not_found"
//	@Failure		500	{object}	authsdk.ErrorResponse	"server_error"
//	@Router			/v1/auth/2fa/initiate [post].
func (h *TwoFactorHandler) HandleInitiate(w http.ResponseWriter, r *http.Request) {
	setup, err := h.TwoFactor.Initiate(r.Context(), callerFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WritePNG(w, setup.QRCodePNG)
}

// HandleConfirm godoc
//
//	@Summary		Confirm 2FA setup
//	@Description	Enables 2FA when the code matches the authenticator key.
//	@Tags			TwoFactor
//	@Security		BearerAuth
//	@Accept			json
//	@Param			request	body	authsdk.TwoFactorCodeRequest	true	"TOTP code"
//	@Success		204		"2FA enabled"
//	@Failure		400		{object}	authsdk.ErrorResponse	"two_factor_not_initiated, invalid_request"
//	@Failure		401		{object}	authsdk.ErrorResponse	"invalid_token, invalid_2fa_code"
//	@Router			/v1/auth/2fa/confirm [post].
func (h *TwoFactorHandler) HandleConfirm(w http.ResponseWriter, r *http.Request) {
	var req authsdk.TwoFactorCodeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.TwoFactor.Confirm(r.Context(), callerFrom(r), req.Code); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}

// HandleStatus godoc
//
//	@Summary		2FA status
//	@Tags			TwoFactor
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	authsdk.TwoFactorStatusResponse	"enabled"
//	@Failure		401	{object}	authsdk.ErrorResponse			"invalid_token, user_not_found"
//	@Router			/v1/auth/2fa/status [get].
func (h *TwoFactorHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	enabled, err := h.TwoFactor.Status(r.Context(), callerFrom(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, authsdk.TwoFactorStatusResponse{Enabled: enabled})
}

// HandleDisable godoc
//
//	@Summary		Disable 2FA
//	@Description	Turns 2FA off and replaces the authenticator key, so re-enabling needs a fresh QR scan.
//	@Tags			TwoFactor
//	@Security		BearerAuth
//	@Success		204	"2FA disabled"
//	@Failure		401	{object}	authsdk.ErrorResponse	"invalid_token, user_not_found"
//	@Router			/v1/auth/2fa/disable [post].
func (h *TwoFactorHandler) HandleDisable(w http.ResponseWriter, r *http.Request) {
	if err := h.TwoFactor.Disable(r.Context(), callerFrom(r)); err != nil {
		writeError(w, r, err)
		return
	}
	httpx.NoCache(w)
	w.WriteHeader(http.StatusNoContent)
}
