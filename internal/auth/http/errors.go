package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/coursehub/internal/auth/domain"
	"github.com/aussiebroadwan/coursehub/internal/auth/service"
	"github.com/aussiebroadwan/coursehub/pkg/authsdk"
	"github.com/aussiebroadwan/coursehub/pkg/httpx"
	"github.com/aussiebroadwan/coursehub/pkg/slogx"
)

func statusForKind(k service.Kind) int {
	switch k {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindAuthentication, service.KindAuthorization:
		return http.StatusUnauthorized
	case service.KindExternalService:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError writes business errors with their own code and message.
// Anything else is logged and hidden behind server_error.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := slogx.FromContext(r.Context())

	e, ok := service.AsError(err)
	if !ok {
		log.Error("request failed", slogx.Err(err))
		authsdk.ErrServerError.WriteError(w)
		return
	}

	status := statusForKind(e.Kind)
	if status >= http.StatusInternalServerError || errors.Is(err, service.ErrEmailSending) {
		log.Error("request failed", "code", e.Code, slogx.Err(err))
	} else {
		log.Info("request rejected", "code", e.Code)
	}
	authsdk.NewAPIError(status, e.Code, e.Message).WriteError(w)
}

// decodeBody decodes a JSON body into dst, writing invalid_request and
// returning false when it cannot.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpx.DecodeJSON(r, dst); err != nil {
		slogx.FromContext(r.Context()).Info("bad request body", slogx.Err(err))
		authsdk.NewAPIError(http.StatusBadRequest, authsdk.ErrorCodeInvalidRequest, "Invalid JSON body").WriteError(w)
		return false
	}
	return true
}

// callerFrom returns the identity placed in the context by AuthnMiddleware,
// or the zero caller.
func callerFrom(r *http.Request) domain.AuthenticatedCaller {
	c, ok := httpx.ClaimsFromContext(r.Context())
	if !ok {
		return domain.AuthenticatedCaller{}
	}
	return domain.AuthenticatedCaller{
		UserID:   c.Subject,
		Username: c.Username,
		Email:    c.Email,
		Roles:    c.Roles,
	}
}
