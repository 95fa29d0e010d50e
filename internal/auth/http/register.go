package http

import (
	"net/http"

	"github.com/aussiebroadwan/coursehub/internal/auth/service"
	"github.com/aussiebroadwan/coursehub/pkg/authsdk"
	"github.com/aussiebroadwan/coursehub/pkg/httpx"
)

type RegisterHandler struct {
	Registration *service.RegistrationService
}

// HandleRegister godoc
//
//	@Summary		Register a student
//	@Description	Creates a student account and emails a confirmation link. Login is refused until the email is confirmed.
//	@Tags			Account
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RegisterRequest		true	"Account details"
//	@Success		201		{object}	authsdk.RegisterResponse	"userId, message"
//	@Failure		400		{object}	authsdk.ErrorResponse		"email_in_use, username_in_use, password_mismatch, invalid_request"
//	@Failure		502		{object}	authsdk.ErrorResponse		"email_sending_failed (the account was created)"
//	@Failure		500		{object}	authsdk.ErrorResponse		"server_error"
//	@Router			/v1/auth/register [post].
func (h *RegisterHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RegisterRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := h.Registration.Register(r.Context(), service.RegisterInput{
		Username:        req.Username,
		Email:           req.Email,
		FullName:        req.FullName,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authsdk.RegisterResponse{
		UserID:  res.UserID,
		Message: res.Message,
	})
}

// HandleRegisterInstructor godoc
//
//	@Summary		Register an instructor
//	@Description	Creates an instructor account without a usable password. The confirmation redirect carries a reset token that sets the first password.
//	@Tags			Account
//	@Accept			json
//	@Produce		json
//	@Param			request	body		authsdk.RegisterInstructorRequest	true	"Account details"
//	@Success		201		{object}	authsdk.RegisterResponse			"userId, message"
//	@Failure		400		{object}	authsdk.ErrorResponse				"email_in_use, username_in_use, invalid_request"
//	@Failure		502		{object}	authsdk.ErrorResponse				"email_sending_failed (the account was created)"
//	@Failure		500		{object}	authsdk.ErrorResponse				"server_error"
//	@Router			/v1/auth/register-instructor [post].
func (h *RegisterHandler) HandleRegisterInstructor(w http.ResponseWriter, r *http.Request) {
	var req authsdk.RegisterInstructorRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := h.Registration.RegisterInstructor(r.Context(), service.RegisterInstructorInput{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authsdk.RegisterResponse{
		UserID:  res.UserID,
		Message: res.Message,
	})
}
