package http

import (
	"errors"
	"net/http"

	"github.com/kushistore/storefront/internal/auth/service"
	"github.com/kushistore/storefront/pkg/authsdk"
	"github.com/kushistore/storefront/pkg/httpx"
	"github.com/kushistore/storefront/pkg/slogx"
)

type ForgotPasswordHandler struct {
	SessionService *service.SessionService
}

// ServeHTTP handles POST /api/forgot-password. The response is identical
// whether or not the email has an account, so it can't be used to enumerate
// registered addresses. The reset token itself is only ever delivered
// out-of-band.
func (h *ForgotPasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.ForgotPasswordRequest
	if apiErr := decodeAndValidate(r, &req, authsdk.ErrMissingCredentials); apiErr != nil {
		apiErr.WriteError(w)
		return
	}

	if _, err := h.SessionService.ForgotPassword(ctx, req.Email); err != nil {
		if errors.Is(err, service.ErrValidation) {
			authsdk.ErrMissingCredentials.WriteError(w)
			return
		}
		log.Error("forgot-password failed", "err", err)
		authsdk.ErrInternal.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{
		Success: true,
		Message: authsdk.MsgResetEmailOK,
	})
}

type ResetPasswordHandler struct {
	SessionService *service.SessionService
}

// ServeHTTP handles POST /api/reset-password: redeem a reset token with a new
// password.
func (h *ResetPasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.ResetPasswordRequest
	if apiErr := decodeAndValidate(r, &req, authsdk.ErrInvalidResetToken); apiErr != nil {
		apiErr.WriteError(w)
		return
	}

	if err := h.SessionService.ResetPassword(ctx, req.Token, req.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidResetToken):
			authsdk.ErrInvalidResetToken.WriteError(w)
		case errors.Is(err, service.ErrValidation):
			authsdk.ErrPasswordTooShort.WriteError(w)
		default:
			log.Error("reset-password failed", "err", err)
			authsdk.ErrInternal.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.MessageResponse{
		Success: true,
		Message: authsdk.MsgPasswordReset,
	})
}
