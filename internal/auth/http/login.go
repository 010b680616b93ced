package http

import (
	"errors"
	"net/http"

	"github.com/kushistore/storefront/internal/auth/service"
	"github.com/kushistore/storefront/pkg/authsdk"
	"github.com/kushistore/storefront/pkg/httpx"
	"github.com/kushistore/storefront/pkg/slogx"
)

type LoginHandler struct {
	SessionService *service.SessionService
}

// ServeHTTP handles POST /api/login: authenticate and open a session.
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.LoginRequest
	if apiErr := decodeAndValidate(r, &req, authsdk.ErrMissingCredentials); apiErr != nil {
		apiErr.WriteError(w)
		return
	}

	sess, err := h.SessionService.Login(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			authsdk.ErrInvalidCredentials.WriteError(w)
		case errors.Is(err, service.ErrAccountDisabled):
			authsdk.ErrAccountDisabled.WriteError(w)
		case errors.Is(err, service.ErrValidation):
			authsdk.ErrMissingCredentials.WriteError(w)
		default:
			log.Error("login failed", "err", err)
			authsdk.ErrInternal.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.AuthResponse{
		Success: true,
		Message: authsdk.MsgLoginOK,
		Token:   sess.Token,
		User:    toAPIUser(sess.User),
	})
}
