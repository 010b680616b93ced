package http

import (
	"errors"
	"net/http"

	"github.com/kushistore/storefront/internal/auth/service"
	"github.com/kushistore/storefront/pkg/authsdk"
	"github.com/kushistore/storefront/pkg/httpx"
	"github.com/kushistore/storefront/pkg/slogx"
)

type RegisterHandler struct {
	SessionService *service.SessionService
}

// ServeHTTP handles POST /api/register: create an account and open a session.
func (h *RegisterHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req authsdk.RegisterRequest
	if apiErr := decodeAndValidate(r, &req, authsdk.ErrMissingFields); apiErr != nil {
		apiErr.WriteError(w)
		return
	}

	sess, err := h.SessionService.Register(ctx, service.RegisterRequest{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailTaken):
			authsdk.ErrEmailTaken.WriteError(w)
		case errors.Is(err, service.ErrValidation):
			authsdk.ErrMissingFields.WriteError(w)
		default:
			log.Error("registration failed", "err", err)
			authsdk.ErrInternal.WriteError(w)
		}
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, authsdk.AuthResponse{
		Success: true,
		Message: authsdk.MsgUserCreated,
		Token:   sess.Token,
		User:    toAPIUser(sess.User),
	})
}
