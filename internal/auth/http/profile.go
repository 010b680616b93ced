package http

import (
	"errors"
	"net/http"

	"github.com/kushistore/storefront/internal/auth/service"
	"github.com/kushistore/storefront/internal/auth/store"
	"github.com/kushistore/storefront/pkg/authsdk"
	"github.com/kushistore/storefront/pkg/httpx"
	"github.com/kushistore/storefront/pkg/slogx"
)

type ProfileHandler struct {
	SessionService *service.SessionService
}

// ServeHTTP handles GET /api/profile. The account is loaded fresh from the
// store; token claims are only used for identity, never echoed back.
func (h *ProfileHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID, ok := httpx.UserIDFromContext(ctx)
	if !ok {
		authsdk.ErrInvalidToken.WriteError(w)
		return
	}

	profile, err := h.SessionService.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Token outlived the account.
			authsdk.ErrUserNotFound.WriteError(w)
			return
		}
		log.Error("profile lookup failed", "user_id", userID, "err", err)
		authsdk.ErrInternal.WriteError(w)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.ProfileResponse{
		Success: true,
		User:    toAPIUser(profile),
	})
}
