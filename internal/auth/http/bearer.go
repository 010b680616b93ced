package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/kushistore/storefront/pkg/authsdk"
	"github.com/kushistore/storefront/pkg/httpx"
	"github.com/kushistore/storefront/pkg/jwtx"
)

// AuthnMiddleware authenticates requests via the Authorization bearer token.
// On success the user ID and verified claims are placed on the request
// context. A missing token and an invalid token produce distinct messages so
// a signed-out page can tell the difference from an expired session.
func AuthnMiddleware(verifier jwtx.Verifier) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				authsdk.ErrMissingToken.WriteError(w)
				return
			}

			claims, err := verifier.Verify(token)
			if err != nil {
				authsdk.ErrInvalidToken.WriteError(w)
				return
			}

			ctx := context.WithValue(r.Context(), httpx.CtxKeyUserID, claims.Subject)
			ctx = context.WithValue(ctx, httpx.CtxKeyClaims, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
