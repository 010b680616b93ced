package httpx

import "context"

type ctxKey string

const (
	// CtxKeyUserID carries the authenticated user's ID (token subject).
	CtxKeyUserID ctxKey = "user_id"
	// CtxKeyClaims carries the full verified session claims.
	CtxKeyClaims ctxKey = "claims"
)

// UserIDFromContext returns the authenticated user ID, if the request passed
// through the bearer-token middleware.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(CtxKeyUserID).(string)
	return id, ok && id != ""
}
