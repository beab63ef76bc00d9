package httpapi

import (
	"net/http"
	"strings"

	"github.com/wayfarer-labs/travel-log-api/internal/app/auth"
)

// NewAuthMiddleware enforces Authorization: Bearer <token> and resolves
// the caller through the auth service.
//
// On success the resolved user and the raw token are stored on the
// request context. Missing, malformed, unknown and revoked credentials
// answer 401 with no further detail; a failing token or user store
// answers 500.
func NewAuthMiddleware(svc *auth.Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			if authz == "" {
				writeMessage(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			const prefix = "Bearer "
			if !strings.HasPrefix(authz, prefix) {
				writeMessage(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			raw := strings.TrimSpace(strings.TrimPrefix(authz, prefix))
			if raw == "" {
				writeMessage(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			// writeAppError keeps the 401/500 distinction: bad or
			// revoked credentials answer 401, a store failure is
			// logged and answers a bare 500.
			caller, err := svc.ResolveCaller(r.Context(), raw)
			if err != nil {
				writeAppError(w, r, err)
				return
			}

			ctx := WithCaller(r.Context(), caller)
			ctx = WithBearerToken(ctx, raw)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
