package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"docspace/internal/auth"
	"docspace/internal/httputil"
	"docspace/internal/tenancy"
)

// AuthMiddleware validates the bearer token and scopes the request context
// to the token's tenant and user. Paths in public skip authentication.
func AuthMiddleware(verifier auth.JWTVerifier, logger *slog.Logger, public ...string) func(http.Handler) http.Handler {
	skip := make(map[string]bool, len(public))
	for _, p := range public {
		skip[p] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skip[r.URL.Path] || r.Method == http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				logger.Debug("rejected token", "path", r.URL.Path, "error", err)
				httputil.RespondError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			ctx := tenancy.WithTenant(r.Context(), claims.TenantID)
			ctx = tenancy.WithUser(ctx, claims.GetUserID())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
