package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	id "namemarket/pkg/domain"
	"namemarket/pkg/requestcontext"
)

// PrincipalValidator validates a bearer token and returns the caller
// principal it certifies. The registry never authenticates callers itself;
// identity comes from the host environment's tokens.
type PrincipalValidator interface {
	ValidateToken(tokenString string) (id.Principal, error)
}

// GetPrincipal retrieves the authenticated caller principal from the context.
func GetPrincipal(ctx context.Context) id.Principal {
	return requestcontext.Principal(ctx)
}

// RequireAuth rejects requests without a valid bearer token and stamps the
// caller principal into the request context.
func RequireAuth(validator PrincipalValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			const bearerPrefix = "Bearer "
			token, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok {
				ctx := r.Context()
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(ctx),
				)
				writeUnauthorized(w, "Missing or invalid Authorization header")
				return
			}

			principal, err := validator.ValidateToken(token)
			if err != nil {
				ctx := r.Context()
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				writeUnauthorized(w, "Invalid or expired token")
				return
			}

			ctx := requestcontext.WithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeUnauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}
