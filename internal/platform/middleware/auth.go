package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"lexid/internal/token"
	id "lexid/pkg/domain"
	"lexid/pkg/requestcontext"
)

// TokenValidator validates bearer tokens from the external session layer.
type TokenValidator interface {
	ValidateToken(tokenString string) (*token.Claims, error)
}

func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

// RequireAuth resolves the acting caller from the Authorization header and
// injects it into the request context. It enforces authentication only;
// role checks belong to the services so they hold even without HTTP in
// front of them.
func RequireAuth(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			const bearerPrefix = "Bearer "
			authHeader := r.Header.Get("Authorization")
			raw, ok := strings.CutPrefix(authHeader, bearerPrefix)
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
				return
			}

			claims, err := validator.ValidateToken(raw)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid or expired token")
				return
			}

			actorID, err := id.ParseProfileID(claims.ProfileID)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - malformed subject claim",
					"request_id", requestcontext.RequestID(ctx),
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "Invalid token claims")
				return
			}

			ctx = requestcontext.WithActor(ctx, actorID, id.Role(claims.Role))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
