package auth

import (
	"context"
	"log"
	"net/http"
	"strings"

	"orgboard-backend/internal/response"
)

type contextKey string

const (
	userIDKey contextKey = "orgboard_user_id"
	claimsKey contextKey = "orgboard_claims"
)

// TokenRevocations checks whether a token id has been revoked (logout).
type TokenRevocations interface {
	IsTokenRevoked(ctx context.Context, jti string) (bool, error)
}

// Middleware verifies the bearer token, rejects revoked tokens and puts the
// resolved user id on the request context. revocations may be nil, in which
// case the revocation check is skipped.
func Middleware(revocations TokenRevocations) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
				response.Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
			if token == "" {
				response.Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			claims, err := ParseToken(token)
			if err != nil || claims.Subject == "" {
				response.Error(w, http.StatusUnauthorized, "Unauthorized")
				return
			}

			if revocations != nil && claims.ID != "" {
				revoked, err := revocations.IsTokenRevoked(r.Context(), claims.ID)
				if err != nil {
					log.Printf("WARN Token revocation check failed: %v", err)
				} else if revoked {
					response.Error(w, http.StatusUnauthorized, "Token has been revoked")
					return
				}
			}

			ctx := ContextWithUserID(r.Context(), claims.Subject)
			ctx = context.WithValue(ctx, claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ContextWithUserID returns a context carrying the authenticated user id.
func ContextWithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	value := ctx.Value(userIDKey)
	userID, ok := value.(string)
	return userID, ok
}

func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	return claims, ok
}
