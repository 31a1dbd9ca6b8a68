package http

import (
	"context"
	"net/http"
	"strings"

	"hallms-backend/internal/domain"
	"hallms-backend/internal/security"
	"hallms-backend/internal/service"
)

type contextKey string

const claimsKey contextKey = "claims"

// Authenticate validates the bearer token and stores its claims in the
// request context.
func Authenticate(tokens security.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeError(w, &service.Error{Kind: service.KindAuth, Message: "missing bearer token"})
				return
			}

			claims, err := tokens.ValidateToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				writeError(w, &service.Error{Kind: service.KindAuth, Message: err.Error()})
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects requests whose token does not carry the admin role.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := claimsFrom(r.Context())
		if claims == nil || claims.Role != string(domain.RoleAdmin) {
			writeError(w, &service.Error{Kind: service.KindForbidden, Message: "admin role required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func claimsFrom(ctx context.Context) *security.UserClaims {
	claims, _ := ctx.Value(claimsKey).(*security.UserClaims)
	return claims
}

// hallIDFrom resolves the caller's hall scope. Every hall-bound resource is
// addressed through the token's hall, so a caller can never reach another
// hall's rows; resources outside the scope simply read as not found.
func hallIDFrom(ctx context.Context) (int32, error) {
	claims := claimsFrom(ctx)
	if claims == nil || claims.HallID == nil {
		return 0, &service.Error{Kind: service.KindForbidden, Message: "no hall assignment on this account"}
	}
	return *claims.HallID, nil
}
