package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"log/slog"
)

type contextKey string

const userContextKey contextKey = "sweetshop_user"

func WithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userContextKey, u)
}

func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(userContextKey).(*User)
	return u, ok
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeError(w, http.StatusUnauthorized, "could not validate credentials")
}

// JWTMiddleware validates the bearer token and resolves its subject
// against the user store. A token whose user has since disappeared is
// rejected, and the role comes from the stored record, not the claim.
func JWTMiddleware(svc *Service, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := r.Header.Get("Authorization")
			if h == "" || !strings.HasPrefix(h, "Bearer ") {
				unauthorized(w)
				return
			}
			token := strings.TrimPrefix(h, "Bearer ")
			claims, err := svc.ParseToken(token)
			if err != nil {
				unauthorized(w)
				return
			}
			user, err := svc.store.GetByUsername(r.Context(), claims.Subject)
			if err != nil {
				if errors.Is(err, ErrUserNotFound) {
					unauthorized(w)
					return
				}
				logger.Error("resolve token user", "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			ctx := WithUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok {
			unauthorized(w)
			return
		}
		if user.Role != RoleAdmin {
			writeError(w, http.StatusForbidden, "admin privileges required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
