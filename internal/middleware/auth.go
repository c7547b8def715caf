package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// authClaims is the token shape issued by the authentication collaborator:
// the subject user id plus the flat permission names granted to the user.
type authClaims struct {
	UserID      string   `json:"user_id"`
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

type contextKey int

const (
	userIDKey contextKey = iota
	permissionsKey
)

// UserID returns the authenticated user id from ctx, or "" when the request
// is unauthenticated.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(userIDKey).(string)
	return id
}

// HasPermission reports whether the authenticated user holds the named
// permission.
func HasPermission(ctx context.Context, name string) bool {
	perms, _ := ctx.Value(permissionsKey).([]string)
	for _, p := range perms {
		if p == name {
			return true
		}
	}
	return false
}

// WithUser returns a context carrying an authenticated user, exactly as
// NewAuthHandler stores one. Handler tests use it to stand in for a verified
// token.
func WithUser(ctx context.Context, userID string, permissions []string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, permissionsKey, permissions)
}

// NewAuthHandler returns a middleware that verifies the Bearer token on
// every request and stores the user id and permissions in the request
// context. Requests without a valid token are rejected with 401.
//
// Token issuance lives with the authentication collaborator; this backend
// only verifies the HMAC signature with the shared secret.
func NewAuthHandler(secret string) func(http.Handler) http.Handler {
	key := []byte(secret)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			parsed, err := jwt.ParseWithClaims(raw, &authClaims{}, func(t *jwt.Token) (any, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrTokenUnverifiable
				}
				return key, nil
			})
			if err != nil || !parsed.Valid {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}
			claims, ok := parsed.Claims.(*authClaims)
			if !ok || claims.UserID == "" {
				http.Error(w, "invalid token claims", http.StatusUnauthorized)
				return
			}

			ctx := WithUser(r.Context(), claims.UserID, claims.Permissions)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequirePermission gates a route on one permission name, returning 403 when
// the authenticated user lacks it.
func RequirePermission(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !HasPermission(r.Context(), name) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
