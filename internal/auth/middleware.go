package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"noleggio/internal/db"
	"noleggio/internal/errors"

	"github.com/golang-jwt/jwt/v5"
)

type contextKey string

const claimsKey contextKey = "authClaims"

// Claims is the authenticated identity attached to the request context.
type Claims struct {
	Email string
	Role  string
}

// FromContext returns the claims the middleware stored, if any.
func FromContext(ctx context.Context) (*Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*Claims)
	return c, ok
}

// Middleware validates the Bearer token and attaches its claims to the
// request context. Requests without a valid token get a 401.
func Middleware(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				errors.Write(w, errors.Unauthorized("missing bearer token"))
				return
			}
			tokenString := strings.TrimPrefix(header, "Bearer ")

			token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				errors.Write(w, errors.Unauthorized("invalid or expired token"))
				return
			}

			mapClaims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				errors.Write(w, errors.Unauthorized("invalid token claims"))
				return
			}
			email, _ := mapClaims["sub"].(string)
			role, _ := mapClaims["role"].(string)
			claims := &Claims{Email: email, Role: role}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
		})
	}
}

// RequireAdmin gates destructive routes to the admin role.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := FromContext(r.Context())
		if !ok {
			errors.Write(w, errors.Unauthorized("missing bearer token"))
			return
		}
		if claims.Role != db.RoleAdmin {
			errors.Write(w, errors.Forbidden("admin role required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}
