// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielhkuo/gatherly/auth"
	"github.com/danielhkuo/gatherly/models"
)

type contextKey string

const userKey contextKey = "user"

// User is the authenticated identity carried in the request context.
type User struct {
	ID    string
	Email string
	Role  string
}

// UserFrom returns the authenticated user, or false on anonymous requests.
func UserFrom(r *http.Request) (User, bool) {
	u, ok := r.Context().Value(userKey).(User)
	return u, ok
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return ""
	}
	return token
}

func withUser(r *http.Request, u User) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), userKey, u))
}

// RequireAuth rejects requests without a valid bearer token and puts the
// token's user in the context for the next handler.
func RequireAuth(secret []byte, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			ErrorResponse(w, http.StatusUnauthorized, "Missing bearer token")
			return
		}
		claims, err := auth.ParseToken(secret, token)
		if err != nil {
			ErrorResponse(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		next(w, withUser(r, User{ID: claims.Subject, Email: claims.Email, Role: claims.Role}))
	}
}

// RequireAdmin is RequireAuth plus a role check on the token's role claim.
func RequireAdmin(secret []byte, next http.HandlerFunc) http.HandlerFunc {
	return RequireAuth(secret, func(w http.ResponseWriter, r *http.Request) {
		user, _ := UserFrom(r)
		if user.Role != models.RoleAdmin {
			ErrorResponse(w, http.StatusForbidden, "Admin access required")
			return
		}
		next(w, r)
	})
}

// OptionalAuth puts the user in the context when a valid token is present
// and lets anonymous requests through untouched. An invalid token is
// treated as anonymous rather than rejected.
func OptionalAuth(secret []byte, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if token := bearerToken(r); token != "" {
			if claims, err := auth.ParseToken(secret, token); err == nil {
				r = withUser(r, User{ID: claims.Subject, Email: claims.Email, Role: claims.Role})
			}
		}
		next(w, r)
	}
}
