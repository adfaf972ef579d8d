// Package auth handles credentials and request identity: bcrypt password
// hashing, JWT issue/verify, and the middleware that turns a Bearer token
// into a CurrentUser in the request context.
package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// CurrentUser is the authenticated identity injected into the request
// context by RequireAuth.
type CurrentUser struct {
	ID             primitive.ObjectID
	Username       string
	Role           string
	OrganizationID primitive.ObjectID // NilObjectID for platform-level users
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// UserFrom returns the authenticated user from the request context.
func UserFrom(r *http.Request) (*CurrentUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*CurrentUser)
	return u, ok
}

// HashPassword hashes a plaintext password with bcrypt at the default cost.
func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword reports whether the plaintext password matches the hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// RequireAuth returns middleware that validates the Authorization header's
// Bearer token and injects the CurrentUser into the context. Requests
// without a valid access token get 401.
func RequireAuth(tm *TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				unauthorized(w, "missing bearer token")
				return
			}

			claims, err := tm.VerifyAccess(token)
			if err != nil {
				unauthorized(w, "invalid or expired token")
				return
			}

			userID, err := primitive.ObjectIDFromHex(claims.Subject)
			if err != nil {
				// Malformed subject in a validly signed token indicates a
				// signing-side bug; fail closed.
				unauthorized(w, "invalid token subject")
				return
			}

			u := &CurrentUser{
				ID:       userID,
				Username: claims.Username,
				Role:     claims.Role,
			}
			if claims.OrgID != "" {
				if orgID, err := primitive.ObjectIDFromHex(claims.OrgID); err == nil {
					u.OrganizationID = orgID
				}
			}

			next.ServeHTTP(w, r.WithContext(
				context.WithValue(r.Context(), currentUserKey, u)))
		})
	}
}

// WithUser injects a user into the request context. For handler tests.
func WithUser(r *http.Request, u *CurrentUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":  "error",
		"message": msg,
	})
}
