package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/studysection/notes-backend/internal/auth"
)

// TokenVerifier validates a bearer token and returns the subject id.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// RequireAuth validates the Authorization header and injects the
// verified user id into the request context. Only the canonical
// "Bearer <token>" framing is accepted; bare tokens are rejected.
func RequireAuth(tokens TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				http.Error(w, `{"error":"No token, authorization denied"}`, http.StatusUnauthorized)
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				http.Error(w, `{"error":"Invalid token format"}`, http.StatusUnauthorized)
				return
			}

			userID, err := tokens.Verify(token)
			if err != nil {
				if errors.Is(err, auth.ErrTokenExpired) {
					http.Error(w, `{"error":"Token has expired"}`, http.StatusUnauthorized)
					return
				}
				http.Error(w, `{"error":"Token is not valid"}`, http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), auth.UserIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
