package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/vaultpass/passgen/internal/crypto"
)

type contextKey string

const sessionIDKey contextKey = "sessionID"

// SessionAuth returns middleware that requires a valid Bearer session token
// in the Authorization header.
func SessionAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSONError(w, http.StatusUnauthorized, "missing authorization header")
				return
			}

			sessionID, ok := sessionFromHeader(w, authHeader, secret)
			if !ok {
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), sessionID)))
		})
	}
}

// OptionalSession is like SessionAuth but lets requests without an
// Authorization header through anonymously. A header that is present must
// still carry a valid token.
func OptionalSession(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			sessionID, ok := sessionFromHeader(w, authHeader, secret)
			if !ok {
				return
			}

			next.ServeHTTP(w, r.WithContext(WithSessionID(r.Context(), sessionID)))
		})
	}
}

func sessionFromHeader(w http.ResponseWriter, authHeader, secret string) (string, bool) {
	token, found := strings.CutPrefix(authHeader, "Bearer ")
	if !found || token == "" {
		writeJSONError(w, http.StatusUnauthorized, "invalid authorization format")
		return "", false
	}

	claims, err := crypto.ValidateToken(token, secret)
	if err != nil {
		writeJSONError(w, http.StatusUnauthorized, "invalid or expired token")
		return "", false
	}

	return claims.SessionID, true
}

// WithSessionID returns a copy of ctx carrying sessionID.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// SessionIDFromContext extracts the session ID from the request context.
func SessionIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(sessionIDKey).(string)
	return id, ok && id != ""
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
