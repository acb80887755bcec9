package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// RequireSession rejects requests while no bearer token is held, answering 401
// with a redirect to the login screen. token reports the current token.
func RequireSession(token func() string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token() != "" {
				next.ServeHTTP(w, r)
				return
			}

			slog.Warn("session: request without login",
				"path", r.URL.Path,
				"method", r.Method,
				"remote_addr", r.RemoteAddr,
			)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error":    "Your session has expired",
				"message":  "Your session has expired",
				"action":   "Please sign in again",
				"code":     "AUTH001",
				"redirect": "/login",
			})
		})
	}
}
