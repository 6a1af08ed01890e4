package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"
)

const authRealm = `Basic realm="tagcal"`

// NewBasicAuthHandler requires HTTP basic credentials matching user and the
// bcrypt passwordHash. Paths listed in public skip the check.
func NewBasicAuthHandler(user string, passwordHash []byte, log *slog.Logger, public ...string) func(http.Handler) http.Handler {
	open := make(map[string]bool, len(public))
	for _, p := range public {
		open[p] = true
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if open[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			gotUser, gotPass, ok := r.BasicAuth()
			userMatch := subtle.ConstantTimeCompare([]byte(gotUser), []byte(user)) == 1
			if !ok || !userMatch || bcrypt.CompareHashAndPassword(passwordHash, []byte(gotPass)) != nil {
				log.WarnContext(r.Context(), "authentication failed",
					"remote_addr", r.RemoteAddr, "user", gotUser, "path", r.URL.Path)
				w.Header().Set("WWW-Authenticate", authRealm)
				writeError(w, http.StatusUnauthorized, "unauthorized", "authentication required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeError writes the API error body {"error":{"code","message"}}.
func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": code, "message": message},
	})
}
