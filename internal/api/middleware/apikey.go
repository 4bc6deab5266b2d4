package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/ndewijer/Investment-Portfolio-Dashboard/internal/api/response"
)

// APIKeyHeader carries the key checked by RequireAPIKey.
const APIKeyHeader = "X-API-Key"

// RequireAPIKey returns a middleware that rejects requests whose X-API-Key
// header does not match key. An empty key disables the check.
//
// Example usage in router:
//
//	r.With(middleware.RequireAPIKey(cfg.Server.APIKey)).Post("/", handler.CreateHolding)
func RequireAPIKey(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if key == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(APIKeyHeader)
			if got == "" {
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Missing API key")
				return
			}
			if subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
				response.RespondError(w, http.StatusUnauthorized, "unauthorized", "Invalid API key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
