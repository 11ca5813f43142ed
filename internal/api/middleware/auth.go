package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/quantgeo/gannwheel/internal/api/response"
	"github.com/quantgeo/gannwheel/internal/core"
)

const apiKeyHeader = "X-API-Key"

// APIKeyAuth gates a handler behind a shared API key carried in the
// X-API-Key header. An empty configured key disables the check, which
// is how local and test deployments run.
func APIKeyAuth(apiKey string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if apiKey == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := r.Header.Get(apiKeyHeader)
			if got == "" {
				response.Error(w, http.StatusUnauthorized,
					core.WrapError(core.ErrConfigMissing, nil))
				return
			}
			// Constant-time compare keeps response timing independent
			// of how much of the key matched.
			if subtle.ConstantTimeCompare([]byte(got), []byte(apiKey)) != 1 {
				response.Error(w, http.StatusUnauthorized,
					core.WrapError(core.ErrConfigInvalid, nil))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
