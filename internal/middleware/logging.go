package middleware

import (
	"net/http"
	"strings"

	"discount-system/vitrina/internal/auth"
	"discount-system/vitrina/internal/logging"
)

// GatewayHeaderLogging logs the identity headers the gateway sent, at debug level.
// Only mounted in development, to check what the proxy forwards.
func GatewayHeaderLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fields := []interface{}{
			"request_id", auth.GetRequestID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
		}
		for name, vals := range r.Header {
			if strings.HasPrefix(name, "X-User-") {
				fields = append(fields, name, strings.Join(vals, ","))
			}
		}

		logging.Debug("Gateway headers", fields...)
		next.ServeHTTP(w, r)
	})
}
