package middleware

import (
	"net/http"

	"discount-system/vitrina/internal/auth"
	"discount-system/vitrina/internal/constants"
	"discount-system/vitrina/internal/logging"
	"discount-system/vitrina/internal/services"
)

// IdentityMiddleware resolves the caller through provider and stores the claims in the context.
// The users row is refreshed on every request; a failed refresh is logged and the request goes on.
func IdentityMiddleware(provider auth.IdentityProvider, users *services.UserService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, ok := provider.Identify(r)
			if !ok {
				http.Error(w, constants.MsgUnauthenticated, http.StatusUnauthorized)
				return
			}

			if users != nil {
				if _, err := users.Sync(r.Context(), identity); err != nil {
					logging.Warn("Failed to sync user",
						"request_id", auth.GetRequestID(r.Context()),
						"login", identity.Login,
						"error", err,
					)
				}
			}

			ctx := auth.SetUserClaims(r.Context(), auth.NewGatewayClaims(identity))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
