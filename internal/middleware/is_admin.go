package middleware

import (
	"net/http"

	"discount-system/vitrina/internal/auth"
	"discount-system/vitrina/internal/constants"
)

func IsAdminMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := auth.GetUserClaims(r.Context())

			if claims == nil || !claims.IsAdmin() {
				http.Error(w, constants.MsgAdminRequired, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
