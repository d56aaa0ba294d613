package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"discount-system/vitrina/internal/auth"
	"discount-system/vitrina/internal/constants"
	"discount-system/vitrina/internal/db/repositories"
	"discount-system/vitrina/internal/metrics"
	"discount-system/vitrina/internal/services"
	"discount-system/vitrina/internal/testutil"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestIdentityMiddleware(t *testing.T) {
	gdb := testutil.NewTestDB(t)
	users := services.NewUserService(repositories.NewUserRepositoryGORM(gdb))

	var seen auth.UserClaims
	h := IdentityMiddleware(auth.NewGatewayIdentityProvider(), users)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = auth.GetUserClaims(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(auth.HeaderUserName, "ivanov")
	req.Header.Set(auth.HeaderUserRoles, "discount-rop")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "ivanov", seen.Login())
	assert.Equal(t, constants.RoleROP, seen.Role())

	stored, err := users.GetUser(req.Context(), "ivanov")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, constants.RoleROP, stored.Role)
}

func TestIsAdminMiddleware(t *testing.T) {
	h := IsAdminMiddleware()(http.HandlerFunc(okHandler))

	tests := []struct {
		name   string
		claims auth.UserClaims
		want   int
	}{
		{"no claims", nil, http.StatusForbidden},
		{"user", &auth.GatewayClaims{LoginValue: "u", RoleValue: constants.RoleUser}, http.StatusForbidden},
		{"rop", &auth.GatewayClaims{LoginValue: "r", RoleValue: constants.RoleROP}, http.StatusForbidden},
		{"admin", &auth.GatewayClaims{LoginValue: "a", RoleValue: constants.RoleAdmin}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/upload-excel", nil)
			if tt.claims != nil {
				req = req.WithContext(auth.SetUserClaims(req.Context(), tt.claims))
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(1, 2)
	h := limiter.Middleware(http.HandlerFunc(okHandler))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/upload-excel", nil)
		req.RemoteAddr = "10.0.0.5:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// Other clients have their own bucket
	req := httptest.NewRequest(http.MethodPost, "/upload-excel", nil)
	req.RemoteAddr = "10.0.0.6:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequestIDAndMetricsMiddleware(t *testing.T) {
	reg := metrics.NewMetricsRegistry(prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(MetricsMiddleware(reg))
	r.Get("/api/discounts", func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, auth.GetRequestID(r.Context()))
		w.WriteHeader(http.StatusBadRequest)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/discounts", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))
	assert.Equal(t, 1.0, promtest.ToFloat64(reg.HTTPRequestsTotal.WithLabelValues("/api/discounts", http.MethodGet, "400")))

	req := httptest.NewRequest(http.MethodGet, "/api/discounts", nil)
	req.Header.Set(HeaderRequestID, "given-id")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "given-id", rec.Header().Get(HeaderRequestID))
}

func TestNormalizeEndpoint(t *testing.T) {
	assert.Equal(t, "/api/discounts/matrix", NormalizeEndpoint("/api/discounts/matrix"))
	assert.Equal(t, "/static/{id}/app.js", NormalizeEndpoint("/static/42/app.js"))
	assert.Equal(t, "/runs/{id}", NormalizeEndpoint("/runs/3f1c2d9e-7a4b-4c1e-9d2a-5b6c7d8e9f01"))
}

func TestThemeMiddleware(t *testing.T) {
	var got string
	h := ThemeMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = ThemeFromContext(r.Context())
	}))

	cases := map[string]string{
		"":       ThemeLight,
		"dark":   ThemeDark,
		"purple": ThemeLight,
	}
	for cookie, want := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if cookie != "" {
			req.AddCookie(&http.Cookie{Name: ThemeCookieName, Value: cookie})
		}
		h.ServeHTTP(httptest.NewRecorder(), req)
		assert.Equal(t, want, got, cookie)
	}
}
