package auth

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"discount-system/vitrina/internal/constants"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatewayIdentityProvider_Identify(t *testing.T) {
	p := NewGatewayIdentityProvider()

	tests := []struct {
		name     string
		headers  map[string]string
		wantOK   bool
		wantName string
		wantRole constants.Role
	}{
		{
			name:   "anonymous",
			wantOK: false,
		},
		{
			name:     "plain user",
			headers:  map[string]string{HeaderUserName: "ivanov", HeaderUserRoles: "discount-user"},
			wantOK:   true,
			wantName: "ivanov",
			wantRole: constants.RoleUser,
		},
		{
			name: "base64 full name",
			headers: map[string]string{
				HeaderUserName:             "petrov",
				HeaderUserFullName:         base64.StdEncoding.EncodeToString([]byte("Пётр Петров")),
				HeaderUserFullNameEncoding: "base64",
				HeaderUserRoles:            "rop",
			},
			wantOK:   true,
			wantName: "Пётр Петров",
			wantRole: constants.RoleROP,
		},
		{
			name: "broken base64 falls back to raw",
			headers: map[string]string{
				HeaderUserName:             "petrov",
				HeaderUserFullName:         "%%%",
				HeaderUserFullNameEncoding: "base64",
			},
			wantOK:   true,
			wantName: "%%%",
			wantRole: constants.RoleNone,
		},
		{
			name:     "strongest role wins",
			headers:  map[string]string{HeaderUserName: "a", HeaderUserRoles: "discount-user, discount-admin ,rop"},
			wantOK:   true,
			wantName: "a",
			wantRole: constants.RoleAdmin,
		},
		{
			name:     "admin flag",
			headers:  map[string]string{HeaderUserName: "a", HeaderUserRoles: "user", HeaderUserAdmin: "True"},
			wantOK:   true,
			wantName: "a",
			wantRole: constants.RoleAdmin,
		},
		{
			name:     "unknown roles",
			headers:  map[string]string{HeaderUserName: "a", HeaderUserRoles: "viewer,guest"},
			wantOK:   true,
			wantName: "a",
			wantRole: constants.RoleNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			id, ok := p.Identify(req)
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				assert.Nil(t, id)
				return
			}
			assert.Equal(t, tt.wantName, id.FullName)
			assert.Equal(t, tt.wantRole, id.Role)
		})
	}
}

func TestGatewayClaims(t *testing.T) {
	claims := NewGatewayClaims(&Identity{Login: "l", FullName: "F", Role: constants.RoleROP})

	assert.False(t, claims.IsAdmin())
	assert.True(t, claims.HasRole(constants.RoleUser))
	assert.True(t, claims.HasRole(constants.RoleROP))
	assert.False(t, claims.HasRole(constants.RoleAdmin))

	ctx := SetUserClaims(context.Background(), claims)
	got := GetUserClaims(ctx)
	require.NotNil(t, got)
	assert.Equal(t, "l", got.Login())
	assert.Nil(t, GetUserClaims(context.Background()))
}
