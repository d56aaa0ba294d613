package auth

import (
	"encoding/base64"
	"net/http"
	"strings"

	"discount-system/vitrina/internal/constants"
)

// Gateway identity headers
const (
	HeaderUserName             = "X-User-Name"
	HeaderUserFullName         = "X-User-Full-Name"
	HeaderUserFullNameEncoding = "X-User-Full-Name-Encoding"
	HeaderUserRoles            = "X-User-Roles"
	HeaderUserAdmin            = "X-User-Admin"
)

// Identity is the authenticated caller as reported by an IdentityProvider
type Identity struct {
	Login    string
	FullName string
	Role     constants.Role
}

// IdentityProvider resolves the caller of a request. ok is false for anonymous requests.
type IdentityProvider interface {
	Identify(r *http.Request) (*Identity, bool)
}

// GatewayIdentityProvider trusts the identity headers injected by the reverse proxy
type GatewayIdentityProvider struct{}

// Ensure GatewayIdentityProvider implements IdentityProvider
var _ IdentityProvider = GatewayIdentityProvider{}

func NewGatewayIdentityProvider() GatewayIdentityProvider {
	return GatewayIdentityProvider{}
}

func (GatewayIdentityProvider) Identify(r *http.Request) (*Identity, bool) {
	login := strings.TrimSpace(r.Header.Get(HeaderUserName))
	if login == "" {
		return nil, false
	}

	fullName := decodeFullName(r.Header.Get(HeaderUserFullName), r.Header.Get(HeaderUserFullNameEncoding))
	if fullName == "" {
		fullName = login
	}

	role := MapGatewayRoles(r.Header.Get(HeaderUserRoles))
	if strings.EqualFold(strings.TrimSpace(r.Header.Get(HeaderUserAdmin)), "true") {
		role = constants.RoleAdmin
	}

	return &Identity{
		Login:    login,
		FullName: fullName,
		Role:     role,
	}, true
}

// decodeFullName undoes the gateway's base64 encoding of non-ASCII names.
// A value that fails to decode is used as is.
func decodeFullName(value, encoding string) string {
	value = strings.TrimSpace(value)
	if value == "" || !strings.EqualFold(strings.TrimSpace(encoding), "base64") {
		return value
	}

	decoded, err := base64.StdEncoding.DecodeString(value)
	if err != nil {
		return value
	}
	return strings.TrimSpace(string(decoded))
}

// MapGatewayRoles maps a comma separated role list to the strongest local role.
// Unknown roles are ignored; no known role yields RoleNone.
func MapGatewayRoles(header string) constants.Role {
	best := constants.RoleNone
	for _, raw := range strings.Split(header, ",") {
		role, ok := constants.GatewayRoles[strings.ToLower(strings.TrimSpace(raw))]
		if !ok {
			continue
		}
		if role.Rank() > best.Rank() {
			best = role
		}
	}
	return best
}
