package auth

import "discount-system/vitrina/internal/constants"

// UserClaims is what handlers know about the caller
type UserClaims interface {
	Login() string
	FullName() string
	Role() constants.Role
	Source() string
	IsAdmin() bool
	HasRole(role constants.Role) bool
}

// GatewayClaims are built from the identity headers set by the auth gateway
type GatewayClaims struct {
	LoginValue    string
	FullNameValue string
	RoleValue     constants.Role
}

func (c *GatewayClaims) Login() string        { return c.LoginValue }
func (c *GatewayClaims) FullName() string     { return c.FullNameValue }
func (c *GatewayClaims) Role() constants.Role { return c.RoleValue }
func (c *GatewayClaims) Source() string       { return "GATEWAY" }
func (c *GatewayClaims) IsAdmin() bool        { return c.RoleValue == constants.RoleAdmin }

// HasRole reports whether the caller's role is at least role
func (c *GatewayClaims) HasRole(role constants.Role) bool {
	return c.RoleValue.Rank() >= role.Rank()
}

// NewGatewayClaims wraps an identity as request claims
func NewGatewayClaims(id *Identity) *GatewayClaims {
	return &GatewayClaims{
		LoginValue:    id.Login,
		FullNameValue: id.FullName,
		RoleValue:     id.Role,
	}
}
