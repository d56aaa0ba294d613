package constants

import (
	"database/sql/driver"
	"fmt"
)

// Role is the access level of a gateway user
type Role string

const (
	RoleNone  Role = ""
	RoleUser  Role = "user"
	RoleROP   Role = "rop"
	RoleAdmin Role = "admin"
)

// Stringer ­– convenient for fmt / logs
func (r Role) String() string { return string(r) }

// Rank orders roles so the strongest one wins when several are granted.
func (r Role) Rank() int {
	switch r {
	case RoleUser:
		return 1
	case RoleROP:
		return 2
	case RoleAdmin:
		return 3
	default:
		return 0
	}
}

/* ---------- DB adapters so gorm (or database/sql) scans/values cleanly ---------- */

// Scan implements the sql.Scanner interface
func (r *Role) Scan(src interface{}) error {
	if src == nil {
		*r = ""
		return nil
	}
	switch v := src.(type) {
	case string:
		*r = Role(v)
	case []byte:
		*r = Role(v)
	default:
		return fmt.Errorf("Role: cannot scan type %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (r Role) Value() (driver.Value, error) { return string(r), nil }

// GatewayRoles maps role names sent by the auth gateway to local roles.
var GatewayRoles = map[string]Role{
	"user":           RoleUser,
	"discount-user":  RoleUser,
	"rop":            RoleROP,
	"discount-rop":   RoleROP,
	"admin":          RoleAdmin,
	"discount-admin": RoleAdmin,
}
