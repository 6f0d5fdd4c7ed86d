package domain

import (
	"errors"
	"fmt"
)

// Role is a position in the organisation's four-level hierarchy.
type Role string

const (
	RoleAgent       Role = "agent"
	RoleChef        Role = "chef"
	RoleResponsable Role = "responsable"
	RoleAdmin       Role = "admin"
)

var ErrInvalidRole = errors.New("invalid role")

// Roles lists every known role in ascending order.
var Roles = []Role{RoleAgent, RoleChef, RoleResponsable, RoleAdmin}

// Rank returns the role's position in the total order. Unknown roles rank 0.
func (r Role) Rank() int {
	switch r {
	case RoleAgent:
		return 1
	case RoleChef:
		return 2
	case RoleResponsable:
		return 3
	case RoleAdmin:
		return 4
	default:
		return 0
	}
}

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	return r.Rank() > 0
}

// ParseRole converts s into a Role.
func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, s)
	}
	return r, nil
}

// HasPermission reports whether actor may access something gated on required.
// Admin is allowed everything before any rank comparison happens.
func HasPermission(actor, required Role) bool {
	if actor == RoleAdmin {
		return true
	}
	if !actor.Valid() || !required.Valid() {
		return false
	}
	return actor.Rank() >= required.Rank()
}
