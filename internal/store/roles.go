package store

import (
	"fmt"
	"strings"
)

// Role is the closed set of actor kinds. The zero value is RoleGuest.
type Role int

const (
	RoleGuest Role = iota
	RoleRegistered
	RoleAdmin
)

func (r Role) String() string {
	switch r {
	case RoleGuest:
		return "guest"
	case RoleRegistered:
		return "registered"
	case RoleAdmin:
		return "admin"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

// ParseRole maps the stored role name onto a Role.
func ParseRole(value string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "guest":
		return RoleGuest, nil
	case "registered":
		return RoleRegistered, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return RoleGuest, fmt.Errorf("unknown role %q", value)
	}
}

// Capability names an action gated by role.
type Capability string

const (
	CapCreateRecipe Capability = "create recipes"
	CapEditRecipe   Capability = "edit recipes"
	CapDeleteRecipe Capability = "delete recipes"
	CapPurgeRecipe  Capability = "permanently delete recipes"
	CapViewInactive Capability = "view inactive recipes"
)

var grants = map[Role]map[Capability]bool{
	RoleRegistered: {
		CapCreateRecipe: true,
		CapDeleteRecipe: true,
	},
	RoleAdmin: {
		CapCreateRecipe: true,
		CapEditRecipe:   true,
		CapDeleteRecipe: true,
		CapPurgeRecipe:  true,
		CapViewInactive: true,
	},
}

// Can reports whether r holds capability c.
func (r Role) Can(c Capability) bool {
	return grants[r][c]
}

// require returns a PermissionError unless r holds c.
func (r Role) require(c Capability) error {
	if r.Can(c) {
		return nil
	}
	return &PermissionError{Role: r, Capability: c}
}
