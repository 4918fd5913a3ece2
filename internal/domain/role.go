package domain

import (
	"fmt"
	"strings"
)

// Role classifies an account. The set is closed; NumRoles sizes role-indexed tables.
type Role int

const (
	RoleStudent Role = iota
	RoleRecruiter

	NumRoles int = iota
)

var roleNames = [NumRoles]string{
	RoleStudent:   "Student",
	RoleRecruiter: "Recruiter",
}

// Roles lists every role in declaration order.
func Roles() []Role {
	out := make([]Role, 0, NumRoles)
	for i := 0; i < NumRoles; i++ {
		out = append(out, Role(i))
	}
	return out
}

// ParseRole maps the wire name of a role to its variant. Matching is case-insensitive.
func ParseRole(s string) (Role, error) {
	s = strings.TrimSpace(s)
	for i, name := range roleNames {
		if strings.EqualFold(name, s) {
			return Role(i), nil
		}
	}
	return 0, fmt.Errorf("unknown role %q", s)
}

// Valid reports whether r is one of the declared roles.
func (r Role) Valid() bool {
	return r >= 0 && int(r) < NumRoles
}

func (r Role) String() string {
	if !r.Valid() {
		return fmt.Sprintf("Role(%d)", int(r))
	}
	return roleNames[r]
}

// MarshalText encodes the role by name.
func (r Role) MarshalText() ([]byte, error) {
	if !r.Valid() {
		return nil, fmt.Errorf("invalid role %d", int(r))
	}
	return []byte(roleNames[r]), nil
}

// UnmarshalText decodes a role name.
func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
