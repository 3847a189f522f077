package domain

import "fmt"

// Role enumerates the access profiles issued by the PharmService API.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleGerente  Role = "GERENTE"
	RoleFarmacia Role = "FARMACIA"
	RoleCliente  Role = "CLIENTE"
)

// ParseRole validates a raw role claim value.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleAdmin, RoleGerente, RoleFarmacia, RoleCliente:
		return Role(raw), nil
	default:
		return "", fmt.Errorf("unknown role %q", raw)
	}
}

// RoleSet is the canonical representation for the roles carried by a token.
// Tokens encode roles either as a single string or as an array; both shapes
// normalize into a RoleSet at decode time so nothing downstream branches on
// representation.
type RoleSet map[Role]struct{}

// NewRoleSet builds a set from the given roles.
func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, role := range roles {
		set[role] = struct{}{}
	}
	return set
}

// Has reports membership.
func (s RoleSet) Has(role Role) bool {
	_, ok := s[role]
	return ok
}

// ManagerClass reports whether the set carries any role allowed to manage
// reservations (approve, conclude, cancel with reason).
func (s RoleSet) ManagerClass() bool {
	return s.Has(RoleAdmin) || s.Has(RoleGerente) || s.Has(RoleFarmacia)
}

// Slice returns the roles in a stable order for serialization.
func (s RoleSet) Slice() []Role {
	ordered := []Role{RoleAdmin, RoleGerente, RoleFarmacia, RoleCliente}
	out := make([]Role, 0, len(s))
	for _, role := range ordered {
		if s.Has(role) {
			out = append(out, role)
		}
	}
	return out
}
