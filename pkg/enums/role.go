package enums

import "fmt"

// Role represents the account role carried by a session.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleVendor   Role = "vendor"
	RoleAdmin    Role = "admin"
)

var validRoles = []Role{
	RoleCustomer,
	RoleVendor,
	RoleAdmin,
}

var roleLevels = map[Role]int{
	RoleCustomer: 1,
	RoleVendor:   2,
	RoleAdmin:    3,
}

// String implements fmt.Stringer.
func (r Role) String() string {
	return string(r)
}

// IsValid reports whether the value is a known Role.
func (r Role) IsValid() bool {
	for _, candidate := range validRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// Level returns the role's position in the permission hierarchy.
// Unknown roles sit below every valid role.
func (r Role) Level() int {
	return roleLevels[r]
}

// Satisfies reports whether the role meets the required role's level.
// The check is hierarchical: admin satisfies vendor- and customer-gated
// requirements.
func (r Role) Satisfies(required Role) bool {
	return r.Level() >= required.Level() && required.Level() > 0
}

// ParseRole converts raw input into a Role.
func ParseRole(value string) (Role, error) {
	for _, candidate := range validRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid role %q", value)
}
