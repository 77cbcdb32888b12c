package auth

import "strings"

type Role string

const (
	RoleStaff     Role = "STAFF"
	RoleReception Role = "RECEPTION"
	RoleAdmin     Role = "ADMIN"
	RoleUser      Role = "USER"
)

// ParseRole maps a raw claim value onto a known role. Anything unknown or
// missing is treated as RoleUser.
func ParseRole(raw string) Role {
	switch r := Role(strings.ToUpper(strings.TrimSpace(raw))); r {
	case RoleStaff, RoleReception, RoleAdmin:
		return r
	default:
		return RoleUser
	}
}

func (r Role) String() string {
	return string(r)
}

// Principal is the authenticated caller.
type Principal struct {
	Subject string
	Role    Role
	Email   string
}

func (p Principal) HasAnyRole(roles ...Role) bool {
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}
