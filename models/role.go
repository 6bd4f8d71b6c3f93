package models

// Role is a membership role in a tenant or project scope.
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleOwner      Role = "OWNER"
	RoleAdmin      Role = "ADMIN"
	RoleMember     Role = "MEMBER"
	RoleViewer     Role = "VIEWER"
)

// roleRanks orders roles by authority. Unknown roles rank zero, below every
// real role.
var roleRanks = map[Role]int{
	RoleSuperAdmin: 6,
	RoleOwner:      5,
	RoleAdmin:      4,
	RoleMember:     3,
	RoleViewer:     2,
}

// Rank returns the role's authority level; zero for unknown roles.
func (r Role) Rank() int {
	return roleRanks[r]
}

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	return roleRanks[r] > 0
}

// ParseRole parses a role string, rejecting unknown values.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

// HasMinimumRole reports whether held carries at least the authority of
// required.
func HasMinimumRole(held, required Role) bool {
	return held.Rank() >= required.Rank()
}

// CanManage reports whether manager may change or remove a member holding
// target. Super admins manage everyone below them; nobody manages a super
// admin; between ordinary roles the manager must strictly outrank the
// target. Equal ranks cannot manage each other, so two OWNERs cannot demote
// one another.
func CanManage(manager, target Role) bool {
	if target == RoleSuperAdmin {
		return false
	}
	if manager == RoleSuperAdmin {
		return true
	}
	return manager.Rank() > target.Rank()
}

// AssignableRoles lists the roles a membership or invitation may carry.
// SUPER_ADMIN is a user flag, never a membership role.
func AssignableRoles() []Role {
	return []Role{RoleOwner, RoleAdmin, RoleMember, RoleViewer}
}
