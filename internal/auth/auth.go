package auth

// Staff roles in increasing order of privilege
const (
	RoleVolunteer   = "volunteer"
	RoleCoordinator = "coordinator"
	RoleAdmin       = "admin"
)

// roleRanks maps each role to its privilege rank. Roles not present rank 0,
// so an unknown or empty role is denied everywhere.
var roleRanks = map[string]int{
	RoleVolunteer:   1,
	RoleCoordinator: 2,
	RoleAdmin:       3,
}

// Rank returns the privilege rank for a role, 0 for unknown roles
func Rank(role string) int {
	return roleRanks[role]
}

// AtLeast reports whether role carries at least the privileges of minRole.
// An unknown minRole is never satisfied.
func AtLeast(role, minRole string) bool {
	required, ok := roleRanks[minRole]
	if !ok {
		return false
	}
	return Rank(role) >= required
}

// Actor identifies the authenticated user making a request. It is resolved
// once per request from the session and passed explicitly to operations that
// need to record or check the acting user.
type Actor struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Active   bool   `json:"is_active"`
}

// IsAtLeast reports whether the actor holds minRole or higher
func (a *Actor) IsAtLeast(minRole string) bool {
	return AtLeast(a.Role, minRole)
}
