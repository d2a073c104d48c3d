package user

type Role string

const (
	RoleAdmin    Role = "admin"    // HR administrator - full access
	RoleManager  Role = "manager"  // Can approve leave/attendance
	RoleEmployee Role = "employee" // Regular employee
)

var RoleValues = []string{
	string(RoleAdmin),
	string(RoleManager),
	string(RoleEmployee),
}

// Actor is the authenticated caller of a request, taken from the access token.
type Actor struct {
	UserID     string
	EmployeeID string
	Role       Role
}

// IsApprover checks if the actor may approve leave and attendance.
func (a Actor) IsApprover() bool {
	return HasPermission(a.Role, PermissionLeaveApprove)
}

func (a Actor) Can(permission Permission) bool {
	return HasPermission(a.Role, permission)
}
