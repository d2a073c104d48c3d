package user

type Permission string

const (
	// Leave Management
	PermissionLeaveViewOwn       Permission = "leave.view_own"
	PermissionLeaveCreate        Permission = "leave.create"
	PermissionLeaveViewAll       Permission = "leave.view_all"
	PermissionLeaveApprove       Permission = "leave.approve"
	PermissionLeaveManageBalance Permission = "leave.manage_balance"

	// Attendance Management
	PermissionAttendanceViewOwn Permission = "attendance.view_own"
	PermissionAttendanceCreate  Permission = "attendance.create"
	PermissionAttendanceViewAll Permission = "attendance.view_all"
	PermissionAttendanceApprove Permission = "attendance.approve"

	// Employee Management
	PermissionEmployeeViewAll Permission = "employee.view_all"
	PermissionEmployeeManage  Permission = "employee.manage"

	// Shift Management
	PermissionShiftManage Permission = "shift.manage"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		PermissionLeaveViewOwn,
		PermissionLeaveCreate,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionLeaveManageBalance,
		PermissionAttendanceViewOwn,
		PermissionAttendanceCreate,
		PermissionAttendanceViewAll,
		PermissionAttendanceApprove,
		PermissionEmployeeViewAll,
		PermissionEmployeeManage,
		PermissionShiftManage,
	},
	RoleManager: {
		// Manager can approve and view team data
		PermissionLeaveViewOwn,
		PermissionLeaveCreate,
		PermissionLeaveViewAll,
		PermissionLeaveApprove,
		PermissionAttendanceViewOwn,
		PermissionAttendanceCreate,
		PermissionAttendanceViewAll,
		PermissionAttendanceApprove,
		PermissionEmployeeViewAll,
	},
	RoleEmployee: {
		PermissionLeaveViewOwn,
		PermissionLeaveCreate,
		PermissionAttendanceViewOwn,
		PermissionAttendanceCreate,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, ok := RolePermissions[role]
	if !ok {
		return false
	}
	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}
