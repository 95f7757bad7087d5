// Package authz defines the static role-permission model used across
// Meridian. Roles, resources and actions are closed enumerations so a typo
// in a lookup fails to compile instead of silently resolving to "denied".
package authz

// Role is one of the fixed identity classes.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleHR       Role = "hr"
	RoleEmployee Role = "employee"
)

// Valid reports whether the role belongs to the closed set.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleHR, RoleEmployee:
		return true
	}
	return false
}

// ParseRole converts a raw claim value into a Role. Unknown values map to
// the empty Role, which holds no permissions.
func ParseRole(raw string) Role {
	r := Role(raw)
	if !r.Valid() {
		return ""
	}
	return r
}

// Resource identifies a protected domain area.
type Resource string

const (
	ResourceAttendance    Resource = "attendance"
	ResourceLeave         Resource = "leave"
	ResourcePayroll       Resource = "payroll"
	ResourceEmployees     Resource = "employees"
	ResourceDocuments     Resource = "documents"
	ResourceReports       Resource = "reports"
	ResourceUsers         Resource = "users"
	ResourceSettings      Resource = "settings"
	ResourceNotifications Resource = "notifications"
)

// Action identifies an operation on a resource.
type Action string

const (
	ActionView     Action = "view"
	ActionViewAll  Action = "view_all"
	ActionCreate   Action = "create"
	ActionEdit     Action = "edit"
	ActionDelete   Action = "delete"
	ActionApprove  Action = "approve"
	ActionClock    Action = "clock"
	ActionRequest  Action = "request"
	ActionCancel   Action = "cancel"
	ActionUpload   Action = "upload"
	ActionGenerate Action = "generate"
	ActionExport   Action = "export"
	ActionManage   Action = "manage"
)

// Permission is a (resource, action) capability grant.
type Permission struct {
	Resource Resource
	Action   Action
}
