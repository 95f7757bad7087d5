package authz

// rolePermissions is the authorization source of truth: role -> granted
// (resource, action) pairs. Built once at init and read-only afterwards,
// so unsynchronized concurrent reads are safe.
var rolePermissions map[Role]map[Permission]struct{}

func init() {
	employee := []Permission{
		{ResourceAttendance, ActionView},
		{ResourceAttendance, ActionClock},
		{ResourceLeave, ActionView},
		{ResourceLeave, ActionRequest},
		{ResourceLeave, ActionCancel},
		{ResourcePayroll, ActionView},
		{ResourceDocuments, ActionView},
		{ResourceDocuments, ActionUpload},
		{ResourceNotifications, ActionView},
	}

	hr := append([]Permission{
		{ResourceAttendance, ActionViewAll},
		{ResourceAttendance, ActionEdit},
		{ResourceLeave, ActionViewAll},
		{ResourceLeave, ActionApprove},
		{ResourcePayroll, ActionViewAll},
		{ResourcePayroll, ActionGenerate},
		{ResourceEmployees, ActionView},
		{ResourceEmployees, ActionViewAll},
		{ResourceEmployees, ActionCreate},
		{ResourceEmployees, ActionEdit},
		{ResourceDocuments, ActionViewAll},
		{ResourceReports, ActionView},
		{ResourceReports, ActionExport},
		{ResourceUsers, ActionView},
	}, employee...)

	admin := append([]Permission{
		{ResourceEmployees, ActionDelete},
		{ResourceDocuments, ActionDelete},
		{ResourcePayroll, ActionApprove},
		{ResourceUsers, ActionManage},
		{ResourceSettings, ActionView},
		{ResourceSettings, ActionManage},
	}, hr...)

	rolePermissions = map[Role]map[Permission]struct{}{
		RoleEmployee: permissionSet(employee),
		RoleHR:       permissionSet(hr),
		RoleAdmin:    permissionSet(admin),
	}
}

func permissionSet(perms []Permission) map[Permission]struct{} {
	set := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		set[p] = struct{}{}
	}
	return set
}

// PermissionsFor returns a copy of the permission set granted to a role.
// An unknown role yields an empty set.
func PermissionsFor(role Role) []Permission {
	set := rolePermissions[role]
	perms := make([]Permission, 0, len(set))
	for p := range set {
		perms = append(perms, p)
	}
	return perms
}
