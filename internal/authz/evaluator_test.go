package authz

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSubject struct {
	role Role
}

func (s stubSubject) GetRole() Role { return s.role }

func TestHasPermissionHierarchy(t *testing.T) {
	cases := []struct {
		name     string
		role     Role
		resource Resource
		action   Action
		want     bool
	}{
		{"employee views own attendance", RoleEmployee, ResourceAttendance, ActionView, true},
		{"employee clocks in", RoleEmployee, ResourceAttendance, ActionClock, true},
		{"employee cannot view all attendance", RoleEmployee, ResourceAttendance, ActionViewAll, false},
		{"employee cannot approve leave", RoleEmployee, ResourceLeave, ActionApprove, false},
		{"employee cannot manage users", RoleEmployee, ResourceUsers, ActionManage, false},
		{"employee uploads document", RoleEmployee, ResourceDocuments, ActionUpload, true},
		{"hr inherits employee permission", RoleHR, ResourceAttendance, ActionClock, true},
		{"hr approves leave", RoleHR, ResourceLeave, ActionApprove, true},
		{"hr generates payroll", RoleHR, ResourcePayroll, ActionGenerate, true},
		{"hr cannot approve payroll", RoleHR, ResourcePayroll, ActionApprove, false},
		{"hr cannot delete employees", RoleHR, ResourceEmployees, ActionDelete, false},
		{"hr cannot manage settings", RoleHR, ResourceSettings, ActionManage, false},
		{"admin inherits hr permission", RoleAdmin, ResourceReports, ActionExport, true},
		{"admin inherits employee permission", RoleAdmin, ResourceLeave, ActionRequest, true},
		{"admin approves payroll", RoleAdmin, ResourcePayroll, ActionApprove, true},
		{"admin manages settings", RoleAdmin, ResourceSettings, ActionManage, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := HasPermission(stubSubject{role: tc.role}, tc.resource, tc.action)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestHasPermissionFailsClosed(t *testing.T) {
	assert.False(t, HasPermission(nil, ResourceAttendance, ActionView))
	assert.False(t, HasPermission(stubSubject{role: Role("manager")}, ResourceAttendance, ActionView))
	assert.False(t, HasPermission(stubSubject{role: ""}, ResourceAttendance, ActionView))
	assert.False(t, HasPermission(stubSubject{role: RoleAdmin}, Resource("unknown"), ActionView))
}

func TestRequirePermission(t *testing.T) {
	check := RequirePermission(ResourceLeave, ActionApprove)

	require.Nil(t, check(stubSubject{role: RoleHR}))

	apiErr := check(stubSubject{role: RoleEmployee})
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "Insufficient permissions", apiErr.Message)

	apiErr = check(nil)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
}

func TestRequireRole(t *testing.T) {
	check := RequireRole(RoleHR, RoleAdmin)

	require.Nil(t, check(stubSubject{role: RoleHR}))
	require.Nil(t, check(stubSubject{role: RoleAdmin}))

	apiErr := check(stubSubject{role: RoleEmployee})
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "Insufficient permissions", apiErr.Message)
}

func TestNamedPredicates(t *testing.T) {
	hr := stubSubject{role: RoleHR}
	admin := stubSubject{role: RoleAdmin}
	employee := stubSubject{role: RoleEmployee}

	assert.True(t, CanViewAllAttendance(hr))
	assert.False(t, CanViewAllAttendance(employee))

	assert.True(t, CanApproveLeave(hr))
	assert.False(t, CanApproveLeave(employee))

	assert.True(t, CanManageEmployees(hr))
	assert.True(t, CanGeneratePayroll(hr))
	assert.True(t, CanViewAllPayroll(hr))
	assert.True(t, CanExportReports(hr))

	assert.False(t, CanManageSettings(hr))
	assert.True(t, CanManageSettings(admin))
	assert.False(t, CanManageUsers(hr))
	assert.True(t, CanManageUsers(admin))
}

func TestPermissionsForUnknownRole(t *testing.T) {
	assert.Empty(t, PermissionsFor(Role("ghost")))
	assert.NotEmpty(t, PermissionsFor(RoleEmployee))
}
