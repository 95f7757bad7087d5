package authz

import (
	"net/http"

	"github.com/meridian-hr/meridian/internal/platform/httpx"
)

// Subject is the minimal view of an authenticated user the evaluator needs.
type Subject interface {
	GetRole() Role
}

// HasPermission reports whether the role holds the exact (resource, action)
// pair. Unknown roles have no permissions, so the check fails closed.
func HasPermission(subject Subject, resource Resource, action Action) bool {
	if subject == nil {
		return false
	}
	set, ok := rolePermissions[subject.GetRole()]
	if !ok {
		return false
	}
	_, granted := set[Permission{Resource: resource, Action: action}]
	return granted
}

// Checker gates a subject against a pre-bound requirement. A nil result
// means the subject is authorized.
type Checker func(subject Subject) *httpx.APIError

// RequirePermission returns a checker bound to a single (resource, action)
// pair, usable inline in handlers.
func RequirePermission(resource Resource, action Action) Checker {
	return func(subject Subject) *httpx.APIError {
		if HasPermission(subject, resource, action) {
			return nil
		}
		return httpx.NewAPIError(http.StatusForbidden, "Insufficient permissions")
	}
}

// RequireRole returns a checker that passes only subjects whose role is in
// the allowed set.
func RequireRole(roles ...Role) Checker {
	allowed := make(map[Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(subject Subject) *httpx.APIError {
		if subject != nil {
			if _, ok := allowed[subject.GetRole()]; ok {
				return nil
			}
		}
		return httpx.NewAPIError(http.StatusForbidden, "Insufficient permissions")
	}
}

// Named predicates. New capabilities are added by declaration here, not by
// new logic.

// CanViewAllAttendance reports whether the subject may see every
// employee's attendance records.
func CanViewAllAttendance(subject Subject) bool {
	return HasPermission(subject, ResourceAttendance, ActionViewAll)
}

// CanApproveLeave reports whether the subject may approve or reject leave
// requests.
func CanApproveLeave(subject Subject) bool {
	return HasPermission(subject, ResourceLeave, ActionApprove)
}

// CanManageEmployees reports whether the subject may create or edit
// employee records.
func CanManageEmployees(subject Subject) bool {
	return HasPermission(subject, ResourceEmployees, ActionEdit)
}

// CanGeneratePayroll reports whether the subject may start a payroll run.
func CanGeneratePayroll(subject Subject) bool {
	return HasPermission(subject, ResourcePayroll, ActionGenerate)
}

// CanViewAllPayroll reports whether the subject may see every payslip.
func CanViewAllPayroll(subject Subject) bool {
	return HasPermission(subject, ResourcePayroll, ActionViewAll)
}

// CanExportReports reports whether the subject may export report data.
func CanExportReports(subject Subject) bool {
	return HasPermission(subject, ResourceReports, ActionExport)
}

// CanManageSettings reports whether the subject may change system settings.
func CanManageSettings(subject Subject) bool {
	return HasPermission(subject, ResourceSettings, ActionManage)
}

// CanManageUsers reports whether the subject may administer user accounts.
func CanManageUsers(subject Subject) bool {
	return HasPermission(subject, ResourceUsers, ActionManage)
}
