package authz

import "strings"

// RouteRule restricts a path prefix to a set of roles.
type RouteRule struct {
	Prefix string
	Roles  []Role
}

// Allows reports whether the role may enter the rule's prefix.
func (rr RouteRule) Allows(role Role) bool {
	for _, r := range rr.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// publicPrefixes are exempt from authentication entirely. Everything else
// is protected: a new section added without a rule here requires a login,
// never the reverse.
var publicPrefixes = []string{
	"/auth/login",
	"/auth/register",
	"/api/auth/login",
	"/api/auth/register",
	"/api/auth/logout",
	"/healthz",
	"/metrics",
	"/static",
}

// routeRules gate whole sections by role. Declaration order matters: the
// first matching prefix wins, so more specific prefixes must come first.
var routeRules = []RouteRule{
	{Prefix: "/api/employees", Roles: []Role{RoleHR, RoleAdmin}},
	{Prefix: "/api/reports", Roles: []Role{RoleHR, RoleAdmin}},
	{Prefix: "/api/users", Roles: []Role{RoleHR, RoleAdmin}},
	{Prefix: "/employees", Roles: []Role{RoleHR, RoleAdmin}},
	{Prefix: "/reports", Roles: []Role{RoleHR, RoleAdmin}},
	{Prefix: "/settings", Roles: []Role{RoleAdmin}},
}

// IsPublicPath reports whether the path is exempt from authentication.
func IsPublicPath(path string) bool {
	for _, prefix := range publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// MatchRouteRule returns the first declared rule whose prefix matches the
// path, or nil when the path carries no role restriction.
func MatchRouteRule(path string) *RouteRule {
	for i := range routeRules {
		if strings.HasPrefix(path, routeRules[i].Prefix) {
			return &routeRules[i]
		}
	}
	return nil
}
