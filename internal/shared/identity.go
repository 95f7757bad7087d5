package shared

import "github.com/meridian-hr/meridian/internal/authz"

// Identity is the authenticated user derived per request from the session
// token. It is never cached across requests.
type Identity struct {
	ID        int64
	Email     string
	Role      authz.Role
	FirstName string
	LastName  string
}

// GetRole implements authz.Subject.
func (i *Identity) GetRole() authz.Role {
	if i == nil {
		return ""
	}
	return i.Role
}

// FullName returns the display name for page rendering.
func (i *Identity) FullName() string {
	if i == nil {
		return ""
	}
	if i.FirstName == "" {
		return i.LastName
	}
	if i.LastName == "" {
		return i.FirstName
	}
	return i.FirstName + " " + i.LastName
}
