// Package domain holds the identity primitives shared across the pipeline.
package domain

import "strings"

// Role classifies what a request is allowed to do. The set is closed:
// anything unrecognized degrades to RoleExternal, never to a broader role.
type Role string

const (
	RoleHR       Role = "hr"
	RoleManager  Role = "manager"
	RoleSecurity Role = "security"
	RoleExternal Role = "external"
)

// Roles lists every known role.
var Roles = []Role{RoleHR, RoleManager, RoleSecurity, RoleExternal}

// ParseRole maps a raw header or claim value onto the closed role set.
// Unknown or empty input returns RoleExternal.
func ParseRole(raw string) Role {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleHR:
		return RoleHR
	case RoleManager:
		return RoleManager
	case RoleSecurity:
		return RoleSecurity
	default:
		return RoleExternal
	}
}

// AuthContext is the per-request identity produced by the identity resolver.
// It lives in the request context for the duration of one request and is
// never persisted.
type AuthContext struct {
	Role      Role
	UserID    string
	CompanyID string
}

// Anonymous is the identity attached to public routes and unauthenticated
// demo requests before any header is inspected.
func Anonymous() AuthContext {
	return AuthContext{Role: RoleExternal}
}
