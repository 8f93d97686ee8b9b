// Package auth defines the role model and the static role-permission table.
// The table is process-wide configuration: it is built once at package init
// and never mutated at runtime.
package auth

// Role values stored on the users table and embedded in session tokens.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// Actions a role may be granted on content and user resources.
const (
	ActionRead        = "read"
	ActionWrite       = "write"
	ActionDelete      = "delete"
	ActionPublish     = "publish"
	ActionArchive     = "archive"
	ActionManageUsers = "manage_users"
)

// rolePermissions maps each role to its allowed-actions set.  The map value
// is a boolean and is always true when present.
var rolePermissions = map[string]map[string]bool{
	RoleAdmin: {
		ActionRead:        true,
		ActionWrite:       true,
		ActionDelete:      true,
		ActionPublish:     true,
		ActionArchive:     true,
		ActionManageUsers: true,
	},
	RoleEditor: {
		ActionRead:    true,
		ActionWrite:   true,
		ActionPublish: true,
		ActionArchive: true,
	},
	RoleViewer: {
		ActionRead: true,
	},
}

// HasPermission reports whether the given role is allowed to perform the
// given action.  Unknown roles and unknown actions are never allowed.
func HasPermission(role, action string) bool {
	return rolePermissions[role][action]
}

// ValidRole reports whether role is one of the enumerated role values.
func ValidRole(role string) bool {
	_, ok := rolePermissions[role]
	return ok
}
