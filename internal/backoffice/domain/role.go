package domain

import "time"

// Role is a named, administrator-editable bundle of permissions. Roles with
// IsSystem set are seeded by the platform and reject edit and delete.
type Role struct {
	ID          string
	Name        string
	Description string
	IsSystem    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Permission is the unit of authorization: an opaque code like "roles.edit"
// plus a human description.
type Permission struct {
	ID          string
	Code        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Seeded role names.
const (
	RoleAdministrator = "Administrator"
	RoleMember        = "Member" // default role for provider-created accounts
)

// Permission codes known to the platform. The catalog is seeded at startup;
// administrators may add more through the permissions endpoints.
const (
	PermUsersView       = "users.view"
	PermUsersEdit       = "users.edit"
	PermRolesView       = "roles.view"
	PermRolesEdit       = "roles.edit"
	PermPermissionsView = "permissions.view"
	PermPermissionsEdit = "permissions.edit"
	PermSettingsView    = "settings.view"
	PermSettingsEdit    = "settings.edit"
	PermCoursesView     = "courses.view"
	PermCoursesEdit     = "courses.edit"
	PermMediaView       = "media.view"
	PermMediaEdit       = "media.edit"
	PermAuditView       = "audit.view"
)

// BuiltinPermissions is the seeded catalog, code -> description.
var BuiltinPermissions = map[string]string{
	PermUsersView:       "View platform users",
	PermUsersEdit:       "Create, update and deactivate users",
	PermRolesView:       "View roles and their permissions",
	PermRolesEdit:       "Create and edit roles and role permissions",
	PermPermissionsView: "View the permission catalog",
	PermPermissionsEdit: "Edit and delete permissions",
	PermSettingsView:    "View platform settings",
	PermSettingsEdit:    "Edit platform settings",
	PermCoursesView:     "View courses and categories",
	PermCoursesEdit:     "Edit courses and categories",
	PermMediaView:       "View the media library",
	PermMediaEdit:       "Manage the media library",
	PermAuditView:       "View the audit trail",
}
