package users_enums

type ProjectRole string

const (
	ProjectRoleViewer ProjectRole = "VIEWER"
	ProjectRoleMember ProjectRole = "MEMBER"
	ProjectRoleAdmin  ProjectRole = "ADMIN"
)

// IsValid validates the ProjectRole
func (r ProjectRole) IsValid() bool {
	switch r {
	case ProjectRoleViewer, ProjectRoleMember, ProjectRoleAdmin:
		return true
	default:
		return false
	}
}

// Level maps a membership role onto the ordered permission scale.
func (r ProjectRole) Level() PermissionLevel {
	switch r {
	case ProjectRoleViewer:
		return PermissionRead
	case ProjectRoleMember:
		return PermissionWrite
	case ProjectRoleAdmin:
		return PermissionAdmin
	default:
		return PermissionNone
	}
}
