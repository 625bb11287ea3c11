package users_enums

// PermissionLevel is the ordered outcome of evaluating a user's
// relationship to a project. Every gate in the system compares
// against this scale.
type PermissionLevel int

const (
	PermissionNone PermissionLevel = iota
	PermissionRead
	PermissionWrite
	PermissionAdmin
	PermissionOwner
)

func (l PermissionLevel) String() string {
	switch l {
	case PermissionRead:
		return "READ"
	case PermissionWrite:
		return "WRITE"
	case PermissionAdmin:
		return "ADMIN"
	case PermissionOwner:
		return "OWNER"
	default:
		return "NONE"
	}
}

func (l PermissionLevel) AtLeast(required PermissionLevel) bool {
	return l >= required
}
