package users_interfaces

import (
	users_models "bugtrail/internal/features/users/models"

	"github.com/google/uuid"
)

type AuditLogWriter interface {
	WriteAuditLog(message string, userID *uuid.UUID, projectID *uuid.UUID)
}

// InvitationAcceptor converts pending invitations matching a freshly
// registered email into memberships. Wired in by the invitations
// feature to avoid an import cycle.
type InvitationAcceptor interface {
	AcceptPendingForUser(user *users_models.User) (int, error)
}
