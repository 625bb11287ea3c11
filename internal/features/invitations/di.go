package invitations

import (
	audit_logs "bugtrail/internal/features/audit_logs"
	notifications_services "bugtrail/internal/features/notifications/services"
	projects_services "bugtrail/internal/features/projects/services"
	users_services "bugtrail/internal/features/users/services"
)

var invitationRepository = &InvitationRepository{}

var invitationService = &InvitationService{
	invitationRepository,
	projects_services.GetMemberRepository(),
	audit_logs.GetAuditLogService(),
	notifications_services.GetDispatcher(),
}

var invitationController = &InvitationController{invitationService}

func GetInvitationService() *InvitationService {
	return invitationService
}

func GetInvitationController() *InvitationController {
	return invitationController
}

// SetupDependencies wires invitation auto-acceptance into the signup
// flow without the users feature importing this package.
func SetupDependencies() {
	users_services.GetUserService().SetInvitationAcceptor(invitationService)
}
