package members

import (
	audit_logs "bugtrail/internal/features/audit_logs"
	invitations "bugtrail/internal/features/invitations"
	notifications_services "bugtrail/internal/features/notifications/services"
	projects_services "bugtrail/internal/features/projects/services"
	users_services "bugtrail/internal/features/users/services"
)

var accessRequestRepository = &AccessRequestRepository{}

var memberService = &MemberService{
	projects_services.GetMemberRepository(),
	accessRequestRepository,
	projects_services.GetProjectService(),
	projects_services.GetAccessService(),
	users_services.GetUserService(),
	invitations.GetInvitationService(),
	audit_logs.GetAuditLogService(),
	notifications_services.GetDispatcher(),
}

var memberController = &MemberController{memberService}

func GetMemberService() *MemberService {
	return memberService
}

func GetMemberController() *MemberController {
	return memberController
}
