package bugs

import (
	audit_logs "bugtrail/internal/features/audit_logs"
	notifications_services "bugtrail/internal/features/notifications/services"
	projects_services "bugtrail/internal/features/projects/services"
	users_services "bugtrail/internal/features/users/services"
)

var bugRepository = &BugRepository{}

var bugService = &BugService{
	bugRepository:   bugRepository,
	projectService:  projects_services.GetProjectService(),
	accessService:   projects_services.GetAccessService(),
	userService:     users_services.GetUserService(),
	auditLogService: audit_logs.GetAuditLogService(),
	dispatcher:      notifications_services.GetDispatcher(),
}

var bugController = &BugController{bugService}

func GetBugService() *BugService {
	return bugService
}

func GetBugController() *BugController {
	return bugController
}
