package projects_services

import (
	audit_logs "bugtrail/internal/features/audit_logs"
	projects_interfaces "bugtrail/internal/features/projects/interfaces"
	projects_repositories "bugtrail/internal/features/projects/repositories"
)

var projectRepository = &projects_repositories.ProjectRepository{}
var memberRepository = &projects_repositories.MemberRepository{}

var accessService = NewAccessService(memberRepository)

var projectService = &ProjectService{
	projectRepository,
	memberRepository,
	accessService,
	audit_logs.GetAuditLogService(),
	[]projects_interfaces.ProjectDeletionListener{},
}

func GetProjectService() *ProjectService {
	return projectService
}

func GetAccessService() *AccessService {
	return accessService
}

func GetProjectRepository() *projects_repositories.ProjectRepository {
	return projectRepository
}

func GetMemberRepository() *projects_repositories.MemberRepository {
	return memberRepository
}
