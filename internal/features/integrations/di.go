package integrations

import (
	"net/http"
	"time"

	audit_logs "bugtrail/internal/features/audit_logs"
	bugs "bugtrail/internal/features/bugs"
	projects_services "bugtrail/internal/features/projects/services"
	users_repositories "bugtrail/internal/features/users/repositories"
)

var integrationRepository = &IntegrationRepository{}

var integrationService = &IntegrationService{
	integrationRepository: integrationRepository,
	projectRepository:     projects_services.GetProjectRepository(),
	accessService:         projects_services.GetAccessService(),
	secretKeyRepository:   &users_repositories.SecretKeyRepository{},
	auditLogService:       audit_logs.GetAuditLogService(),
	httpClient:            &http.Client{Timeout: githubDispatchTimeout + time.Second},
	githubAPIBase:         "https://api.github.com",
}

var integrationController = &IntegrationController{integrationService}

func GetIntegrationService() *IntegrationService {
	return integrationService
}

func GetIntegrationController() *IntegrationController {
	return integrationController
}

// SetupDependencies wires the GitHub status sync into bug lifecycle
// transitions.
func SetupDependencies() {
	bugs.GetBugService().SetLabelSyncer(integrationService)
}
