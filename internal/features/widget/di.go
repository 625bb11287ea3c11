package widget

import (
	"bugtrail/internal/cache"
	"bugtrail/internal/config"
	audit_logs "bugtrail/internal/features/audit_logs"
	bugs "bugtrail/internal/features/bugs"
	projects_services "bugtrail/internal/features/projects/services"
	cache_utils "bugtrail/internal/util/cache"
	rate_limit "bugtrail/internal/util/rate_limit"
)

var widgetRepository = &WidgetRepository{}

var widgetService = &WidgetService{
	widgetRepository:  widgetRepository,
	projectRepository: projects_services.GetProjectRepository(),
	accessService:     projects_services.GetAccessService(),
	bugService:        bugs.GetBugService(),
	auditLogService:   audit_logs.GetAuditLogService(),
	rateLimiter:       rate_limit.NewRateLimiter(),
	tokenCache:        cache_utils.NewCacheUtil[CachedWidgetToken](cache.GetCache(), "bt_widget:"),
}

var widgetController = &WidgetController{
	widgetService: widgetService,
	publicURL:     config.GetEnv().PublicURL,
}

func GetWidgetService() *WidgetService {
	return widgetService
}

func GetWidgetController() *WidgetController {
	return widgetController
}

// SetupDependencies registers the widget cleanup hook on project
// deletion.
func SetupDependencies() {
	projects_services.GetProjectService().AddProjectDeletionListener(widgetService)
}
