package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"bugtrail/internal/config"
	audit_logs "bugtrail/internal/features/audit_logs"
	bugs "bugtrail/internal/features/bugs"
	integrations "bugtrail/internal/features/integrations"
	invitations "bugtrail/internal/features/invitations"
	members "bugtrail/internal/features/members"
	projects_controllers "bugtrail/internal/features/projects/controllers"
	projects_models "bugtrail/internal/features/projects/models"
	system_healthcheck "bugtrail/internal/features/system/healthcheck"
	users_controllers "bugtrail/internal/features/users/controllers"
	users_middleware "bugtrail/internal/features/users/middleware"
	users_models "bugtrail/internal/features/users/models"
	users_services "bugtrail/internal/features/users/services"
	widget "bugtrail/internal/features/widget"
	"bugtrail/internal/storage"
	cache_utils "bugtrail/internal/util/cache"
	env_utils "bugtrail/internal/util/env"
	"bugtrail/internal/util/logger"
	_ "bugtrail/swagger" // swagger docs

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title BugTrail API
// @version 1.0
// @description Multi-tenant bug tracking backend

// @host localhost:4010
// @BasePath /
// @schemes http
func main() {
	log := logger.GetLogger()

	setUpDependencies()

	cache_utils.TestCacheConnection()

	runMigrations(log)

	go generateSwaggerDocs(log)

	gin.SetMode(gin.ReleaseMode)
	ginApp := gin.Default()

	ginApp.Use(gzip.Gzip(
		gzip.DefaultCompression,
		// Don't compress already compressed files
		gzip.WithExcludedExtensions(
			[]string{".png", ".gif", ".jpeg", ".jpg", ".ico", ".svg", ".pdf", ".mp4"},
		),
	))

	enableCors(ginApp)
	setUpRoutes(ginApp)

	startServerWithGracefulShutdown(log, ginApp)
}

func setUpDependencies() {
	audit_logs.SetupDependencies()
	invitations.SetupDependencies()
	widget.SetupDependencies()
	integrations.SetupDependencies()
}

func setUpRoutes(r *gin.Engine) {
	root := r.Group("")

	// Mount Swagger UI
	root.GET("/docs/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	system_healthcheck.GetHealthcheckController().RegisterRoutes(root)

	userService := users_services.GetUserService()

	// Public routes: auth plus the unauthenticated widget gateway
	userController := users_controllers.GetAuthController()
	userController.RegisterRoutes(root)
	widget.GetWidgetController().RegisterPublicRoutes(root)
	invitations.GetInvitationController().RegisterPublicRoutes(root)

	// Reads on public projects work without a session, so these run
	// behind optional auth instead of the strict middleware.
	optionalAuth := r.Group("")
	optionalAuth.Use(users_middleware.OptionalAuthMiddleware(userService))
	projects_controllers.GetProjectController().RegisterPublicRoutes(optionalAuth)
	bugs.GetBugController().RegisterPublicRoutes(optionalAuth)

	// Protected routes
	protected := r.Group("")
	protected.Use(users_middleware.AuthMiddleware(userService))

	userController.RegisterProtectedRoutes(protected)
	projects_controllers.GetProjectController().RegisterRoutes(protected)
	members.GetMemberController().RegisterRoutes(protected)
	invitations.GetInvitationController().RegisterRoutes(protected)
	bugs.GetBugController().RegisterRoutes(protected)
	widget.GetWidgetController().RegisterRoutes(protected)
	integrations.GetIntegrationController().RegisterRoutes(protected)
}

func runMigrations(log *slog.Logger) {
	log.Info("Running database migrations...")

	err := storage.GetDb().AutoMigrate(
		&users_models.User{},
		&users_models.SecretKey{},
		&projects_models.Project{},
		&projects_models.ProjectMember{},
		&audit_logs.AuditLog{},
		&invitations.Invitation{},
		&members.AccessRequest{},
		&bugs.Bug{},
		&widget.WidgetToken{},
		&integrations.GithubIntegration{},
		&integrations.AgentConfig{},
	)
	if err != nil {
		log.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	log.Info("Database migrations completed successfully")
}

func enableCors(ginApp *gin.Engine) {
	corsConfig := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders: []string{
			"Origin",
			"Content-Length",
			"Content-Type",
			"Authorization",
			"Accept",
			"Accept-Language",
			"Accept-Encoding",
		},
		AllowCredentials: true,
	}

	if config.GetEnv().EnvMode == env_utils.EnvModeDevelopment {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	} else {
		// The app origin is always allowed. Everything else is decided
		// by the aggregated widget-origin snapshot so embedded widgets
		// can reach the gateway from customer sites.
		widgetService := widget.GetWidgetService()
		publicURL := config.GetEnv().PublicURL

		corsConfig.AllowOriginFunc = func(origin string) bool {
			if origin == publicURL {
				return true
			}

			return widgetService.IsKnownWidgetOrigin(origin)
		}
	}

	ginApp.Use(cors.New(corsConfig))
}

// Keep in mind: docs appear after second launch, because Swagger
// is generated into Go files. So if we changed files, we generate
// new docs, but still need to restart the server to see them.
func generateSwaggerDocs(log *slog.Logger) {
	if config.GetEnv().EnvMode == env_utils.EnvModeProduction {
		return
	}

	currentDir, err := os.Getwd()
	if err != nil {
		log.Error("Failed to get current directory", "error", err)
		return
	}

	cmd := exec.Command("swag", "init", "-d", currentDir, "-g", "cmd/main.go", "-o", "swagger")

	output, err := cmd.CombinedOutput()
	if err != nil {
		log.Error("Failed to generate Swagger docs", "error", err, "output", string(output))
		return
	}

	log.Info("Swagger documentation generated successfully")
}

func startServerWithGracefulShutdown(log *slog.Logger, app *gin.Engine) {
	host := ""
	if config.GetEnv().EnvMode == env_utils.EnvModeDevelopment {
		// for dev we use localhost to avoid firewall
		// requests on each run for Windows
		host = "127.0.0.1"
	}

	srv := &http.Server{
		Addr:    host + ":4010",
		Handler: app,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("listen:", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown:", "error", err)
	}

	log.Info("Server gracefully stopped")
}
