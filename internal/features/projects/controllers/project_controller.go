package projects_controllers

import (
	"errors"
	"net/http"
	"strconv"

	projects_dto "bugtrail/internal/features/projects/dto"
	projects_services "bugtrail/internal/features/projects/services"
	users_middleware "bugtrail/internal/features/users/middleware"
	"bugtrail/internal/util/apierror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProjectController struct {
	projectService *projects_services.ProjectService
}

func (c *ProjectController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/projects", c.ListMine)
	router.POST("/projects", c.Create)
	router.PUT("/projects/:id", c.Update)
	router.DELETE("/projects/:id", c.Delete)
	router.GET("/projects/:slug/audit", c.GetAuditLogs)
}

// RegisterPublicRoutes mounts reads that anonymous callers may perform
// on public projects. They run behind the optional-auth middleware.
func (c *ProjectController) RegisterPublicRoutes(router *gin.RouterGroup) {
	router.GET("/projects/public", c.ListPublic)
	router.GET("/projects/:slug", c.GetBySlug)
}

// ListMine
// @Summary List projects the caller owns or is a member of
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Success 200 {object} projects_dto.ListProjectsResponseDTO
// @Failure 401 {object} map[string]string
// @Router /projects [get]
func (c *ProjectController) ListMine(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	response, err := c.projectService.GetUserProjects(user)
	if err != nil {
		apierror.Internal(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// ListPublic
// @Summary List public projects
// @Tags projects
// @Produce json
// @Success 200 {object} projects_dto.ListProjectsResponseDTO
// @Router /projects/public [get]
func (c *ProjectController) ListPublic(ctx *gin.Context) {
	response, err := c.projectService.GetPublicProjects()
	if err != nil {
		apierror.Internal(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// GetBySlug
// @Summary Get a project by slug
// @Description Public projects are readable without a session
// @Tags projects
// @Produce json
// @Param slug path string true "Project slug"
// @Success 200 {object} projects_models.Project
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /projects/{slug} [get]
func (c *ProjectController) GetBySlug(ctx *gin.Context) {
	user, _ := users_middleware.GetUserFromContext(ctx)

	project, err := c.projectService.GetProjectBySlug(ctx.Param("slug"), user)
	if err != nil {
		switch {
		case errors.Is(err, projects_services.ErrProjectNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, projects_services.ErrViewForbidden):
			ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			apierror.Internal(ctx, err)
		}
		return
	}

	ctx.JSON(http.StatusOK, project)
}

// Create
// @Summary Create a project
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body projects_dto.CreateProjectRequestDTO true "Project data"
// @Success 201 {object} projects_dto.ProjectResponseDTO
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Router /projects [post]
func (c *ProjectController) Create(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request projects_dto.CreateProjectRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		apierror.Validation(ctx, err)
		return
	}

	response, err := c.projectService.CreateProject(&request, user)
	if err != nil {
		apierror.Internal(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, response)
}

// Update
// @Summary Update project fields (owner only)
// @Tags projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Param request body projects_dto.UpdateProjectRequestDTO true "Fields to update"
// @Success 200 {object} projects_models.Project
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /projects/{id} [put]
func (c *ProjectController) Update(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var request projects_dto.UpdateProjectRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		apierror.Validation(ctx, err)
		return
	}

	project, err := c.projectService.UpdateProject(projectID, &request, user)
	if err != nil {
		switch {
		case errors.Is(err, projects_services.ErrProjectNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, projects_services.ErrOnlyOwnerCanUpdate):
			ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			apierror.Internal(ctx, err)
		}
		return
	}

	ctx.JSON(http.StatusOK, project)
}

// Delete
// @Summary Delete a project and everything attached to it (owner only)
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param id path string true "Project ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /projects/{id} [delete]
func (c *ProjectController) Delete(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	if err := c.projectService.DeleteProject(projectID, user); err != nil {
		switch {
		case errors.Is(err, projects_services.ErrProjectNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, projects_services.ErrOnlyOwnerCanDelete):
			ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			apierror.Internal(ctx, err)
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Project deleted successfully"})
}

// GetAuditLogs
// @Summary List recent audit log entries for a project (admins and the owner)
// @Tags projects
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Project slug"
// @Param limit query int false "Maximum entries to return" default(100)
// @Param offset query int false "Entries to skip" default(0)
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /projects/{slug}/audit [get]
func (c *ProjectController) GetAuditLogs(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	limit := 100
	if raw := ctx.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 500 {
			limit = parsed
		}
	}

	offset := 0
	if raw := ctx.Query("offset"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	logs, err := c.projectService.GetProjectAuditLogs(ctx.Param("slug"), user, limit, offset)
	if err != nil {
		switch {
		case errors.Is(err, projects_services.ErrProjectNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, projects_services.ErrViewForbidden):
			ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			apierror.Internal(ctx, err)
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"auditLogs": logs})
}
