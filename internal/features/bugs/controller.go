package bugs

import (
	"errors"
	"net/http"

	users_middleware "bugtrail/internal/features/users/middleware"
	"bugtrail/internal/util/apierror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type BugController struct {
	bugService *BugService
}

// RegisterPublicRoutes mounts the read endpoints behind optional auth
// so anonymous callers can browse public projects.
func (c *BugController) RegisterPublicRoutes(router *gin.RouterGroup) {
	router.GET("/bugs/project/:projectId", c.ListProjectBugs)
	router.GET("/bugs/:id", c.GetBug)
}

func (c *BugController) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/bugs", c.CreateBug)
	router.PUT("/bugs/:id", c.UpdateBug)
	router.PATCH("/bugs/:id/status", c.ChangeStatus)
	router.DELETE("/bugs/:id", c.DeleteBug)
}

func (c *BugController) respondBugError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrBugNotFound), errors.Is(err, ErrProjectNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrViewForbidden),
		errors.Is(err, ErrCreateForbidden),
		errors.Is(err, ErrEditForbidden),
		errors.Is(err, ErrDeleteForbidden):
		ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, ErrInvalidPriority),
		errors.Is(err, ErrInvalidStatus),
		errors.Is(err, ErrInvalidSource):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		apierror.Internal(ctx, err)
	}
}

// ListProjectBugs
// @Summary List bugs in a project
// @Tags bugs
// @Produce json
// @Param projectId path string true "Project ID"
// @Success 200 {object} ListBugsResponseDTO
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bugs/project/{projectId} [get]
func (c *BugController) ListProjectBugs(ctx *gin.Context) {
	user, _ := users_middleware.GetUserFromContext(ctx)

	projectID, err := uuid.Parse(ctx.Param("projectId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	response, err := c.bugService.ListProjectBugs(projectID, user)
	if err != nil {
		c.respondBugError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// GetBug
// @Summary Get a single bug
// @Tags bugs
// @Produce json
// @Param id path string true "Bug ID"
// @Success 200 {object} Bug
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bugs/{id} [get]
func (c *BugController) GetBug(ctx *gin.Context) {
	user, _ := users_middleware.GetUserFromContext(ctx)

	bugID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bug ID"})
		return
	}

	bug, err := c.bugService.GetBug(bugID, user)
	if err != nil {
		c.respondBugError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, bug)
}

// CreateBug
// @Summary Report a bug
// @Tags bugs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateBugRequestDTO true "Bug data"
// @Success 201 {object} Bug
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /bugs [post]
func (c *BugController) CreateBug(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request CreateBugRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		apierror.Validation(ctx, err)
		return
	}

	bug, err := c.bugService.CreateBug(&request, user)
	if err != nil {
		c.respondBugError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, bug)
}

// UpdateBug
// @Summary Update a bug
// @Description Writers may edit any bug, reporters may always edit their own
// @Tags bugs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Bug ID"
// @Param request body UpdateBugRequestDTO true "Fields to update"
// @Success 200 {object} Bug
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bugs/{id} [put]
func (c *BugController) UpdateBug(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	bugID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bug ID"})
		return
	}

	var request UpdateBugRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		apierror.Validation(ctx, err)
		return
	}

	bug, err := c.bugService.UpdateBug(bugID, &request, user)
	if err != nil {
		c.respondBugError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, bug)
}

// ChangeStatus
// @Summary Move a bug to another lifecycle status
// @Tags bugs
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Bug ID"
// @Param request body ChangeStatusRequestDTO true "New status"
// @Success 200 {object} Bug
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /bugs/{id}/status [patch]
func (c *BugController) ChangeStatus(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	bugID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bug ID"})
		return
	}

	var request ChangeStatusRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		apierror.Validation(ctx, err)
		return
	}

	bug, err := c.bugService.ChangeStatus(bugID, request.Status, user)
	if err != nil {
		c.respondBugError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, bug)
}

// DeleteBug
// @Summary Delete a bug
// @Description Admins, the owner, or the bug's reporter
// @Tags bugs
// @Produce json
// @Security BearerAuth
// @Param id path string true "Bug ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /bugs/{id} [delete]
func (c *BugController) DeleteBug(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	bugID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid bug ID"})
		return
	}

	if err := c.bugService.DeleteBug(bugID, user); err != nil {
		c.respondBugError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Bug deleted successfully"})
}
