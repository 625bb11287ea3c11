package widget

import (
	"errors"
	"net/http"
	"regexp"

	bugs "bugtrail/internal/features/bugs"
	users_middleware "bugtrail/internal/features/users/middleware"
	"bugtrail/internal/util/apierror"

	"github.com/gin-gonic/gin"
)

type WidgetController struct {
	widgetService *WidgetService
	publicURL     string
}

var tokenPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// RegisterPublicRoutes mounts the unauthenticated gateway: the config
// lookup, the external bug submission, and the embeddable script.
func (c *WidgetController) RegisterPublicRoutes(router *gin.RouterGroup) {
	router.GET("/widget/embed.js", c.EmbedScript)
	router.GET("/widget/:token/config", c.GetConfig)
	router.POST("/widget/:token/bugs", c.CreateBug)
}

func (c *WidgetController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/widget/settings/:slug", c.GetSettings)
	router.POST("/widget/settings/:slug/generate", c.GenerateToken)
	router.PUT("/widget/settings/:slug", c.UpdateSettings)
	router.DELETE("/widget/settings/:slug", c.DeleteWidget)
}

func (c *WidgetController) respondWidgetError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrProjectNotFound),
		errors.Is(err, ErrWidgetNotConfigured):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrOriginNotAllowed), errors.Is(err, ErrManageForbidden):
		ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, ErrRateLimited):
		ctx.JSON(http.StatusTooManyRequests, gin.H{"error": err.Error()})
	case errors.Is(err, bugs.ErrInvalidPriority), errors.Is(err, bugs.ErrInvalidSource):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		apierror.Internal(ctx, err)
	}
}

// requestOrigin prefers the Origin header and falls back to Referer,
// mirroring what browsers actually send on cross-site fetches.
func requestOrigin(ctx *gin.Context) string {
	if origin := ctx.GetHeader("Origin"); origin != "" {
		return origin
	}

	return ctx.GetHeader("Referer")
}

// GetConfig
// @Summary Resolve a widget token into its project
// @Tags widget
// @Produce json
// @Param token path string true "Widget token"
// @Success 200 {object} WidgetConfigResponseDTO
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /widget/{token}/config [get]
func (c *WidgetController) GetConfig(ctx *gin.Context) {
	config, err := c.widgetService.GetConfig(ctx.Param("token"), requestOrigin(ctx))
	if err != nil {
		c.respondWidgetError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, config)
}

// CreateBug
// @Summary Report a bug through the widget
// @Description The only authentication-free write path, gated by token and origin
// @Tags widget
// @Accept json
// @Produce json
// @Param token path string true "Widget token"
// @Param request body bugs.CreateExternalBugRequestDTO true "Bug data"
// @Success 201 {object} bugs.Bug
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /widget/{token}/bugs [post]
func (c *WidgetController) CreateBug(ctx *gin.Context) {
	var request bugs.CreateExternalBugRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		apierror.Validation(ctx, err)
		return
	}

	bug, err := c.widgetService.CreateWidgetBug(ctx.Param("token"), requestOrigin(ctx), &request)
	if err != nil {
		c.respondWidgetError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, bug)
}

// EmbedScript
// @Summary Serve the embeddable widget script
// @Tags widget
// @Produce plain
// @Param token query string true "Widget token"
// @Success 200 {string} string
// @Failure 400 {object} map[string]string
// @Router /widget/embed.js [get]
func (c *WidgetController) EmbedScript(ctx *gin.Context) {
	token := ctx.Query("token")
	if token == "" || !tokenPattern.MatchString(token) {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Missing or malformed token parameter"})
		return
	}

	ctx.Header("Cache-Control", "public, max-age=300")
	ctx.Data(http.StatusOK, "application/javascript; charset=utf-8",
		[]byte(renderEmbedScript(c.publicURL, token)))
}

// GetSettings
// @Summary Get the widget configuration for a project
// @Tags widget
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Project slug"
// @Success 200 {object} WidgetToken
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /widget/settings/{slug} [get]
func (c *WidgetController) GetSettings(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	widgetToken, err := c.widgetService.GetSettings(ctx.Param("slug"), user)
	if err != nil {
		c.respondWidgetError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, widgetToken)
}

// GenerateToken
// @Summary Create or regenerate the widget token
// @Description Regeneration invalidates the previous token immediately
// @Tags widget
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Project slug"
// @Success 200 {object} WidgetToken
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /widget/settings/{slug}/generate [post]
func (c *WidgetController) GenerateToken(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	widgetToken, err := c.widgetService.GenerateToken(ctx.Param("slug"), user)
	if err != nil {
		c.respondWidgetError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, widgetToken)
}

// UpdateSettings
// @Summary Update the widget origin allowlist or enabled flag
// @Tags widget
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Project slug"
// @Param request body UpdateWidgetRequestDTO true "Fields to update"
// @Success 200 {object} WidgetToken
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /widget/settings/{slug} [put]
func (c *WidgetController) UpdateSettings(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request UpdateWidgetRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		apierror.Validation(ctx, err)
		return
	}

	widgetToken, err := c.widgetService.UpdateSettings(ctx.Param("slug"), &request, user)
	if err != nil {
		c.respondWidgetError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, widgetToken)
}

// DeleteWidget
// @Summary Remove the widget configuration
// @Tags widget
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Project slug"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /widget/settings/{slug} [delete]
func (c *WidgetController) DeleteWidget(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := c.widgetService.DeleteWidget(ctx.Param("slug"), user); err != nil {
		c.respondWidgetError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Widget deleted successfully"})
}
