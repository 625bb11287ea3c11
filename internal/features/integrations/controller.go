package integrations

import (
	"errors"
	"net/http"

	users_middleware "bugtrail/internal/features/users/middleware"
	"bugtrail/internal/util/apierror"

	"github.com/gin-gonic/gin"
)

type IntegrationController struct {
	integrationService *IntegrationService
}

func (c *IntegrationController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/integrations/:slug", c.GetIntegrations)
	router.PUT("/integrations/:slug/github", c.UpsertGithub)
	router.DELETE("/integrations/:slug/github", c.DeleteGithub)
	router.PUT("/integrations/:slug/agent", c.UpsertAgent)
}

func (c *IntegrationController) respondIntegrationError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrProjectNotFound), errors.Is(err, ErrIntegrationNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrManageForbidden):
		ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		apierror.Internal(ctx, err)
	}
}

// GetIntegrations
// @Summary Get integration settings for a project
// @Tags integrations
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Project slug"
// @Success 200 {object} IntegrationsResponseDTO
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /integrations/{slug} [get]
func (c *IntegrationController) GetIntegrations(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	response, err := c.integrationService.GetIntegrations(ctx.Param("slug"), user)
	if err != nil {
		c.respondIntegrationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// UpsertGithub
// @Summary Link a GitHub repository to a project
// @Tags integrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Project slug"
// @Param request body UpsertGithubIntegrationRequestDTO true "Repository and token"
// @Success 200 {object} GithubIntegration
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /integrations/{slug}/github [put]
func (c *IntegrationController) UpsertGithub(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request UpsertGithubIntegrationRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		apierror.Validation(ctx, err)
		return
	}

	integration, err := c.integrationService.UpsertGithubIntegration(ctx.Param("slug"), &request, user)
	if err != nil {
		c.respondIntegrationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, integration)
}

// DeleteGithub
// @Summary Unlink the GitHub repository
// @Tags integrations
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Project slug"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /integrations/{slug}/github [delete]
func (c *IntegrationController) DeleteGithub(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := c.integrationService.DeleteGithubIntegration(ctx.Param("slug"), user); err != nil {
		c.respondIntegrationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "GitHub integration removed"})
}

// UpsertAgent
// @Summary Update the AI agent configuration
// @Tags integrations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Project slug"
// @Param request body UpsertAgentConfigRequestDTO true "Agent settings"
// @Success 200 {object} AgentConfig
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /integrations/{slug}/agent [put]
func (c *IntegrationController) UpsertAgent(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var request UpsertAgentConfigRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		apierror.Validation(ctx, err)
		return
	}

	config, err := c.integrationService.UpsertAgentConfig(ctx.Param("slug"), &request, user)
	if err != nil {
		c.respondIntegrationError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, config)
}
