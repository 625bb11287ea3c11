package invitations

import (
	"errors"
	"net/http"

	users_middleware "bugtrail/internal/features/users/middleware"
	"bugtrail/internal/util/apierror"

	"github.com/gin-gonic/gin"
)

type InvitationController struct {
	invitationService *InvitationService
}

// RegisterPublicRoutes mounts the token lookup used by the invite link
// landing page before the invitee has signed in.
func (c *InvitationController) RegisterPublicRoutes(router *gin.RouterGroup) {
	router.GET("/invitations/:token", c.GetByToken)
}

func (c *InvitationController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/invitations", c.ListMine)
	router.POST("/invitations/:token/accept", c.Accept)
}

// GetByToken
// @Summary Look up an invitation by its token
// @Tags invitations
// @Produce json
// @Param token path string true "Invitation token"
// @Success 200 {object} InvitationResponseDTO
// @Failure 404 {object} map[string]string
// @Router /invitations/{token} [get]
func (c *InvitationController) GetByToken(ctx *gin.Context) {
	invitation, err := c.invitationService.GetInvitationByToken(ctx.Param("token"))
	if err != nil {
		if errors.Is(err, ErrInvitationNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}

		apierror.Internal(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, invitation)
}

// ListMine
// @Summary List pending invitations addressed to the caller's email
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ListInvitationsResponseDTO
// @Failure 401 {object} map[string]string
// @Router /invitations [get]
func (c *InvitationController) ListMine(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	response, err := c.invitationService.ListForUser(user)
	if err != nil {
		apierror.Internal(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// Accept
// @Summary Accept an invitation by token
// @Tags invitations
// @Produce json
// @Security BearerAuth
// @Param token path string true "Invitation token"
// @Success 200 {object} AcceptInvitationResponseDTO
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /invitations/{token}/accept [post]
func (c *InvitationController) Accept(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	response, err := c.invitationService.AcceptByToken(ctx.Param("token"), user)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvitationNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, ErrInvitationWrongEmail):
			ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		default:
			apierror.Internal(ctx, err)
		}
		return
	}

	ctx.JSON(http.StatusOK, response)
}
