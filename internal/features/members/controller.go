package members

import (
	"errors"
	"net/http"

	invitations "bugtrail/internal/features/invitations"
	users_middleware "bugtrail/internal/features/users/middleware"
	"bugtrail/internal/util/apierror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type MemberController struct {
	memberService *MemberService
}

func (c *MemberController) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/members/:projectId", c.ListMembers)
	router.POST("/members/:projectId", c.AddMember)
	router.PUT("/members/:projectId/:memberId", c.ChangeRole)
	router.DELETE("/members/:projectId/:memberId", c.RemoveMember)
	router.POST("/members/:projectId/request", c.RequestAccess)
	router.GET("/members/:projectId/requests", c.ListAccessRequests)
	router.POST("/members/requests/:requestId/approve", c.ApproveRequest)
	router.POST("/members/requests/:requestId/reject", c.RejectRequest)
}

func (c *MemberController) respondMemberError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrProjectNotFound),
		errors.Is(err, ErrMemberNotFound),
		errors.Is(err, ErrRequestNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrViewForbidden),
		errors.Is(err, ErrInsufficientPermissions),
		errors.Is(err, ErrOnlyOwnerCanChangeRole),
		errors.Is(err, ErrOnlyOwnerCanRemove),
		errors.Is(err, ErrOnlyOwnerCanReview):
		ctx.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, ErrTargetIsOwner),
		errors.Is(err, ErrAlreadyMember),
		errors.Is(err, ErrAlreadyHasAccess),
		errors.Is(err, ErrDuplicateRequest),
		errors.Is(err, ErrRequestAlreadyResolved),
		errors.Is(err, ErrInvalidRole),
		errors.Is(err, invitations.ErrDuplicateInvitation):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		apierror.Internal(ctx, err)
	}
}

// ListMembers
// @Summary List project members and the owner
// @Tags members
// @Produce json
// @Security BearerAuth
// @Param projectId path string true "Project ID"
// @Success 200 {object} ListMembersResponseDTO
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /members/{projectId} [get]
func (c *MemberController) ListMembers(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, err := uuid.Parse(ctx.Param("projectId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	response, err := c.memberService.ListMembers(projectID, user)
	if err != nil {
		c.respondMemberError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// AddMember
// @Summary Add a member by email or send an invitation
// @Description A registered email becomes a member immediately, an unknown one gets an emailed invitation
// @Tags members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param projectId path string true "Project ID"
// @Param request body AddMemberRequestDTO true "Email and optional role"
// @Success 201 {object} AddMemberResponseDTO
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /members/{projectId} [post]
func (c *MemberController) AddMember(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, err := uuid.Parse(ctx.Param("projectId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var request AddMemberRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		apierror.Validation(ctx, err)
		return
	}

	response, err := c.memberService.AddMember(projectID, &request, user)
	if err != nil {
		c.respondMemberError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, response)
}

// ChangeRole
// @Summary Change a member's role (owner only)
// @Tags members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param projectId path string true "Project ID"
// @Param memberId path string true "Member ID"
// @Param request body ChangeRoleRequestDTO true "New role"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /members/{projectId}/{memberId} [put]
func (c *MemberController) ChangeRole(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, err := uuid.Parse(ctx.Param("projectId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	memberID, err := uuid.Parse(ctx.Param("memberId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member ID"})
		return
	}

	var request ChangeRoleRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		apierror.Validation(ctx, err)
		return
	}

	if err := c.memberService.ChangeRole(projectID, memberID, request.Role, user); err != nil {
		c.respondMemberError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Member role updated successfully"})
}

// RemoveMember
// @Summary Remove a member (owner, or the member themself)
// @Tags members
// @Produce json
// @Security BearerAuth
// @Param projectId path string true "Project ID"
// @Param memberId path string true "Member ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /members/{projectId}/{memberId} [delete]
func (c *MemberController) RemoveMember(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, err := uuid.Parse(ctx.Param("projectId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	memberID, err := uuid.Parse(ctx.Param("memberId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid member ID"})
		return
	}

	if err := c.memberService.RemoveMember(projectID, memberID, user); err != nil {
		c.respondMemberError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Member removed successfully"})
}

// RequestAccess
// @Summary Ask to join a project
// @Tags members
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param projectId path string true "Project ID"
// @Param request body CreateAccessRequestDTO true "Optional message"
// @Success 201 {object} AccessRequestResponseDTO
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /members/{projectId}/request [post]
func (c *MemberController) RequestAccess(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, err := uuid.Parse(ctx.Param("projectId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	var request CreateAccessRequestDTO
	if err := ctx.ShouldBindJSON(&request); err != nil {
		apierror.Validation(ctx, err)
		return
	}

	response, err := c.memberService.RequestAccess(projectID, &request, user)
	if err != nil {
		c.respondMemberError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, response)
}

// ListAccessRequests
// @Summary List pending access requests
// @Description Returns an empty list for callers without admin rights
// @Tags members
// @Produce json
// @Security BearerAuth
// @Param projectId path string true "Project ID"
// @Success 200 {object} ListAccessRequestsResponseDTO
// @Failure 404 {object} map[string]string
// @Router /members/{projectId}/requests [get]
func (c *MemberController) ListAccessRequests(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	projectID, err := uuid.Parse(ctx.Param("projectId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid project ID"})
		return
	}

	response, err := c.memberService.ListAccessRequests(projectID, user)
	if err != nil {
		c.respondMemberError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// ApproveRequest
// @Summary Approve a pending access request (owner only)
// @Tags members
// @Produce json
// @Security BearerAuth
// @Param requestId path string true "Access request ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /members/requests/{requestId}/approve [post]
func (c *MemberController) ApproveRequest(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	requestID, err := uuid.Parse(ctx.Param("requestId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	if err := c.memberService.ApproveRequest(requestID, user); err != nil {
		c.respondMemberError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Access request approved"})
}

// RejectRequest
// @Summary Reject a pending access request (owner only)
// @Tags members
// @Produce json
// @Security BearerAuth
// @Param requestId path string true "Access request ID"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /members/requests/{requestId}/reject [post]
func (c *MemberController) RejectRequest(ctx *gin.Context) {
	user, ok := users_middleware.GetUserFromContext(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	requestID, err := uuid.Parse(ctx.Param("requestId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request ID"})
		return
	}

	if err := c.memberService.RejectRequest(requestID, user); err != nil {
		c.respondMemberError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Access request rejected"})
}
