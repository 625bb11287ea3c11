package members

import (
	"errors"
	"fmt"
	"time"

	audit_logs "bugtrail/internal/features/audit_logs"
	invitations "bugtrail/internal/features/invitations"
	notifications_services "bugtrail/internal/features/notifications/services"
	projects_dto "bugtrail/internal/features/projects/dto"
	projects_models "bugtrail/internal/features/projects/models"
	projects_repositories "bugtrail/internal/features/projects/repositories"
	projects_services "bugtrail/internal/features/projects/services"
	users_enums "bugtrail/internal/features/users/enums"
	users_models "bugtrail/internal/features/users/models"
	users_services "bugtrail/internal/features/users/services"

	"github.com/google/uuid"
)

var (
	ErrProjectNotFound         = errors.New("project not found")
	ErrMemberNotFound          = errors.New("member not found in this project")
	ErrRequestNotFound         = errors.New("access request not found")
	ErrViewForbidden           = errors.New("you do not have access to this project")
	ErrInsufficientPermissions = errors.New("insufficient permissions to manage members")
	ErrOnlyOwnerCanChangeRole  = errors.New("only the project owner can change member roles")
	ErrOnlyOwnerCanRemove      = errors.New("only the project owner can remove other members")
	ErrOnlyOwnerCanReview      = errors.New("only the project owner can review access requests")
	ErrTargetIsOwner           = errors.New("the project owner cannot be added as a member")
	ErrAlreadyMember           = errors.New("user is already a member of this project")
	ErrAlreadyHasAccess        = errors.New("you already have access to this project")
	ErrDuplicateRequest        = errors.New("an access request for this project is already pending")
	ErrRequestAlreadyResolved  = errors.New("access request has already been reviewed")
	ErrInvalidRole             = errors.New("invalid member role")
)

type MemberService struct {
	memberRepository        *projects_repositories.MemberRepository
	accessRequestRepository *AccessRequestRepository
	projectService          *projects_services.ProjectService
	accessService           *projects_services.AccessService
	userService             *users_services.UserService
	invitationService       *invitations.InvitationService
	auditLogService         *audit_logs.AuditLogService
	dispatcher              *notifications_services.Dispatcher
}

func (s *MemberService) ListMembers(
	projectID uuid.UUID,
	user *users_models.User,
) (*ListMembersResponseDTO, error) {
	project, level, err := s.loadProjectWithLevel(projectID, user)
	if err != nil {
		return nil, err
	}
	if !level.AtLeast(users_enums.PermissionRead) {
		return nil, ErrViewForbidden
	}

	memberDTOs, err := s.memberRepository.GetProjectMembers(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load members: %w", err)
	}

	response := &ListMembersResponseDTO{Members: memberDTOs}

	owner, err := s.userService.GetUserByID(project.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project owner: %w", err)
	}
	if owner != nil {
		response.Owner = s.userService.ToResponseDTO(owner)
	}

	return response, nil
}

// AddMember resolves an email into either an immediate membership (the
// email belongs to a registered user) or a pending invitation.
func (s *MemberService) AddMember(
	projectID uuid.UUID,
	request *AddMemberRequestDTO,
	actor *users_models.User,
) (*AddMemberResponseDTO, error) {
	project, level, err := s.loadProjectWithLevel(projectID, actor)
	if err != nil {
		return nil, err
	}
	if !level.AtLeast(users_enums.PermissionAdmin) {
		return nil, ErrInsufficientPermissions
	}

	role := users_enums.ProjectRoleMember
	if request.Role != nil {
		if !request.Role.IsValid() {
			return nil, ErrInvalidRole
		}

		role = *request.Role
	}

	target, err := s.userService.GetUserByEmail(request.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if target == nil {
		invitation, err := s.invitationService.CreateInvitation(project, request.Email, role, actor)
		if err != nil {
			return nil, err
		}

		return &AddMemberResponseDTO{
			Invitation: invitation.ToResponse(),
		}, nil
	}

	if target.ID == project.OwnerID {
		return nil, ErrTargetIsOwner
	}

	existing, err := s.memberRepository.GetMember(projectID, target.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyMember
	}

	member := &projects_models.ProjectMember{
		ProjectID: projectID,
		UserID:    target.ID,
		Role:      role,
		InvitedBy: &actor.ID,
	}

	if err := s.memberRepository.CreateMember(member); err != nil {
		return nil, fmt.Errorf("failed to create membership: %w", err)
	}

	s.auditLogService.WriteAuditLog(
		fmt.Sprintf("Member added: %s (role %s)", target.Email, role),
		&actor.ID,
		&projectID,
	)

	return &AddMemberResponseDTO{
		Member: &projects_dto.ProjectMemberResponseDTO{
			ID:        member.ID,
			UserID:    target.ID,
			Email:     target.Email,
			Name:      target.Name,
			AvatarURL: target.AvatarURL,
			Role:      member.Role,
			CreatedAt: member.CreatedAt,
		},
	}, nil
}

func (s *MemberService) ChangeRole(
	projectID uuid.UUID,
	memberID uuid.UUID,
	role users_enums.ProjectRole,
	actor *users_models.User,
) error {
	project, err := s.loadProject(projectID)
	if err != nil {
		return err
	}

	if actor.ID != project.OwnerID {
		return ErrOnlyOwnerCanChangeRole
	}

	if !role.IsValid() {
		return ErrInvalidRole
	}

	member, err := s.memberRepository.GetMemberByID(memberID)
	if err != nil {
		return fmt.Errorf("failed to load member: %w", err)
	}
	if member == nil || member.ProjectID != projectID {
		return ErrMemberNotFound
	}

	if err := s.memberRepository.UpdateMemberRole(memberID, role); err != nil {
		return fmt.Errorf("failed to update member role: %w", err)
	}

	s.auditLogService.WriteAuditLog(
		fmt.Sprintf("Member role changed to %s", role),
		&actor.ID,
		&projectID,
	)

	return nil
}

// RemoveMember is owner-only except that any member may remove themself.
func (s *MemberService) RemoveMember(
	projectID uuid.UUID,
	memberID uuid.UUID,
	actor *users_models.User,
) error {
	project, err := s.loadProject(projectID)
	if err != nil {
		return err
	}

	member, err := s.memberRepository.GetMemberByID(memberID)
	if err != nil {
		return fmt.Errorf("failed to load member: %w", err)
	}
	if member == nil || member.ProjectID != projectID {
		return ErrMemberNotFound
	}

	if actor.ID != project.OwnerID && actor.ID != member.UserID {
		return ErrOnlyOwnerCanRemove
	}

	if err := s.memberRepository.RemoveMember(memberID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	s.auditLogService.WriteAuditLog("Member removed", &actor.ID, &projectID)

	return nil
}

func (s *MemberService) RequestAccess(
	projectID uuid.UUID,
	request *CreateAccessRequestDTO,
	user *users_models.User,
) (*AccessRequestResponseDTO, error) {
	project, err := s.loadProject(projectID)
	if err != nil {
		return nil, err
	}

	if user.ID == project.OwnerID {
		return nil, ErrAlreadyHasAccess
	}

	existingMember, err := s.memberRepository.GetMember(projectID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check membership: %w", err)
	}
	if existingMember != nil {
		return nil, ErrAlreadyMember
	}

	pending, err := s.accessRequestRepository.HasPendingRequest(projectID, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check pending requests: %w", err)
	}
	if pending {
		return nil, ErrDuplicateRequest
	}

	accessRequest := &AccessRequest{
		ID:        uuid.New(),
		ProjectID: projectID,
		UserID:    user.ID,
		Status:    AccessRequestStatusPending,
		Message:   request.Message,
	}

	if err := s.accessRequestRepository.CreateAccessRequest(accessRequest); err != nil {
		return nil, fmt.Errorf("failed to create access request: %w", err)
	}

	s.auditLogService.WriteAuditLog(
		fmt.Sprintf("Access requested by %s", user.Email),
		&user.ID,
		&projectID,
	)

	if owner, err := s.userService.GetUserByID(project.OwnerID); err == nil && owner != nil {
		s.dispatcher.NotifyAccessRequested(owner.Email, user.Name, project.Name, project.Slug)
	}

	accessRequest.User = user

	return s.toAccessRequestDTO(accessRequest), nil
}

// ListAccessRequests returns an empty list, not an error, when the
// caller lacks admin rights on the project.
func (s *MemberService) ListAccessRequests(
	projectID uuid.UUID,
	user *users_models.User,
) (*ListAccessRequestsResponseDTO, error) {
	_, level, err := s.loadProjectWithLevel(projectID, user)
	if err != nil {
		return nil, err
	}

	response := &ListAccessRequestsResponseDTO{
		AccessRequests: make([]*AccessRequestResponseDTO, 0),
	}

	if !level.AtLeast(users_enums.PermissionAdmin) {
		return response, nil
	}

	requests, err := s.accessRequestRepository.GetPendingRequestsByProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load access requests: %w", err)
	}

	for _, accessRequest := range requests {
		response.AccessRequests = append(response.AccessRequests, s.toAccessRequestDTO(accessRequest))
	}

	return response, nil
}

func (s *MemberService) ApproveRequest(requestID uuid.UUID, actor *users_models.User) error {
	accessRequest, err := s.loadPendingRequest(requestID, actor)
	if err != nil {
		return err
	}

	existing, err := s.memberRepository.GetMember(accessRequest.ProjectID, accessRequest.UserID)
	if err != nil {
		return fmt.Errorf("failed to check membership: %w", err)
	}

	if existing == nil {
		member := &projects_models.ProjectMember{
			ProjectID: accessRequest.ProjectID,
			UserID:    accessRequest.UserID,
			Role:      users_enums.ProjectRoleMember,
			InvitedBy: &actor.ID,
		}

		if err := s.memberRepository.CreateMember(member); err != nil {
			return fmt.Errorf("failed to create membership: %w", err)
		}
	}

	if err := s.resolveRequest(accessRequest, AccessRequestStatusApproved, actor); err != nil {
		return err
	}

	if accessRequest.User != nil && accessRequest.Project != nil {
		s.dispatcher.NotifyAccessReviewed(
			accessRequest.User.Email,
			accessRequest.Project.Name,
			accessRequest.Project.Slug,
			true,
		)
	}

	return nil
}

func (s *MemberService) RejectRequest(requestID uuid.UUID, actor *users_models.User) error {
	accessRequest, err := s.loadPendingRequest(requestID, actor)
	if err != nil {
		return err
	}

	if err := s.resolveRequest(accessRequest, AccessRequestStatusRejected, actor); err != nil {
		return err
	}

	if accessRequest.User != nil && accessRequest.Project != nil {
		s.dispatcher.NotifyAccessReviewed(
			accessRequest.User.Email,
			accessRequest.Project.Name,
			accessRequest.Project.Slug,
			false,
		)
	}

	return nil
}

func (s *MemberService) loadProject(projectID uuid.UUID) (*projects_models.Project, error) {
	project, err := s.projectService.GetProjectByID(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}

	return project, nil
}

func (s *MemberService) loadProjectWithLevel(
	projectID uuid.UUID,
	user *users_models.User,
) (*projects_models.Project, users_enums.PermissionLevel, error) {
	project, err := s.loadProject(projectID)
	if err != nil {
		return nil, users_enums.PermissionNone, err
	}

	level, err := s.accessService.PermissionLevel(user, project)
	if err != nil {
		return nil, users_enums.PermissionNone, fmt.Errorf("failed to resolve permissions: %w", err)
	}

	return project, level, nil
}

func (s *MemberService) loadPendingRequest(
	requestID uuid.UUID,
	actor *users_models.User,
) (*AccessRequest, error) {
	accessRequest, err := s.accessRequestRepository.GetAccessRequestByID(requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to load access request: %w", err)
	}
	if accessRequest == nil || accessRequest.Project == nil {
		return nil, ErrRequestNotFound
	}

	if actor.ID != accessRequest.Project.OwnerID {
		return nil, ErrOnlyOwnerCanReview
	}

	if accessRequest.Status != AccessRequestStatusPending {
		return nil, ErrRequestAlreadyResolved
	}

	return accessRequest, nil
}

func (s *MemberService) resolveRequest(
	accessRequest *AccessRequest,
	status AccessRequestStatus,
	actor *users_models.User,
) error {
	now := time.Now().UTC()
	accessRequest.Status = status
	accessRequest.ReviewedBy = &actor.ID
	accessRequest.ReviewedAt = &now

	if err := s.accessRequestRepository.UpdateAccessRequest(accessRequest); err != nil {
		return fmt.Errorf("failed to update access request: %w", err)
	}

	s.auditLogService.WriteAuditLog(
		fmt.Sprintf("Access request %s", status),
		&actor.ID,
		&accessRequest.ProjectID,
	)

	return nil
}

func (s *MemberService) toAccessRequestDTO(accessRequest *AccessRequest) *AccessRequestResponseDTO {
	response := &AccessRequestResponseDTO{
		ID:        accessRequest.ID,
		ProjectID: accessRequest.ProjectID,
		UserID:    accessRequest.UserID,
		Status:    accessRequest.Status,
		Message:   accessRequest.Message,
		CreatedAt: accessRequest.CreatedAt,
	}

	if accessRequest.User != nil {
		response.UserName = accessRequest.User.Name
		response.UserEmail = accessRequest.User.Email
		response.UserAvatarURL = accessRequest.User.AvatarURL
	}

	return response
}
