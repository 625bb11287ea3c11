package invitations

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	audit_logs "bugtrail/internal/features/audit_logs"
	notifications_services "bugtrail/internal/features/notifications/services"
	projects_models "bugtrail/internal/features/projects/models"
	projects_repositories "bugtrail/internal/features/projects/repositories"
	users_enums "bugtrail/internal/features/users/enums"
	users_models "bugtrail/internal/features/users/models"

	"github.com/google/uuid"
)

var (
	ErrInvitationNotFound   = errors.New("invitation not found or no longer valid")
	ErrInvitationWrongEmail = errors.New("this invitation was sent to a different email address")
	ErrDuplicateInvitation  = errors.New("a pending invitation for this email already exists")
)

const (
	invitationTokenLength = 32
	invitationLifetime    = 7 * 24 * time.Hour
)

type InvitationService struct {
	invitationRepository *InvitationRepository
	memberRepository     *projects_repositories.MemberRepository
	auditLogService      *audit_logs.AuditLogService
	dispatcher           *notifications_services.Dispatcher
}

// CreateInvitation records an offer of membership and emails the invite
// link. Authorization is the caller's responsibility.
func (s *InvitationService) CreateInvitation(
	project *projects_models.Project,
	email string,
	role users_enums.ProjectRole,
	inviter *users_models.User,
) (*Invitation, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	exists, err := s.invitationRepository.HasPendingInvitation(email, project.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check pending invitations: %w", err)
	}
	if exists {
		return nil, ErrDuplicateInvitation
	}

	token, err := generateInvitationToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invitation token: %w", err)
	}

	invitation := &Invitation{
		ID:        uuid.New(),
		Email:     email,
		ProjectID: project.ID,
		Role:      role,
		Status:    InvitationStatusPending,
		Token:     token,
		ExpiresAt: time.Now().UTC().Add(invitationLifetime),
		InvitedBy: &inviter.ID,
	}

	if err := s.invitationRepository.CreateInvitation(invitation); err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}

	s.auditLogService.WriteAuditLog(
		fmt.Sprintf("Invitation sent to %s (role %s)", email, role),
		&inviter.ID,
		&project.ID,
	)

	s.dispatcher.NotifyInvitation(email, inviter.Name, project.Name, token)

	invitation.Project = project
	invitation.Inviter = inviter

	return invitation, nil
}

func (s *InvitationService) GetInvitationByToken(token string) (*InvitationResponseDTO, error) {
	invitation, err := s.invitationRepository.GetInvitationByToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to load invitation: %w", err)
	}
	if invitation == nil {
		return nil, ErrInvitationNotFound
	}

	return invitation.ToResponse(), nil
}

// AcceptByToken converts a pending invitation into a membership for the
// accepting user. The user's email must match the invited address. If
// the user already holds a membership the invitation is still marked
// accepted and the call reports that instead of failing.
func (s *InvitationService) AcceptByToken(
	token string,
	user *users_models.User,
) (*AcceptInvitationResponseDTO, error) {
	invitation, err := s.invitationRepository.GetInvitationByToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to load invitation: %w", err)
	}
	if invitation == nil || invitation.EffectiveStatus() != InvitationStatusPending {
		return nil, ErrInvitationNotFound
	}

	if !strings.EqualFold(invitation.Email, user.Email) {
		return nil, ErrInvitationWrongEmail
	}

	alreadyMember, err := s.applyInvitation(invitation, user)
	if err != nil {
		return nil, err
	}

	response := &AcceptInvitationResponseDTO{
		ProjectID:     invitation.ProjectID,
		AlreadyMember: alreadyMember,
	}
	if invitation.Project != nil {
		response.ProjectSlug = invitation.Project.Slug
	}

	return response, nil
}

// AcceptPendingForUser auto-accepts every live invitation addressed to
// a freshly registered email and returns how many were processed. It
// backs the signup flow.
func (s *InvitationService) AcceptPendingForUser(user *users_models.User) (int, error) {
	pending, err := s.invitationRepository.GetPendingInvitationsByEmail(user.Email)
	if err != nil {
		return 0, fmt.Errorf("failed to load pending invitations: %w", err)
	}

	if len(pending) == 0 {
		return 0, nil
	}

	if err := s.invitationRepository.AcceptAllPending(user.ID, pending); err != nil {
		return 0, fmt.Errorf("failed to accept pending invitations: %w", err)
	}

	for _, invitation := range pending {
		s.auditLogService.WriteAuditLog(
			fmt.Sprintf("Invitation accepted by %s", user.Email),
			&user.ID,
			&invitation.ProjectID,
		)
	}

	return len(pending), nil
}

func (s *InvitationService) ListForUser(user *users_models.User) (*ListInvitationsResponseDTO, error) {
	pending, err := s.invitationRepository.GetPendingInvitationsByEmail(user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to load invitations: %w", err)
	}

	response := &ListInvitationsResponseDTO{
		Invitations: make([]*InvitationResponseDTO, 0, len(pending)),
	}
	for _, invitation := range pending {
		response.Invitations = append(response.Invitations, invitation.ToResponse())
	}

	return response, nil
}

// applyInvitation creates the membership unless one already exists and
// marks the invitation accepted either way.
func (s *InvitationService) applyInvitation(
	invitation *Invitation,
	user *users_models.User,
) (alreadyMember bool, err error) {
	existing, err := s.memberRepository.GetMember(invitation.ProjectID, user.ID)
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}

	if existing == nil {
		member := &projects_models.ProjectMember{
			ProjectID: invitation.ProjectID,
			UserID:    user.ID,
			Role:      invitation.Role,
			InvitedBy: invitation.InvitedBy,
		}

		if err := s.memberRepository.CreateMember(member); err != nil {
			return false, fmt.Errorf("failed to create membership: %w", err)
		}
	}

	if err := s.invitationRepository.MarkAccepted(invitation.ID); err != nil {
		return existing != nil, fmt.Errorf("failed to mark invitation accepted: %w", err)
	}

	s.auditLogService.WriteAuditLog(
		fmt.Sprintf("Invitation accepted by %s", user.Email),
		&user.ID,
		&invitation.ProjectID,
	)

	return existing != nil, nil
}

func generateInvitationToken() (string, error) {
	tokenBytes := make([]byte, invitationTokenLength)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}

	return hex.EncodeToString(tokenBytes), nil
}
