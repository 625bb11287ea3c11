package invitations

import (
	"time"

	users_enums "bugtrail/internal/features/users/enums"

	"github.com/google/uuid"
)

type InvitationResponseDTO struct {
	ID          uuid.UUID               `json:"id"`
	Email       string                  `json:"email"`
	ProjectID   uuid.UUID               `json:"projectId"`
	ProjectName string                  `json:"projectName"`
	ProjectSlug string                  `json:"projectSlug"`
	Role        users_enums.ProjectRole `json:"role"`
	Status      InvitationStatus        `json:"status"`
	InviterName string                  `json:"inviterName,omitempty"`
	ExpiresAt   time.Time               `json:"expiresAt"`
	CreatedAt   time.Time               `json:"createdAt"`
}

type ListInvitationsResponseDTO struct {
	Invitations []*InvitationResponseDTO `json:"invitations"`
}

type AcceptInvitationResponseDTO struct {
	ProjectID     uuid.UUID `json:"projectId"`
	ProjectSlug   string    `json:"projectSlug"`
	AlreadyMember bool      `json:"alreadyMember"`
}
