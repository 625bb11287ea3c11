package members

import (
	"time"

	invitations "bugtrail/internal/features/invitations"
	projects_dto "bugtrail/internal/features/projects/dto"
	users_dto "bugtrail/internal/features/users/dto"
	users_enums "bugtrail/internal/features/users/enums"

	"github.com/google/uuid"
)

type AddMemberRequestDTO struct {
	Email string                   `json:"email" binding:"required,email"`
	Role  *users_enums.ProjectRole `json:"role"`
}

type ChangeRoleRequestDTO struct {
	Role users_enums.ProjectRole `json:"role" binding:"required"`
}

type CreateAccessRequestDTO struct {
	Message *string `json:"message" binding:"omitempty,max=500"`
}

type ListMembersResponseDTO struct {
	Members []projects_dto.ProjectMemberResponseDTO `json:"members"`
	Owner   *users_dto.UserResponseDTO              `json:"owner"`
}

// AddMemberResponseDTO carries exactly one of Member or Invitation
// depending on whether the email belonged to a registered user.
type AddMemberResponseDTO struct {
	Member     *projects_dto.ProjectMemberResponseDTO `json:"member,omitempty"`
	Invitation *invitations.InvitationResponseDTO     `json:"invitation,omitempty"`
}

type AccessRequestResponseDTO struct {
	ID            uuid.UUID           `json:"id"`
	ProjectID     uuid.UUID           `json:"projectId"`
	UserID        uuid.UUID           `json:"userId"`
	UserName      string              `json:"userName"`
	UserEmail     string              `json:"userEmail"`
	UserAvatarURL *string             `json:"userAvatarUrl"`
	Status        AccessRequestStatus `json:"status"`
	Message       *string             `json:"message"`
	CreatedAt     time.Time           `json:"createdAt"`
}

type ListAccessRequestsResponseDTO struct {
	AccessRequests []*AccessRequestResponseDTO `json:"accessRequests"`
}
