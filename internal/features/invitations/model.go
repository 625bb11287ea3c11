package invitations

import (
	"time"

	projects_models "bugtrail/internal/features/projects/models"
	users_enums "bugtrail/internal/features/users/enums"
	users_models "bugtrail/internal/features/users/models"

	"github.com/google/uuid"
)

// Invitation is an offer of membership to an email address. The address
// may not belong to a registered user yet. EXPIRED is never written to
// the row; pending invitations past their expiry are treated as expired
// by a time predicate on every lookup.
type Invitation struct {
	ID        uuid.UUID               `json:"id"        gorm:"column:id"`
	Email     string                  `json:"email"     gorm:"column:email;index"`
	ProjectID uuid.UUID               `json:"projectId" gorm:"column:project_id"`
	Role      users_enums.ProjectRole `json:"role"      gorm:"column:role"`
	Status    InvitationStatus        `json:"-"         gorm:"column:status"`
	Token     string                  `json:"-"         gorm:"column:token;uniqueIndex"`
	ExpiresAt time.Time               `json:"expiresAt" gorm:"column:expires_at"`
	InvitedBy *uuid.UUID              `json:"invitedBy" gorm:"column:invited_by"`
	CreatedAt time.Time               `json:"createdAt" gorm:"column:created_at"`

	Project *projects_models.Project `json:"-" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Inviter *users_models.User       `json:"-" gorm:"foreignKey:InvitedBy;constraint:OnDelete:SET NULL"`
}

func (Invitation) TableName() string {
	return "invitations"
}

// ToResponse builds the public view of an invitation. Project and
// Inviter fields are filled only when preloaded.
func (i *Invitation) ToResponse() *InvitationResponseDTO {
	response := &InvitationResponseDTO{
		ID:        i.ID,
		Email:     i.Email,
		ProjectID: i.ProjectID,
		Role:      i.Role,
		Status:    i.EffectiveStatus(),
		ExpiresAt: i.ExpiresAt,
		CreatedAt: i.CreatedAt,
	}

	if i.Project != nil {
		response.ProjectName = i.Project.Name
		response.ProjectSlug = i.Project.Slug
	}
	if i.Inviter != nil {
		response.InviterName = i.Inviter.Name
	}

	return response
}

// EffectiveStatus folds expiry into the stored status.
func (i *Invitation) EffectiveStatus() InvitationStatus {
	if i.Status == InvitationStatusPending && time.Now().UTC().After(i.ExpiresAt) {
		return InvitationStatusExpired
	}

	return i.Status
}
