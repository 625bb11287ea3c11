package projects_models

import (
	"time"

	users_enums "bugtrail/internal/features/users/enums"
	users_models "bugtrail/internal/features/users/models"

	"github.com/google/uuid"
)

// ProjectMember is an explicit role-bearing relationship between a user
// and a project. The owner is never listed here.
type ProjectMember struct {
	ID        uuid.UUID               `json:"id"        gorm:"column:id"`
	ProjectID uuid.UUID               `json:"projectId" gorm:"column:project_id;uniqueIndex:idx_project_members_pair"`
	UserID    uuid.UUID               `json:"userId"    gorm:"column:user_id;uniqueIndex:idx_project_members_pair"`
	Role      users_enums.ProjectRole `json:"role"      gorm:"column:role"`
	InvitedBy *uuid.UUID              `json:"invitedBy" gorm:"column:invited_by"`
	CreatedAt time.Time               `json:"createdAt" gorm:"column:created_at"`

	Project *Project           `json:"-" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	User    *users_models.User `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Inviter *users_models.User `json:"-" gorm:"foreignKey:InvitedBy;constraint:OnDelete:SET NULL"`
}

func (ProjectMember) TableName() string {
	return "project_members"
}
