package projects_models

import (
	"time"

	users_models "bugtrail/internal/features/users/models"

	"github.com/google/uuid"
)

type Project struct {
	ID          uuid.UUID `json:"id"          gorm:"column:id"`
	Name        string    `json:"name"        gorm:"column:name"`
	Description *string   `json:"description" gorm:"column:description"`
	Slug        string    `json:"slug"        gorm:"column:slug;uniqueIndex"`
	IsPublic    bool      `json:"isPublic"    gorm:"column:is_public"`
	OwnerID     uuid.UUID `json:"ownerId"     gorm:"column:owner_id"`
	CreatedAt   time.Time `json:"createdAt"   gorm:"column:created_at"`

	Owner *users_models.User `json:"-" gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
}

func (Project) TableName() string {
	return "projects"
}
