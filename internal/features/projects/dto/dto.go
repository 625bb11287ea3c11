package projects_dto

import (
	"time"

	users_enums "bugtrail/internal/features/users/enums"

	"github.com/google/uuid"
)

type CreateProjectRequestDTO struct {
	Name        string  `json:"name"        binding:"required,min=1,max=100"`
	Description *string `json:"description"`
	IsPublic    bool    `json:"isPublic"`
}

type UpdateProjectRequestDTO struct {
	Name        *string `json:"name"        binding:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
	IsPublic    *bool   `json:"isPublic"`
}

type ProjectResponseDTO struct {
	ID          uuid.UUID `json:"id"          gorm:"column:id"`
	Name        string    `json:"name"        gorm:"column:name"`
	Description *string   `json:"description" gorm:"column:description"`
	Slug        string    `json:"slug"        gorm:"column:slug"`
	IsPublic    bool      `json:"isPublic"    gorm:"column:is_public"`
	OwnerID     uuid.UUID `json:"ownerId"     gorm:"column:owner_id"`
	CreatedAt   time.Time `json:"createdAt"   gorm:"column:created_at"`
	BugCount    int64     `json:"bugCount"    gorm:"column:bug_count"`
	MemberRole  *string   `json:"memberRole"  gorm:"column:member_role"`
}

type ListProjectsResponseDTO struct {
	Projects []ProjectResponseDTO `json:"projects"`
}

type ProjectMemberResponseDTO struct {
	ID        uuid.UUID               `json:"id"        gorm:"column:id"`
	UserID    uuid.UUID               `json:"userId"    gorm:"column:user_id"`
	Email     string                  `json:"email"     gorm:"column:email"`
	Name      string                  `json:"name"      gorm:"column:name"`
	AvatarURL *string                 `json:"avatarUrl" gorm:"column:avatar_url"`
	Role      users_enums.ProjectRole `json:"role"      gorm:"column:role"`
	CreatedAt time.Time               `json:"createdAt" gorm:"column:created_at"`
}
