package bugs

import (
	"github.com/google/uuid"
)

type CreateBugRequestDTO struct {
	Title         string       `json:"title"         binding:"required,min=1,max=200"`
	Description   *string      `json:"description"`
	ProjectID     uuid.UUID    `json:"projectId"     binding:"required"`
	Priority      *BugPriority `json:"priority"`
	Source        *BugSource   `json:"source"`
	ReporterEmail *string      `json:"reporterEmail" binding:"omitempty,email"`
	Screenshots   []string     `json:"screenshots"   binding:"omitempty,dive,url"`
}

// CreateExternalBugRequestDTO is the unauthenticated widget variant.
// The project is resolved from the widget token, never from the body.
type CreateExternalBugRequestDTO struct {
	Title         string       `json:"title"         binding:"required,min=1,max=200"`
	Description   *string      `json:"description"`
	Priority      *BugPriority `json:"priority"`
	Source        *BugSource   `json:"source"`
	ReporterEmail *string      `json:"reporterEmail" binding:"omitempty,email"`
	Screenshots   []string     `json:"screenshots"   binding:"omitempty,dive,url"`
}

type UpdateBugRequestDTO struct {
	Title         *string      `json:"title"         binding:"omitempty,min=1,max=200"`
	Description   *string      `json:"description"`
	Priority      *BugPriority `json:"priority"`
	Status        *BugStatus   `json:"status"`
	Source        *BugSource   `json:"source"`
	ReporterEmail *string      `json:"reporterEmail" binding:"omitempty,email"`
	Screenshots   []string     `json:"screenshots"   binding:"omitempty,dive,url"`
}

type ChangeStatusRequestDTO struct {
	Status BugStatus `json:"status" binding:"required"`
}

type ListBugsResponseDTO struct {
	Bugs []*Bug `json:"bugs"`
}
