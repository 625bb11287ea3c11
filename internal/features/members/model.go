package members

import (
	"time"

	projects_models "bugtrail/internal/features/projects/models"
	users_models "bugtrail/internal/features/users/models"

	"github.com/google/uuid"
)

// AccessRequest is a user-initiated ask to join a project. Uniqueness
// is only enforced while PENDING; a rejected user may ask again via a
// brand-new row.
type AccessRequest struct {
	ID         uuid.UUID           `json:"id"         gorm:"column:id"`
	ProjectID  uuid.UUID           `json:"projectId"  gorm:"column:project_id;index"`
	UserID     uuid.UUID           `json:"userId"     gorm:"column:user_id"`
	Status     AccessRequestStatus `json:"status"     gorm:"column:status"`
	Message    *string             `json:"message"    gorm:"column:message"`
	ReviewedBy *uuid.UUID          `json:"reviewedBy" gorm:"column:reviewed_by"`
	ReviewedAt *time.Time          `json:"reviewedAt" gorm:"column:reviewed_at"`
	CreatedAt  time.Time           `json:"createdAt"  gorm:"column:created_at"`

	Project  *projects_models.Project `json:"-" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	User     *users_models.User       `json:"-" gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Reviewer *users_models.User       `json:"-" gorm:"foreignKey:ReviewedBy;constraint:OnDelete:SET NULL"`
}

func (AccessRequest) TableName() string {
	return "access_requests"
}
