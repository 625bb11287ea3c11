package bugs

import (
	"strings"
	"time"

	projects_models "bugtrail/internal/features/projects/models"
	users_models "bugtrail/internal/features/users/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Bug struct {
	ID            uuid.UUID   `json:"id"            gorm:"column:id"`
	Title         string      `json:"title"         gorm:"column:title"`
	Description   *string     `json:"description"   gorm:"column:description"`
	Priority      BugPriority `json:"priority"      gorm:"column:priority"`
	Status        BugStatus   `json:"status"        gorm:"column:status"`
	Source        BugSource   `json:"source"        gorm:"column:source"`
	ProjectID     uuid.UUID   `json:"projectId"     gorm:"column:project_id;index"`
	ReporterID    *uuid.UUID  `json:"reporterId"    gorm:"column:reporter_id"`
	ReporterEmail *string     `json:"reporterEmail" gorm:"column:reporter_email"`

	ScreenshotsRaw string   `json:"-"           gorm:"column:screenshots_raw"`
	Screenshots    []string `json:"screenshots" gorm:"-"`

	CreatedAt time.Time `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"column:updated_at"`

	Project  *projects_models.Project `json:"-" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
	Reporter *users_models.User       `json:"-" gorm:"foreignKey:ReporterID;constraint:OnDelete:SET NULL"`
}

func (Bug) TableName() string {
	return "bugs"
}

// Screenshot URLs are stored newline-joined in a single column to keep
// ordering without a join table.
func (b *Bug) BeforeSave(tx *gorm.DB) error {
	if len(b.Screenshots) > 0 {
		b.ScreenshotsRaw = strings.Join(b.Screenshots, "\n")
	} else {
		b.ScreenshotsRaw = ""
	}

	return nil
}

func (b *Bug) AfterFind(tx *gorm.DB) error {
	if b.ScreenshotsRaw != "" {
		b.Screenshots = strings.Split(b.ScreenshotsRaw, "\n")
	} else {
		b.Screenshots = []string{}
	}

	return nil
}
