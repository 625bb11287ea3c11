package widget

import (
	"strings"
	"time"

	projects_models "bugtrail/internal/features/projects/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// WidgetToken is a per-project capability for the unauthenticated
// reporting widget. A project has at most one; regenerating replaces
// the token value with no grace period.
type WidgetToken struct {
	ID        uuid.UUID `json:"id"        gorm:"column:id"`
	ProjectID uuid.UUID `json:"projectId" gorm:"column:project_id;uniqueIndex"`
	Token     string    `json:"token"     gorm:"column:token;uniqueIndex"`
	Enabled   bool      `json:"enabled"   gorm:"column:enabled"`
	CreatedAt time.Time `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"column:updated_at"`

	AllowedOriginsRaw string   `json:"-"              gorm:"column:allowed_origins_raw"`
	AllowedOrigins    []string `json:"allowedOrigins" gorm:"-"`

	Project *projects_models.Project `json:"-" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

func (WidgetToken) TableName() string {
	return "widget_tokens"
}

func (w *WidgetToken) BeforeSave(tx *gorm.DB) error {
	if len(w.AllowedOrigins) > 0 {
		w.AllowedOriginsRaw = strings.Join(w.AllowedOrigins, ",")
	} else {
		w.AllowedOriginsRaw = ""
	}

	return nil
}

func (w *WidgetToken) AfterFind(tx *gorm.DB) error {
	if w.AllowedOriginsRaw != "" {
		w.AllowedOrigins = strings.Split(w.AllowedOriginsRaw, ",")
		for i, origin := range w.AllowedOrigins {
			w.AllowedOrigins[i] = strings.TrimSpace(origin)
		}
	} else {
		w.AllowedOrigins = []string{}
	}

	return nil
}
