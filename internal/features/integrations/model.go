package integrations

import (
	"time"

	projects_models "bugtrail/internal/features/projects/models"

	"github.com/google/uuid"
)

// GithubIntegration links a project to a GitHub repository. The access
// token is encrypted at rest and never serialized.
type GithubIntegration struct {
	ID           uuid.UUID `json:"id"           gorm:"column:id"`
	ProjectID    uuid.UUID `json:"projectId"    gorm:"column:project_id;uniqueIndex"`
	RepoFullName string    `json:"repoFullName" gorm:"column:repo_full_name"`
	Label        string    `json:"label"        gorm:"column:label"`
	TokenCipher  string    `json:"-"            gorm:"column:token_cipher"`
	CreatedAt    time.Time `json:"createdAt"    gorm:"column:created_at"`
	UpdatedAt    time.Time `json:"updatedAt"    gorm:"column:updated_at"`

	Project *projects_models.Project `json:"-" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

func (GithubIntegration) TableName() string {
	return "github_integrations"
}

// AgentConfig holds per-project settings for an AI triage agent.
type AgentConfig struct {
	ID        uuid.UUID `json:"id"        gorm:"column:id"`
	ProjectID uuid.UUID `json:"projectId" gorm:"column:project_id;uniqueIndex"`
	Enabled   bool      `json:"enabled"   gorm:"column:enabled"`
	Model     string    `json:"model"     gorm:"column:model"`
	Prompt    *string   `json:"prompt"    gorm:"column:prompt"`
	CreatedAt time.Time `json:"createdAt" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"column:updated_at"`

	Project *projects_models.Project `json:"-" gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE"`
}

func (AgentConfig) TableName() string {
	return "agent_configs"
}
