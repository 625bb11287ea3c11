package integrations

import (
	"errors"
	"time"

	"bugtrail/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type IntegrationRepository struct{}

func (r *IntegrationRepository) GetGithubIntegration(projectID uuid.UUID) (*GithubIntegration, error) {
	var integration GithubIntegration

	err := storage.GetDb().
		Where("project_id = ?", projectID).
		First(&integration).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &integration, nil
}

func (r *IntegrationRepository) SaveGithubIntegration(integration *GithubIntegration) error {
	if integration.ID == uuid.Nil {
		integration.ID = uuid.New()
	}

	now := time.Now().UTC()
	if integration.CreatedAt.IsZero() {
		integration.CreatedAt = now
	}
	integration.UpdatedAt = now

	return storage.GetDb().Save(integration).Error
}

func (r *IntegrationRepository) DeleteGithubIntegration(projectID uuid.UUID) error {
	return storage.GetDb().
		Where("project_id = ?", projectID).
		Delete(&GithubIntegration{}).Error
}

func (r *IntegrationRepository) GetAgentConfig(projectID uuid.UUID) (*AgentConfig, error) {
	var config AgentConfig

	err := storage.GetDb().
		Where("project_id = ?", projectID).
		First(&config).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &config, nil
}

func (r *IntegrationRepository) SaveAgentConfig(config *AgentConfig) error {
	if config.ID == uuid.Nil {
		config.ID = uuid.New()
	}

	now := time.Now().UTC()
	if config.CreatedAt.IsZero() {
		config.CreatedAt = now
	}
	config.UpdatedAt = now

	return storage.GetDb().Save(config).Error
}
