package widget

import (
	"errors"
	"time"

	"bugtrail/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WidgetRepository struct{}

func (r *WidgetRepository) CreateWidgetToken(widgetToken *WidgetToken) error {
	if widgetToken.ID == uuid.Nil {
		widgetToken.ID = uuid.New()
	}

	now := time.Now().UTC()
	if widgetToken.CreatedAt.IsZero() {
		widgetToken.CreatedAt = now
	}
	widgetToken.UpdatedAt = now

	return storage.GetDb().Create(widgetToken).Error
}

func (r *WidgetRepository) GetWidgetTokenByProjectID(projectID uuid.UUID) (*WidgetToken, error) {
	var widgetToken WidgetToken

	err := storage.GetDb().
		Where("project_id = ?", projectID).
		First(&widgetToken).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &widgetToken, nil
}

func (r *WidgetRepository) GetWidgetTokenByToken(token string) (*WidgetToken, error) {
	var widgetToken WidgetToken

	err := storage.GetDb().
		Where("token = ?", token).
		First(&widgetToken).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &widgetToken, nil
}

func (r *WidgetRepository) UpdateWidgetToken(widgetToken *WidgetToken) error {
	widgetToken.UpdatedAt = time.Now().UTC()

	return storage.GetDb().Save(widgetToken).Error
}

func (r *WidgetRepository) DeleteWidgetTokenByProjectID(projectID uuid.UUID) error {
	return storage.GetDb().
		Where("project_id = ?", projectID).
		Delete(&WidgetToken{}).Error
}

// GetEnabledAllowlists returns the raw allowlist of every enabled
// widget. Feeds the aggregated origin snapshot.
func (r *WidgetRepository) GetEnabledAllowlists() ([]*WidgetToken, error) {
	var tokens []*WidgetToken

	err := storage.GetDb().
		Select("id", "project_id", "enabled", "allowed_origins_raw").
		Where("enabled = ?", true).
		Find(&tokens).Error

	return tokens, err
}
