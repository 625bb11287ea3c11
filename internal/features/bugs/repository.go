package bugs

import (
	"errors"
	"time"

	"bugtrail/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BugRepository struct{}

func (r *BugRepository) CreateBug(bug *Bug) error {
	if bug.ID == uuid.Nil {
		bug.ID = uuid.New()
	}

	now := time.Now().UTC()
	if bug.CreatedAt.IsZero() {
		bug.CreatedAt = now
	}
	bug.UpdatedAt = now

	return storage.GetDb().Create(bug).Error
}

func (r *BugRepository) GetBugByID(bugID uuid.UUID) (*Bug, error) {
	var bug Bug

	err := storage.GetDb().
		Preload("Project").
		Where("id = ?", bugID).
		First(&bug).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &bug, nil
}

func (r *BugRepository) GetBugsByProject(projectID uuid.UUID) ([]*Bug, error) {
	var result []*Bug

	err := storage.GetDb().
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&result).Error

	return result, err
}

func (r *BugRepository) UpdateBug(bug *Bug) error {
	bug.UpdatedAt = time.Now().UTC()

	return storage.GetDb().Save(bug).Error
}

func (r *BugRepository) DeleteBug(bugID uuid.UUID) error {
	return storage.GetDb().
		Where("id = ?", bugID).
		Delete(&Bug{}).Error
}
