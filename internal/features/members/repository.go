package members

import (
	"errors"
	"time"

	"bugtrail/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AccessRequestRepository struct{}

func (r *AccessRequestRepository) CreateAccessRequest(request *AccessRequest) error {
	if request.ID == uuid.Nil {
		request.ID = uuid.New()
	}

	if request.CreatedAt.IsZero() {
		request.CreatedAt = time.Now().UTC()
	}

	return storage.GetDb().Create(request).Error
}

func (r *AccessRequestRepository) GetAccessRequestByID(requestID uuid.UUID) (*AccessRequest, error) {
	var request AccessRequest

	err := storage.GetDb().
		Preload("Project").
		Preload("User").
		Where("id = ?", requestID).
		First(&request).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &request, nil
}

func (r *AccessRequestRepository) HasPendingRequest(projectID, userID uuid.UUID) (bool, error) {
	var count int64

	err := storage.GetDb().
		Model(&AccessRequest{}).
		Where("project_id = ? AND user_id = ? AND status = ?",
			projectID, userID, AccessRequestStatusPending).
		Count(&count).Error

	return count > 0, err
}

func (r *AccessRequestRepository) GetPendingRequestsByProject(projectID uuid.UUID) ([]*AccessRequest, error) {
	var requests []*AccessRequest

	err := storage.GetDb().
		Preload("User").
		Where("project_id = ? AND status = ?", projectID, AccessRequestStatusPending).
		Order("created_at ASC").
		Find(&requests).Error

	return requests, err
}

func (r *AccessRequestRepository) UpdateAccessRequest(request *AccessRequest) error {
	return storage.GetDb().Save(request).Error
}
