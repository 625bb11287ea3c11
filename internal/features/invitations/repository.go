package invitations

import (
	"errors"
	"time"

	projects_models "bugtrail/internal/features/projects/models"
	"bugtrail/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type InvitationRepository struct{}

func (r *InvitationRepository) CreateInvitation(invitation *Invitation) error {
	if invitation.ID == uuid.Nil {
		invitation.ID = uuid.New()
	}

	if invitation.CreatedAt.IsZero() {
		invitation.CreatedAt = time.Now().UTC()
	}

	return storage.GetDb().Create(invitation).Error
}

func (r *InvitationRepository) GetInvitationByToken(token string) (*Invitation, error) {
	var invitation Invitation

	err := storage.GetDb().
		Preload("Project").
		Preload("Inviter").
		Where("token = ?", token).
		First(&invitation).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &invitation, nil
}

// HasPendingInvitation reports whether a live invitation already exists
// for this email and project.
func (r *InvitationRepository) HasPendingInvitation(email string, projectID uuid.UUID) (bool, error) {
	var count int64

	err := storage.GetDb().
		Model(&Invitation{}).
		Where("LOWER(email) = LOWER(?) AND project_id = ? AND status = ? AND expires_at > ?",
			email, projectID, InvitationStatusPending, time.Now().UTC()).
		Count(&count).Error

	return count > 0, err
}

// GetPendingInvitationsByEmail returns live invitations addressed to an
// email, matched case-insensitively.
func (r *InvitationRepository) GetPendingInvitationsByEmail(email string) ([]*Invitation, error) {
	var result []*Invitation

	err := storage.GetDb().
		Preload("Project").
		Preload("Inviter").
		Where("LOWER(email) = LOWER(?) AND status = ? AND expires_at > ?",
			email, InvitationStatusPending, time.Now().UTC()).
		Order("created_at DESC").
		Find(&result).Error

	return result, err
}

func (r *InvitationRepository) MarkAccepted(invitationID uuid.UUID) error {
	return storage.GetDb().
		Model(&Invitation{}).
		Where("id = ?", invitationID).
		Update("status", InvitationStatusAccepted).Error
}

// AcceptAllPending converts the given invitations into memberships for
// the user in a single transaction. Either every invitation is marked
// accepted with its membership created, or none are.
func (r *InvitationRepository) AcceptAllPending(userID uuid.UUID, pending []*Invitation) error {
	return storage.GetDb().Transaction(func(tx *gorm.DB) error {
		for _, invitation := range pending {
			var count int64

			err := tx.Model(&projects_models.ProjectMember{}).
				Where("project_id = ? AND user_id = ?", invitation.ProjectID, userID).
				Count(&count).Error
			if err != nil {
				return err
			}

			if count == 0 {
				member := &projects_models.ProjectMember{
					ID:        uuid.New(),
					ProjectID: invitation.ProjectID,
					UserID:    userID,
					Role:      invitation.Role,
					InvitedBy: invitation.InvitedBy,
					CreatedAt: time.Now().UTC(),
				}

				if err := tx.Create(member).Error; err != nil {
					return err
				}
			}

			err = tx.Model(&Invitation{}).
				Where("id = ?", invitation.ID).
				Update("status", InvitationStatusAccepted).Error
			if err != nil {
				return err
			}
		}

		return nil
	})
}
