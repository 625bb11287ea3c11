package projects_repositories

import (
	"errors"
	"time"

	projects_dto "bugtrail/internal/features/projects/dto"
	projects_models "bugtrail/internal/features/projects/models"
	users_enums "bugtrail/internal/features/users/enums"
	"bugtrail/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MemberRepository struct{}

func (r *MemberRepository) CreateMember(member *projects_models.ProjectMember) error {
	if member.ID == uuid.Nil {
		member.ID = uuid.New()
	}
	if member.CreatedAt.IsZero() {
		member.CreatedAt = time.Now().UTC()
	}

	return storage.GetDb().Create(member).Error
}

func (r *MemberRepository) GetMember(
	projectID, userID uuid.UUID,
) (*projects_models.ProjectMember, error) {
	var member projects_models.ProjectMember

	err := storage.GetDb().
		Where("project_id = ? AND user_id = ?", projectID, userID).
		First(&member).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &member, nil
}

func (r *MemberRepository) GetMemberByID(memberID uuid.UUID) (*projects_models.ProjectMember, error) {
	var member projects_models.ProjectMember

	err := storage.GetDb().Where("id = ?", memberID).First(&member).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return &member, nil
}

func (r *MemberRepository) GetMemberRole(
	projectID, userID uuid.UUID,
) (*users_enums.ProjectRole, error) {
	member, err := r.GetMember(projectID, userID)
	if err != nil || member == nil {
		return nil, err
	}

	return &member.Role, nil
}

func (r *MemberRepository) GetProjectMembers(
	projectID uuid.UUID,
) ([]projects_dto.ProjectMemberResponseDTO, error) {
	members := make([]projects_dto.ProjectMemberResponseDTO, 0)

	err := storage.GetDb().
		Table("project_members pm").
		Select("pm.id, pm.user_id, u.email, u.name, u.avatar_url, pm.role, pm.created_at").
		Joins("JOIN users u ON pm.user_id = u.id").
		Where("pm.project_id = ?", projectID).
		Order("pm.created_at ASC").
		Scan(&members).Error

	return members, err
}

func (r *MemberRepository) UpdateMemberRole(memberID uuid.UUID, role users_enums.ProjectRole) error {
	return storage.GetDb().
		Model(&projects_models.ProjectMember{}).
		Where("id = ?", memberID).
		Update("role", role).Error
}

func (r *MemberRepository) RemoveMember(memberID uuid.UUID) error {
	return storage.GetDb().
		Where("id = ?", memberID).
		Delete(&projects_models.ProjectMember{}).Error
}
