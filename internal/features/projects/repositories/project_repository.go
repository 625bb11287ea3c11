package projects_repositories

import (
	"time"

	projects_dto "bugtrail/internal/features/projects/dto"
	projects_models "bugtrail/internal/features/projects/models"
	"bugtrail/internal/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProjectRepository struct{}

func (r *ProjectRepository) CreateProject(project *projects_models.Project) error {
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	if project.CreatedAt.IsZero() {
		project.CreatedAt = time.Now().UTC()
	}

	return storage.GetDb().Create(project).Error
}

func (r *ProjectRepository) GetProjectByID(projectID uuid.UUID) (*projects_models.Project, error) {
	var project projects_models.Project

	if err := storage.GetDb().Where("id = ?", projectID).First(&project).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}

		return nil, err
	}

	return &project, nil
}

func (r *ProjectRepository) GetProjectBySlug(slug string) (*projects_models.Project, error) {
	var project projects_models.Project

	if err := storage.GetDb().Where("slug = ?", slug).First(&project).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}

		return nil, err
	}

	return &project, nil
}

func (r *ProjectRepository) SlugExists(slug string) (bool, error) {
	var count int64

	err := storage.GetDb().
		Model(&projects_models.Project{}).
		Where("slug = ?", slug).
		Count(&count).Error

	return count > 0, err
}

func (r *ProjectRepository) UpdateProject(project *projects_models.Project) error {
	return storage.GetDb().Save(project).Error
}

func (r *ProjectRepository) DeleteProject(projectID uuid.UUID) error {
	return storage.GetDb().Delete(&projects_models.Project{}, projectID).Error
}

// GetProjectsForUser returns projects the user owns or is a member of,
// with open bug counts and the user's relationship to each.
func (r *ProjectRepository) GetProjectsForUser(userID uuid.UUID) ([]projects_dto.ProjectResponseDTO, error) {
	results := make([]projects_dto.ProjectResponseDTO, 0)

	sql := `
		SELECT
			p.id,
			p.name,
			p.description,
			p.slug,
			p.is_public,
			p.owner_id,
			p.created_at,
			(SELECT COUNT(*) FROM bugs b WHERE b.project_id = p.id) AS bug_count,
			CASE WHEN p.owner_id = @user THEN 'OWNER' ELSE pm.role END AS member_role
		FROM projects p
		LEFT JOIN project_members pm ON pm.project_id = p.id AND pm.user_id = @user
		WHERE p.owner_id = @user OR pm.user_id IS NOT NULL
		ORDER BY p.created_at DESC`

	err := storage.GetDb().Raw(sql, map[string]any{"user": userID}).Scan(&results).Error

	return results, err
}

func (r *ProjectRepository) GetPublicProjects() ([]projects_dto.ProjectResponseDTO, error) {
	results := make([]projects_dto.ProjectResponseDTO, 0)

	sql := `
		SELECT
			p.id,
			p.name,
			p.description,
			p.slug,
			p.is_public,
			p.owner_id,
			p.created_at,
			(SELECT COUNT(*) FROM bugs b WHERE b.project_id = p.id) AS bug_count
		FROM projects p
		WHERE p.is_public = TRUE
		ORDER BY p.created_at DESC`

	err := storage.GetDb().Raw(sql).Scan(&results).Error

	return results, err
}
