package projects_services

import (
	"errors"
	"fmt"
	"time"

	audit_logs "bugtrail/internal/features/audit_logs"
	projects_dto "bugtrail/internal/features/projects/dto"
	projects_interfaces "bugtrail/internal/features/projects/interfaces"
	projects_models "bugtrail/internal/features/projects/models"
	projects_repositories "bugtrail/internal/features/projects/repositories"
	users_enums "bugtrail/internal/features/users/enums"
	users_models "bugtrail/internal/features/users/models"

	"github.com/google/uuid"
)

var (
	ErrProjectNotFound    = errors.New("project not found")
	ErrViewForbidden      = errors.New("insufficient permissions to view project")
	ErrOnlyOwnerCanUpdate = errors.New("only the project owner can update the project")
	ErrOnlyOwnerCanDelete = errors.New("only the project owner can delete the project")
)

type ProjectService struct {
	projectRepository *projects_repositories.ProjectRepository
	memberRepository  *projects_repositories.MemberRepository
	accessService     *AccessService
	auditLogService   *audit_logs.AuditLogService

	projectDeletionListeners []projects_interfaces.ProjectDeletionListener
}

func (s *ProjectService) AddProjectDeletionListener(listener projects_interfaces.ProjectDeletionListener) {
	s.projectDeletionListeners = append(s.projectDeletionListeners, listener)
}

func (s *ProjectService) CreateProject(
	request *projects_dto.CreateProjectRequestDTO,
	creator *users_models.User,
) (*projects_dto.ProjectResponseDTO, error) {
	slug, err := s.generateUniqueSlug(request.Name)
	if err != nil {
		return nil, err
	}

	project := &projects_models.Project{
		ID:          uuid.New(),
		Name:        request.Name,
		Description: request.Description,
		Slug:        slug,
		IsPublic:    request.IsPublic,
		OwnerID:     creator.ID,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.projectRepository.CreateProject(project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.auditLogService.WriteAuditLog(
		fmt.Sprintf("Project created: %s", project.Name),
		&creator.ID,
		&project.ID,
	)

	ownerRole := users_enums.PermissionOwner.String()
	return &projects_dto.ProjectResponseDTO{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		Slug:        project.Slug,
		IsPublic:    project.IsPublic,
		OwnerID:     project.OwnerID,
		CreatedAt:   project.CreatedAt,
		MemberRole:  &ownerRole,
	}, nil
}

// GetProjectBySlug enforces READ access; user may be nil for anonymous
// callers, who can still read public projects.
func (s *ProjectService) GetProjectBySlug(
	slug string,
	user *users_models.User,
) (*projects_models.Project, error) {
	project, err := s.projectRepository.GetProjectBySlug(slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}

	level, err := s.accessService.PermissionLevel(user, project)
	if err != nil {
		return nil, err
	}
	if !level.AtLeast(users_enums.PermissionRead) {
		return nil, ErrViewForbidden
	}

	return project, nil
}

func (s *ProjectService) GetUserProjects(user *users_models.User) (*projects_dto.ListProjectsResponseDTO, error) {
	projects, err := s.projectRepository.GetProjectsForUser(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user projects: %w", err)
	}

	return &projects_dto.ListProjectsResponseDTO{Projects: projects}, nil
}

func (s *ProjectService) GetPublicProjects() (*projects_dto.ListProjectsResponseDTO, error) {
	projects, err := s.projectRepository.GetPublicProjects()
	if err != nil {
		return nil, fmt.Errorf("failed to get public projects: %w", err)
	}

	return &projects_dto.ListProjectsResponseDTO{Projects: projects}, nil
}

func (s *ProjectService) UpdateProject(
	projectID uuid.UUID,
	request *projects_dto.UpdateProjectRequestDTO,
	user *users_models.User,
) (*projects_models.Project, error) {
	project, err := s.projectRepository.GetProjectByID(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}

	if project.OwnerID != user.ID {
		return nil, ErrOnlyOwnerCanUpdate
	}

	if request.Name != nil {
		project.Name = *request.Name
	}
	if request.Description != nil {
		project.Description = request.Description
	}
	if request.IsPublic != nil {
		project.IsPublic = *request.IsPublic
	}

	if err := s.projectRepository.UpdateProject(project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	s.auditLogService.WriteAuditLog(
		fmt.Sprintf("Project updated: %s", project.Name),
		&user.ID,
		&projectID,
	)

	return project, nil
}

func (s *ProjectService) DeleteProject(projectID uuid.UUID, user *users_models.User) error {
	project, err := s.projectRepository.GetProjectByID(projectID)
	if err != nil {
		return fmt.Errorf("failed to get project: %w", err)
	}
	if project == nil {
		return ErrProjectNotFound
	}

	if project.OwnerID != user.ID {
		return ErrOnlyOwnerCanDelete
	}

	for _, listener := range s.projectDeletionListeners {
		if err := listener.OnBeforeProjectDeletion(projectID); err != nil {
			return fmt.Errorf("failed to delete project: %w", err)
		}
	}

	if err := s.projectRepository.DeleteProject(projectID); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	s.auditLogService.WriteAuditLog(
		fmt.Sprintf("Project deleted: %s", project.Name),
		&user.ID,
		&projectID,
	)

	return nil
}

func (s *ProjectService) GetProjectByID(projectID uuid.UUID) (*projects_models.Project, error) {
	return s.projectRepository.GetProjectByID(projectID)
}

// GetProjectAuditLogs requires admin rights on the project.
func (s *ProjectService) GetProjectAuditLogs(
	slug string,
	user *users_models.User,
	limit, offset int,
) ([]*audit_logs.AuditLog, error) {
	project, err := s.projectRepository.GetProjectBySlug(slug)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}

	level, err := s.accessService.PermissionLevel(user, project)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve permissions: %w", err)
	}
	if !level.AtLeast(users_enums.PermissionAdmin) {
		return nil, ErrViewForbidden
	}

	return s.auditLogService.GetProjectAuditLogs(project.ID, limit, offset)
}

func (s *ProjectService) GetAccessService() *AccessService {
	return s.accessService
}
