package bugs

import (
	"errors"
	"fmt"

	audit_logs "bugtrail/internal/features/audit_logs"
	notifications_services "bugtrail/internal/features/notifications/services"
	projects_models "bugtrail/internal/features/projects/models"
	projects_services "bugtrail/internal/features/projects/services"
	users_enums "bugtrail/internal/features/users/enums"
	users_models "bugtrail/internal/features/users/models"
	users_services "bugtrail/internal/features/users/services"

	"github.com/google/uuid"
)

var (
	ErrBugNotFound     = errors.New("bug not found")
	ErrProjectNotFound = errors.New("project not found")
	ErrViewForbidden   = errors.New("you do not have access to this project")
	ErrCreateForbidden = errors.New("insufficient permissions to report bugs in this project")
	ErrEditForbidden   = errors.New("insufficient permissions to modify this bug")
	ErrDeleteForbidden = errors.New("insufficient permissions to delete this bug")
	ErrInvalidPriority = errors.New("invalid bug priority")
	ErrInvalidStatus   = errors.New("invalid bug status")
	ErrInvalidSource   = errors.New("invalid bug source")
)

// LabelSyncer mirrors bug status changes into an external tracker.
// Implementations must not block and must swallow their own failures.
type LabelSyncer interface {
	SyncBugStatus(projectID uuid.UUID, bugTitle string, status string)
}

type BugService struct {
	bugRepository   *BugRepository
	projectService  *projects_services.ProjectService
	accessService   *projects_services.AccessService
	userService     *users_services.UserService
	auditLogService *audit_logs.AuditLogService
	dispatcher      *notifications_services.Dispatcher

	labelSyncer LabelSyncer
}

// SetLabelSyncer is wired in by the integrations feature.
func (s *BugService) SetLabelSyncer(syncer LabelSyncer) {
	s.labelSyncer = syncer
}

// ListProjectBugs accepts a nil user so public projects stay readable
// without a session.
func (s *BugService) ListProjectBugs(
	projectID uuid.UUID,
	user *users_models.User,
) (*ListBugsResponseDTO, error) {
	project, err := s.projectService.GetProjectByID(projectID)
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
	if !level.AtLeast(users_enums.PermissionRead) {
		return nil, ErrViewForbidden
	}

	result, err := s.bugRepository.GetBugsByProject(projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bugs: %w", err)
	}

	return &ListBugsResponseDTO{Bugs: result}, nil
}

func (s *BugService) GetBug(bugID uuid.UUID, user *users_models.User) (*Bug, error) {
	bug, level, err := s.loadBugWithLevel(bugID, user)
	if err != nil {
		return nil, err
	}
	if !level.AtLeast(users_enums.PermissionRead) {
		return nil, ErrViewForbidden
	}

	return bug, nil
}

func (s *BugService) CreateBug(request *CreateBugRequestDTO, user *users_models.User) (*Bug, error) {
	project, err := s.projectService.GetProjectByID(request.ProjectID)
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
	if !level.AtLeast(users_enums.PermissionWrite) {
		return nil, ErrCreateForbidden
	}

	bug := &Bug{
		ID:            uuid.New(),
		Title:         request.Title,
		Description:   request.Description,
		Priority:      BugPriorityMedium,
		Status:        BugStatusTriage,
		Source:        BugSourceInternalQA,
		ProjectID:     project.ID,
		ReporterID:    &user.ID,
		ReporterEmail: request.ReporterEmail,
		Screenshots:   request.Screenshots,
	}

	if err := applyEnumFields(bug, request.Priority, nil, request.Source); err != nil {
		return nil, err
	}

	if err := s.bugRepository.CreateBug(bug); err != nil {
		return nil, fmt.Errorf("failed to create bug: %w", err)
	}

	s.auditLogService.WriteAuditLog(
		fmt.Sprintf("Bug reported: %s", bug.Title),
		&user.ID,
		&project.ID,
	)

	return bug, nil
}

// CreateExternalBug inserts a widget-reported bug with no reporter
// identity. The widget gateway has already authenticated the token and
// origin; no permission check happens here.
func (s *BugService) CreateExternalBug(
	project *projects_models.Project,
	request *CreateExternalBugRequestDTO,
) (*Bug, error) {
	bug := &Bug{
		ID:            uuid.New(),
		Title:         request.Title,
		Description:   request.Description,
		Priority:      BugPriorityMedium,
		Status:        BugStatusTriage,
		Source:        BugSourceCustomerReport,
		ProjectID:     project.ID,
		ReporterEmail: request.ReporterEmail,
		Screenshots:   request.Screenshots,
	}

	if err := applyEnumFields(bug, request.Priority, nil, request.Source); err != nil {
		return nil, err
	}

	if err := s.bugRepository.CreateBug(bug); err != nil {
		return nil, fmt.Errorf("failed to create bug: %w", err)
	}

	s.auditLogService.WriteAuditLog(
		fmt.Sprintf("Bug reported via widget: %s", bug.Title),
		nil,
		&project.ID,
	)

	return bug, nil
}

func (s *BugService) UpdateBug(
	bugID uuid.UUID,
	request *UpdateBugRequestDTO,
	user *users_models.User,
) (*Bug, error) {
	bug, level, err := s.loadBugWithLevel(bugID, user)
	if err != nil {
		return nil, err
	}

	canWrite := level.AtLeast(users_enums.PermissionWrite)
	if !canWrite && !isReporter(bug, user) {
		return nil, ErrEditForbidden
	}

	// Status keeps its WRITE gate even for the reporter; the reporter
	// privilege covers editing the report, not moving the pipeline.
	if request.Status != nil && !canWrite {
		return nil, ErrEditForbidden
	}

	if request.Title != nil {
		bug.Title = *request.Title
	}
	if request.Description != nil {
		bug.Description = request.Description
	}
	if request.ReporterEmail != nil {
		bug.ReporterEmail = request.ReporterEmail
	}
	if request.Screenshots != nil {
		bug.Screenshots = request.Screenshots
	}

	previousStatus := bug.Status
	if err := applyEnumFields(bug, request.Priority, request.Status, request.Source); err != nil {
		return nil, err
	}

	if err := s.bugRepository.UpdateBug(bug); err != nil {
		return nil, fmt.Errorf("failed to update bug: %w", err)
	}

	s.auditLogService.WriteAuditLog(
		fmt.Sprintf("Bug updated: %s", bug.Title),
		&user.ID,
		&bug.ProjectID,
	)

	if previousStatus != bug.Status {
		s.syncStatusChange(bug)
	}
	if previousStatus != BugStatusDeployed && bug.Status == BugStatusDeployed {
		s.notifyReporterDeployed(bug)
	}

	return bug, nil
}

func (s *BugService) ChangeStatus(
	bugID uuid.UUID,
	status BugStatus,
	user *users_models.User,
) (*Bug, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	bug, level, err := s.loadBugWithLevel(bugID, user)
	if err != nil {
		return nil, err
	}
	if !level.AtLeast(users_enums.PermissionWrite) {
		return nil, ErrEditForbidden
	}

	previousStatus := bug.Status
	bug.Status = status

	if err := s.bugRepository.UpdateBug(bug); err != nil {
		return nil, fmt.Errorf("failed to update bug status: %w", err)
	}

	s.auditLogService.WriteAuditLog(
		fmt.Sprintf("Bug status changed: %s (%s)", bug.Title, status),
		&user.ID,
		&bug.ProjectID,
	)

	if previousStatus != status {
		s.syncStatusChange(bug)
	}
	if previousStatus != BugStatusDeployed && status == BugStatusDeployed {
		s.notifyReporterDeployed(bug)
	}

	return bug, nil
}

func (s *BugService) syncStatusChange(bug *Bug) {
	if s.labelSyncer != nil {
		s.labelSyncer.SyncBugStatus(bug.ProjectID, bug.Title, string(bug.Status))
	}
}

func (s *BugService) DeleteBug(bugID uuid.UUID, user *users_models.User) error {
	bug, level, err := s.loadBugWithLevel(bugID, user)
	if err != nil {
		return err
	}

	if !level.AtLeast(users_enums.PermissionAdmin) && !isReporter(bug, user) {
		return ErrDeleteForbidden
	}

	if err := s.bugRepository.DeleteBug(bugID); err != nil {
		return fmt.Errorf("failed to delete bug: %w", err)
	}

	s.auditLogService.WriteAuditLog(
		fmt.Sprintf("Bug deleted: %s", bug.Title),
		&user.ID,
		&bug.ProjectID,
	)

	return nil
}

func (s *BugService) loadBugWithLevel(
	bugID uuid.UUID,
	user *users_models.User,
) (*Bug, users_enums.PermissionLevel, error) {
	bug, err := s.bugRepository.GetBugByID(bugID)
	if err != nil {
		return nil, users_enums.PermissionNone, fmt.Errorf("failed to load bug: %w", err)
	}
	if bug == nil || bug.Project == nil {
		return nil, users_enums.PermissionNone, ErrBugNotFound
	}

	level, err := s.accessService.PermissionLevel(user, bug.Project)
	if err != nil {
		return nil, users_enums.PermissionNone, fmt.Errorf("failed to resolve permissions: %w", err)
	}

	return bug, level, nil
}

// notifyReporterDeployed emails whoever reported the bug that the fix
// went live. Best effort only.
func (s *BugService) notifyReporterDeployed(bug *Bug) {
	email := ""
	if bug.ReporterEmail != nil && *bug.ReporterEmail != "" {
		email = *bug.ReporterEmail
	} else if bug.ReporterID != nil {
		reporter, err := s.userService.GetUserByID(*bug.ReporterID)
		if err != nil || reporter == nil {
			return
		}

		email = reporter.Email
	}

	if email == "" || bug.Project == nil {
		return
	}

	s.dispatcher.NotifyBugDeployed(email, bug.Title, bug.Project.Name, bug.Project.Slug)
}

func isReporter(bug *Bug, user *users_models.User) bool {
	return user != nil && bug.ReporterID != nil && *bug.ReporterID == user.ID
}

func applyEnumFields(bug *Bug, priority *BugPriority, status *BugStatus, source *BugSource) error {
	if priority != nil {
		if !priority.IsValid() {
			return ErrInvalidPriority
		}

		bug.Priority = *priority
	}

	if status != nil {
		if !status.IsValid() {
			return ErrInvalidStatus
		}

		bug.Status = *status
	}

	if source != nil {
		if !source.IsValid() {
			return ErrInvalidSource
		}

		bug.Source = *source
	}

	return nil
}
