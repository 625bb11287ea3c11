package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	audit_logs "bugtrail/internal/features/audit_logs"
	projects_models "bugtrail/internal/features/projects/models"
	projects_repositories "bugtrail/internal/features/projects/repositories"
	projects_services "bugtrail/internal/features/projects/services"
	users_enums "bugtrail/internal/features/users/enums"
	users_models "bugtrail/internal/features/users/models"
	users_repositories "bugtrail/internal/features/users/repositories"
	"bugtrail/internal/util/logger"

	"github.com/google/uuid"
)

var (
	ErrProjectNotFound     = errors.New("project not found")
	ErrManageForbidden     = errors.New("insufficient permissions to manage integrations")
	ErrIntegrationNotFound = errors.New("github integration not found")
)

const githubDispatchTimeout = 10 * time.Second

var log = logger.GetLogger()

type IntegrationService struct {
	integrationRepository *IntegrationRepository
	projectRepository     *projects_repositories.ProjectRepository
	accessService         *projects_services.AccessService
	secretKeyRepository   *users_repositories.SecretKeyRepository
	auditLogService       *audit_logs.AuditLogService
	httpClient            *http.Client
	githubAPIBase         string
}

func (s *IntegrationService) GetIntegrations(
	slug string,
	user *users_models.User,
) (*IntegrationsResponseDTO, error) {
	project, err := s.loadProjectForManage(slug, user)
	if err != nil {
		return nil, err
	}

	github, err := s.integrationRepository.GetGithubIntegration(project.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load github integration: %w", err)
	}

	agent, err := s.integrationRepository.GetAgentConfig(project.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load agent config: %w", err)
	}

	return &IntegrationsResponseDTO{Github: github, Agent: agent}, nil
}

func (s *IntegrationService) UpsertGithubIntegration(
	slug string,
	request *UpsertGithubIntegrationRequestDTO,
	user *users_models.User,
) (*GithubIntegration, error) {
	project, err := s.loadProjectForManage(slug, user)
	if err != nil {
		return nil, err
	}

	integration, err := s.integrationRepository.GetGithubIntegration(project.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load github integration: %w", err)
	}

	if integration == nil {
		integration = &GithubIntegration{
			ID:        uuid.New(),
			ProjectID: project.ID,
		}
	}

	integration.RepoFullName = request.RepoFullName
	integration.Label = request.Label

	if request.AccessToken != nil && *request.AccessToken != "" {
		secret, err := s.secretKeyRepository.GetSecretKey()
		if err != nil {
			return nil, fmt.Errorf("failed to load server secret: %w", err)
		}

		cipher, err := encryptToken(secret, *request.AccessToken)
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt access token: %w", err)
		}

		integration.TokenCipher = cipher
	}

	if err := s.integrationRepository.SaveGithubIntegration(integration); err != nil {
		return nil, fmt.Errorf("failed to save github integration: %w", err)
	}

	s.auditLogService.WriteAuditLog(
		fmt.Sprintf("GitHub integration configured: %s", integration.RepoFullName),
		&user.ID,
		&project.ID,
	)

	return integration, nil
}

func (s *IntegrationService) DeleteGithubIntegration(slug string, user *users_models.User) error {
	project, err := s.loadProjectForManage(slug, user)
	if err != nil {
		return err
	}

	integration, err := s.integrationRepository.GetGithubIntegration(project.ID)
	if err != nil {
		return fmt.Errorf("failed to load github integration: %w", err)
	}
	if integration == nil {
		return ErrIntegrationNotFound
	}

	if err := s.integrationRepository.DeleteGithubIntegration(project.ID); err != nil {
		return fmt.Errorf("failed to delete github integration: %w", err)
	}

	s.auditLogService.WriteAuditLog("GitHub integration removed", &user.ID, &project.ID)

	return nil
}

func (s *IntegrationService) UpsertAgentConfig(
	slug string,
	request *UpsertAgentConfigRequestDTO,
	user *users_models.User,
) (*AgentConfig, error) {
	project, err := s.loadProjectForManage(slug, user)
	if err != nil {
		return nil, err
	}

	config, err := s.integrationRepository.GetAgentConfig(project.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load agent config: %w", err)
	}

	if config == nil {
		config = &AgentConfig{
			ID:        uuid.New(),
			ProjectID: project.ID,
		}
	}

	config.Enabled = request.Enabled
	config.Model = request.Model
	config.Prompt = request.Prompt

	if err := s.integrationRepository.SaveAgentConfig(config); err != nil {
		return nil, fmt.Errorf("failed to save agent config: %w", err)
	}

	s.auditLogService.WriteAuditLog("Agent config updated", &user.ID, &project.ID)

	return config, nil
}

// SyncBugStatus pushes a bug status change to the linked repository as
// a repository_dispatch event. Best effort from a goroutine so the bug
// update never waits on GitHub.
func (s *IntegrationService) SyncBugStatus(projectID uuid.UUID, bugTitle string, status string) {
	go func() {
		integration, err := s.integrationRepository.GetGithubIntegration(projectID)
		if err != nil {
			log.Warn("Failed to load github integration for status sync", "error", err)
			return
		}
		if integration == nil || integration.TokenCipher == "" {
			return
		}

		secret, err := s.secretKeyRepository.GetSecretKey()
		if err != nil {
			log.Warn("Failed to load server secret for status sync", "error", err)
			return
		}

		token, err := decryptToken(secret, integration.TokenCipher)
		if err != nil {
			log.Warn("Failed to decrypt github token", "error", err)
			return
		}

		if err := s.sendRepositoryDispatch(integration, token, bugTitle, status); err != nil {
			log.Warn("GitHub status sync failed",
				"repo", integration.RepoFullName, "error", err)
		}
	}()
}

func (s *IntegrationService) sendRepositoryDispatch(
	integration *GithubIntegration,
	token, bugTitle, status string,
) error {
	payload := map[string]any{
		"event_type": "bugtrail_bug_status",
		"client_payload": map[string]string{
			"title":  bugTitle,
			"status": status,
			"label":  integration.Label,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), githubDispatchTimeout)
	defer cancel()

	url := fmt.Sprintf("%s/repos/%s/dispatches", s.githubAPIBase, integration.RepoFullName)

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}

	request.Header.Set("Accept", "application/vnd.github+json")
	request.Header.Set("Authorization", "Bearer "+token)
	request.Header.Set("Content-Type", "application/json")

	response, err := s.httpClient.Do(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if response.StatusCode >= 300 {
		return fmt.Errorf("github responded with status %d", response.StatusCode)
	}

	return nil
}

func (s *IntegrationService) loadProjectForManage(
	slug string,
	user *users_models.User,
) (*projects_models.Project, error) {
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
		return nil, ErrManageForbidden
	}

	return project, nil
}
