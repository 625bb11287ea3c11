package widget

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	audit_logs "bugtrail/internal/features/audit_logs"
	bugs "bugtrail/internal/features/bugs"
	projects_models "bugtrail/internal/features/projects/models"
	projects_repositories "bugtrail/internal/features/projects/repositories"
	projects_services "bugtrail/internal/features/projects/services"
	users_enums "bugtrail/internal/features/users/enums"
	users_models "bugtrail/internal/features/users/models"
	cache_utils "bugtrail/internal/util/cache"
	"bugtrail/internal/util/logger"
	rate_limit "bugtrail/internal/util/rate_limit"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

var (
	ErrInvalidToken        = errors.New("invalid or disabled widget token")
	ErrOriginNotAllowed    = errors.New("origin is not allowed for this widget")
	ErrRateLimited         = errors.New("too many widget requests")
	ErrProjectNotFound     = errors.New("project not found")
	ErrManageForbidden     = errors.New("insufficient permissions to manage the widget")
	ErrWidgetNotConfigured = errors.New("widget is not configured for this project")
)

const (
	widgetTokenPrefix = "bt_"
	widgetTokenLength = 32

	widgetRPSLimit   = 5
	widgetBurstLimit = 15

	originSnapshotTTL = time.Minute
)

var log = logger.GetLogger()

// CachedWidgetToken is the cache projection of a widget token. Misses
// are cached too so unknown tokens cannot hammer the store.
type CachedWidgetToken struct {
	ProjectID      uuid.UUID `json:"projectId"`
	Enabled        bool      `json:"enabled"`
	AllowedOrigins []string  `json:"allowedOrigins"`
	NotFound       bool      `json:"notFound"`
}

type WidgetService struct {
	widgetRepository  *WidgetRepository
	projectRepository *projects_repositories.ProjectRepository
	accessService     *projects_services.AccessService
	bugService        *bugs.BugService
	auditLogService   *audit_logs.AuditLogService
	rateLimiter       *rate_limit.RateLimiter

	tokenCache   *cache_utils.CacheUtil[CachedWidgetToken]
	singleflight singleflight.Group

	// Aggregated allowlist across all enabled widgets, refreshed on a
	// short TTL and kept as last-known-good when refresh fails.
	snapshotMu      sync.Mutex
	snapshotOrigins map[string]struct{}
	snapshotOpen    bool
	snapshotAt      time.Time
}

// ResolveByToken authenticates an unauthenticated widget request. The
// token must exist and be enabled, and when the caller sent an Origin
// header it must pass the allowlist.
func (s *WidgetService) ResolveByToken(token, origin string) (*projects_models.Project, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	tokenHash := hashWidgetToken(token)

	if result, err := s.rateLimiter.CheckRateLimit(tokenHash, widgetRPSLimit, widgetBurstLimit); err != nil {
		log.Warn("Widget rate limit check failed, allowing request", "error", err)
	} else if !result.Allowed {
		return nil, ErrRateLimited
	}

	cached, err := s.lookupToken(token, tokenHash)
	if err != nil {
		return nil, err
	}
	if cached.NotFound || !cached.Enabled {
		return nil, ErrInvalidToken
	}

	if origin != "" && !isOriginAllowed(origin, cached.AllowedOrigins) {
		return nil, ErrOriginNotAllowed
	}

	project, err := s.projectRepository.GetProjectByID(cached.ProjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to load project: %w", err)
	}
	if project == nil {
		s.tokenCache.Invalidate(tokenHash)
		return nil, ErrInvalidToken
	}

	return project, nil
}

func (s *WidgetService) GetConfig(token, origin string) (*WidgetConfigResponseDTO, error) {
	project, err := s.ResolveByToken(token, origin)
	if err != nil {
		return nil, err
	}

	return &WidgetConfigResponseDTO{
		ProjectID:   project.ID,
		ProjectName: project.Name,
		ProjectSlug: project.Slug,
	}, nil
}

func (s *WidgetService) CreateWidgetBug(
	token, origin string,
	request *bugs.CreateExternalBugRequestDTO,
) (*bugs.Bug, error) {
	project, err := s.ResolveByToken(token, origin)
	if err != nil {
		return nil, err
	}

	return s.bugService.CreateExternalBug(project, request)
}

func (s *WidgetService) GetSettings(slug string, user *users_models.User) (*WidgetToken, error) {
	project, err := s.loadProjectForManage(slug, user)
	if err != nil {
		return nil, err
	}

	widgetToken, err := s.widgetRepository.GetWidgetTokenByProjectID(project.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load widget settings: %w", err)
	}
	if widgetToken == nil {
		return nil, ErrWidgetNotConfigured
	}

	return widgetToken, nil
}

// GenerateToken creates the widget on first call and replaces the token
// on subsequent ones. The previous token stops working immediately.
func (s *WidgetService) GenerateToken(slug string, user *users_models.User) (*WidgetToken, error) {
	project, err := s.loadProjectForManage(slug, user)
	if err != nil {
		return nil, err
	}

	token, err := generateWidgetTokenValue()
	if err != nil {
		return nil, fmt.Errorf("failed to generate widget token: %w", err)
	}

	widgetToken, err := s.widgetRepository.GetWidgetTokenByProjectID(project.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load widget settings: %w", err)
	}

	if widgetToken == nil {
		widgetToken = &WidgetToken{
			ID:             uuid.New(),
			ProjectID:      project.ID,
			Token:          token,
			Enabled:        true,
			AllowedOrigins: []string{},
		}

		if err := s.widgetRepository.CreateWidgetToken(widgetToken); err != nil {
			return nil, fmt.Errorf("failed to create widget token: %w", err)
		}
	} else {
		s.tokenCache.Invalidate(hashWidgetToken(widgetToken.Token))
		widgetToken.Token = token

		if err := s.widgetRepository.UpdateWidgetToken(widgetToken); err != nil {
			return nil, fmt.Errorf("failed to update widget token: %w", err)
		}
	}

	s.auditLogService.WriteAuditLog("Widget token generated", &user.ID, &project.ID)

	return widgetToken, nil
}

func (s *WidgetService) UpdateSettings(
	slug string,
	request *UpdateWidgetRequestDTO,
	user *users_models.User,
) (*WidgetToken, error) {
	project, err := s.loadProjectForManage(slug, user)
	if err != nil {
		return nil, err
	}

	widgetToken, err := s.widgetRepository.GetWidgetTokenByProjectID(project.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load widget settings: %w", err)
	}
	if widgetToken == nil {
		return nil, ErrWidgetNotConfigured
	}

	if request.AllowedOrigins != nil {
		widgetToken.AllowedOrigins = *request.AllowedOrigins
	}
	if request.Enabled != nil {
		widgetToken.Enabled = *request.Enabled
	}

	if err := s.widgetRepository.UpdateWidgetToken(widgetToken); err != nil {
		return nil, fmt.Errorf("failed to update widget settings: %w", err)
	}

	s.tokenCache.Invalidate(hashWidgetToken(widgetToken.Token))

	s.auditLogService.WriteAuditLog("Widget settings updated", &user.ID, &project.ID)

	return widgetToken, nil
}

func (s *WidgetService) DeleteWidget(slug string, user *users_models.User) error {
	project, err := s.loadProjectForManage(slug, user)
	if err != nil {
		return err
	}

	widgetToken, err := s.widgetRepository.GetWidgetTokenByProjectID(project.ID)
	if err != nil {
		return fmt.Errorf("failed to load widget settings: %w", err)
	}
	if widgetToken == nil {
		return ErrWidgetNotConfigured
	}

	if err := s.widgetRepository.DeleteWidgetTokenByProjectID(project.ID); err != nil {
		return fmt.Errorf("failed to delete widget token: %w", err)
	}

	s.tokenCache.Invalidate(hashWidgetToken(widgetToken.Token))

	s.auditLogService.WriteAuditLog("Widget deleted", &user.ID, &project.ID)

	return nil
}

// OnBeforeProjectDeletion drops the widget token row ahead of the
// project row and evicts it from the cache, so the token dies with the
// project instead of lingering until cache expiry.
func (s *WidgetService) OnBeforeProjectDeletion(projectID uuid.UUID) error {
	widgetToken, err := s.widgetRepository.GetWidgetTokenByProjectID(projectID)
	if err != nil {
		return fmt.Errorf("failed to load widget token: %w", err)
	}
	if widgetToken == nil {
		return nil
	}

	if err := s.widgetRepository.DeleteWidgetTokenByProjectID(projectID); err != nil {
		return fmt.Errorf("failed to delete widget token: %w", err)
	}

	s.tokenCache.Invalidate(hashWidgetToken(widgetToken.Token))

	return nil
}

// IsKnownWidgetOrigin answers the CORS preflight question for widget
// endpoints from the aggregated snapshot. It refreshes on a short TTL
// and serves the previous snapshot when the store is unavailable.
func (s *WidgetService) IsKnownWidgetOrigin(origin string) bool {
	s.snapshotMu.Lock()
	defer s.snapshotMu.Unlock()

	if time.Since(s.snapshotAt) > originSnapshotTTL {
		s.refreshSnapshotLocked()
	}

	if s.snapshotOpen {
		return true
	}

	normalized := normalizeOrigin(origin)
	if normalized == "" {
		return false
	}

	_, ok := s.snapshotOrigins[normalized]

	return ok
}

func (s *WidgetService) refreshSnapshotLocked() {
	tokens, err := s.widgetRepository.GetEnabledAllowlists()
	if err != nil {
		log.Warn("Failed to refresh widget origin snapshot, keeping previous", "error", err)
		s.snapshotAt = time.Now()
		return
	}

	origins := make(map[string]struct{})
	open := false

	for _, widgetToken := range tokens {
		if len(widgetToken.AllowedOrigins) == 0 {
			open = true
			continue
		}

		for _, entry := range widgetToken.AllowedOrigins {
			if entry == originWildcard {
				open = true
				continue
			}

			if normalized := normalizeOrigin(entry); normalized != "" {
				origins[normalized] = struct{}{}
			}
		}
	}

	s.snapshotOrigins = origins
	s.snapshotOpen = open
	s.snapshotAt = time.Now()
}

func (s *WidgetService) lookupToken(token, tokenHash string) (*CachedWidgetToken, error) {
	if cached := s.tokenCache.Get(tokenHash); cached != nil {
		return cached, nil
	}

	result, err, _ := s.singleflight.Do(tokenHash, func() (any, error) {
		return s.widgetRepository.GetWidgetTokenByToken(token)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to look up widget token: %w", err)
	}

	widgetToken, ok := result.(*WidgetToken)
	if !ok {
		return nil, fmt.Errorf("unexpected widget token lookup result")
	}

	var cached *CachedWidgetToken
	if widgetToken == nil {
		cached = &CachedWidgetToken{NotFound: true}
	} else {
		cached = &CachedWidgetToken{
			ProjectID:      widgetToken.ProjectID,
			Enabled:        widgetToken.Enabled,
			AllowedOrigins: widgetToken.AllowedOrigins,
		}
	}

	s.tokenCache.Set(tokenHash, cached)

	return cached, nil
}

func (s *WidgetService) loadProjectForManage(
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

func generateWidgetTokenValue() (string, error) {
	tokenBytes := make([]byte, widgetTokenLength/2)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", err
	}

	return widgetTokenPrefix + hex.EncodeToString(tokenBytes), nil
}

func hashWidgetToken(token string) string {
	hasher := sha256.New()
	hasher.Write([]byte(token))

	return hex.EncodeToString(hasher.Sum(nil))
}
