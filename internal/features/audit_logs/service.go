package audit_logs

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
)

type AuditLogService struct {
	auditLogRepository *AuditLogRepository
	logger             *slog.Logger
}

// WriteAuditLog records an action trail entry. Failures are logged and
// swallowed so a broken audit trail never fails the mutating operation.
func (s *AuditLogService) WriteAuditLog(
	message string,
	userID *uuid.UUID,
	projectID *uuid.UUID,
) {
	auditLog := &AuditLog{
		UserID:    userID,
		ProjectID: projectID,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.auditLogRepository.Create(auditLog); err != nil {
		s.logger.Error("failed to create audit log", "error", err)
	}
}

func (s *AuditLogService) GetProjectAuditLogs(projectID uuid.UUID, limit, offset int) ([]*AuditLog, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	offset = max(offset, 0)

	return s.auditLogRepository.GetByProject(projectID, limit, offset)
}
