package projects_interfaces

import "github.com/google/uuid"

// ProjectDeletionListener lets dependent features (widget tokens,
// integrations) react before a project row disappears, e.g. to drop
// cache entries that would otherwise keep serving a deleted project.
type ProjectDeletionListener interface {
	OnBeforeProjectDeletion(projectID uuid.UUID) error
}
