package widget

import (
	"github.com/google/uuid"
)

// WidgetConfigResponseDTO is what the embedded script learns about the
// project it reports into.
type WidgetConfigResponseDTO struct {
	ProjectID   uuid.UUID `json:"projectId"`
	ProjectName string    `json:"projectName"`
	ProjectSlug string    `json:"projectSlug"`
}

type UpdateWidgetRequestDTO struct {
	AllowedOrigins *[]string `json:"allowedOrigins"`
	Enabled        *bool     `json:"enabled"`
}
