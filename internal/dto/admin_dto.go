package dto

import (
	"time"

	"github.com/noah-isme/lms-go-api/internal/models"
)

// ActivityLogResponse is the serialized representation of an audit entry.
type ActivityLogResponse struct {
	ID         uint                   `json:"id"`
	ActorID    uint                   `json:"actor_id"`
	ActorRole  string                 `json:"actor_role"`
	Action     string                 `json:"action"`
	EntityType string                 `json:"entity_type"`
	EntityID   *uint                  `json:"entity_id"`
	Metadata   map[string]interface{} `json:"metadata"`
	CreatedAt  time.Time              `json:"created_at"`
}

// NewActivityLogResponse converts a model into a DTO.
func NewActivityLogResponse(model models.ActivityLog) ActivityLogResponse {
	return ActivityLogResponse{
		ID:         model.ID,
		ActorID:    model.ActorID,
		ActorRole:  model.ActorRole,
		Action:     model.Action,
		EntityType: model.EntityType,
		EntityID:   model.EntityID,
		Metadata:   model.Metadata,
		CreatedAt:  model.CreatedAt,
	}
}

// NewActivityLogResponseSlice converts a slice of models into DTOs.
func NewActivityLogResponseSlice(entries []models.ActivityLog) []ActivityLogResponse {
	responses := make([]ActivityLogResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, NewActivityLogResponse(entry))
	}

	return responses
}
