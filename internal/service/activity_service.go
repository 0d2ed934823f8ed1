package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/noah-isme/lms-go-api/internal/dto"
	"github.com/noah-isme/lms-go-api/internal/models"
	"github.com/noah-isme/lms-go-api/internal/repository"
	"github.com/noah-isme/lms-go-api/internal/security"
)

// ActivityService records and exposes the audit trail of privileged actions.
type ActivityService interface {
	// Record appends an audit entry. Failures are logged, never propagated:
	// auditing must not fail the operation being audited.
	Record(ctx context.Context, actor security.Identity, action, entityType string, entityID *uint, metadata map[string]interface{})
	List(ctx context.Context, filter repository.ActivityLogFilter) ([]dto.ActivityLogResponse, int64, error)
}

type activityService struct {
	repo   repository.ActivityLogRepository
	logger zerolog.Logger
}

// NewActivityService builds the audit trail service.
func NewActivityService(repo repository.ActivityLogRepository, logger zerolog.Logger) ActivityService {
	return &activityService{
		repo:   repo,
		logger: logger.With().Str("component", "activity_service").Logger(),
	}
}

func (s *activityService) Record(ctx context.Context, actor security.Identity, action, entityType string, entityID *uint, metadata map[string]interface{}) {
	role := actor.Role
	if actor.IsAdmin {
		role = "admin"
	}

	entry := models.ActivityLog{
		ActorID:    actor.UserID,
		ActorRole:  role,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Metadata:   metadata,
	}

	if err := s.repo.Create(ctx, &entry); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("failed to record activity")
	}
}

func (s *activityService) List(ctx context.Context, filter repository.ActivityLogFilter) ([]dto.ActivityLogResponse, int64, error) {
	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return dto.NewActivityLogResponseSlice(entries), total, nil
}
