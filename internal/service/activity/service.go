package activity

import (
	"context"

	"dashflow-service/internal/domain/activity"
	"dashflow-service/internal/repository/postgres"

	"go.uber.org/zap"
)

// Broadcaster pushes an activity entry to connected dashboard tabs. The
// websocket hub satisfies it.
type Broadcaster interface {
	BroadcastActivity(e *activity.Entry)
}

type ActivityService struct {
	repo        *postgres.ActivityRepository
	broadcaster Broadcaster
	logger      *zap.Logger
}

func NewActivityService(repo *postgres.ActivityRepository, broadcaster Broadcaster, logger *zap.Logger) *ActivityService {
	return &ActivityService{
		repo:        repo,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// Record appends an audit entry. Failures are logged, never propagated: an
// audit miss must not fail the mutation it describes.
func (s *ActivityService) Record(ctx context.Context, actor, action, detail string) {
	e := &activity.Entry{
		Actor:  actor,
		Action: action,
		Detail: detail,
	}

	if err := s.repo.Insert(ctx, e); err != nil {
		s.logger.Error("failed to record activity",
			zap.String("action", action),
			zap.Error(err),
		)
		return
	}

	if s.broadcaster != nil {
		s.broadcaster.BroadcastActivity(e)
	}
}

// List returns the newest entries first.
func (s *ActivityService) List(ctx context.Context, limit int) ([]*activity.Entry, error) {
	return s.repo.List(ctx, limit)
}
