package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Harisharivananthan/AI-Learning-Platform/internal/messaging"
	"github.com/Harisharivananthan/AI-Learning-Platform/internal/store"
	"github.com/Harisharivananthan/AI-Learning-Platform/pkg/models"
)

// ProgressService wraps progress writes so every mutation also reaches the
// event bus. Publishing is best-effort: a broker outage must not lose the
// database write.
type ProgressService struct {
	progress *store.ProgressStore
	bus      *messaging.MessageBus
	logger   *logrus.Logger
}

func NewProgressService(progress *store.ProgressStore, bus *messaging.MessageBus, logger *logrus.Logger) *ProgressService {
	return &ProgressService{progress: progress, bus: bus, logger: logger}
}

func (s *ProgressService) Record(ctx context.Context, req models.ProgressCreateRequest) (*models.Progress, error) {
	p, err := s.progress.Upsert(ctx, req)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, p)
	return p, nil
}

func (s *ProgressService) Update(ctx context.Context, id uuid.UUID, req models.ProgressUpdateRequest) (*models.Progress, error) {
	p, err := s.progress.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, p)
	return p, nil
}

func (s *ProgressService) ByUser(ctx context.Context, userID uuid.UUID) ([]models.Progress, error) {
	return s.progress.ByUser(ctx, userID)
}

func (s *ProgressService) publish(ctx context.Context, p *models.Progress) {
	err := s.bus.PublishProgress(ctx, messaging.ProgressEvent{
		UserID:     p.UserID,
		CourseID:   p.CourseID,
		Completion: p.Completion,
		Status:     p.Status,
		Timestamp:  time.Now(),
	})
	if err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"user_id": p.UserID, "course_id": p.CourseID,
		}).Warn("Failed to publish progress event")
	}
}
