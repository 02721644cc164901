package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"

	"github.com/Harisharivananthan/AI-Learning-Platform/pkg/models"
)

type ProgressStore struct {
	db     Querier
	logger *logrus.Logger
}

// Upsert records progress for a (user, course) pair. At most one row exists
// per pair; repeated writes replace completion and status.
func (s *ProgressStore) Upsert(ctx context.Context, req models.ProgressCreateRequest) (*models.Progress, error) {
	p := &models.Progress{
		ID:         uuid.New(),
		UserID:     req.UserID,
		CourseID:   req.CourseID,
		Completion: req.Completion,
		Status:     req.Status,
		UpdatedAt:  time.Now(),
	}
	if p.Status == "" {
		p.Status = statusFor(p.Completion)
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO progress (id, user_id, course_id, completion_percentage, status, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id, course_id)
		 DO UPDATE SET completion_percentage = $4, status = $5, updated_at = $6`,
		p.ID, p.UserID, p.CourseID, p.Completion, p.Status, p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert progress: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"user_id": p.UserID, "course_id": p.CourseID, "completion": p.Completion,
	}).Debug("Progress recorded")
	return p, nil
}

func (s *ProgressStore) Update(ctx context.Context, id uuid.UUID, req models.ProgressUpdateRequest) (*models.Progress, error) {
	status := req.Status
	if status == "" {
		status = statusFor(req.Completion)
	}

	var p models.Progress
	err := s.db.QueryRow(ctx,
		`UPDATE progress SET completion_percentage = $2, status = $3, updated_at = now()
		 WHERE id = $1
		 RETURNING id, user_id, course_id, completion_percentage, status, updated_at`,
		id, req.Completion, status).
		Scan(&p.ID, &p.UserID, &p.CourseID, &p.Completion, &p.Status, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update progress %s: %w", id, err)
	}
	return &p, nil
}

// ByUser returns the user's progress snapshot. An empty slice is the normal
// new-user case, not an error.
func (s *ProgressStore) ByUser(ctx context.Context, userID uuid.UUID) ([]models.Progress, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, course_id, completion_percentage, status, updated_at
		 FROM progress WHERE user_id = $1 ORDER BY updated_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query progress: %w", err)
	}
	defer rows.Close()

	var records []models.Progress
	for rows.Next() {
		var p models.Progress
		if err := rows.Scan(&p.ID, &p.UserID, &p.CourseID, &p.Completion, &p.Status, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan progress: %w", err)
		}
		records = append(records, p)
	}
	return records, rows.Err()
}

func statusFor(completion float64) string {
	switch {
	case completion >= 100:
		return models.StatusCompleted
	case completion > 0:
		return models.StatusInProgress
	default:
		return models.StatusNotStarted
	}
}
