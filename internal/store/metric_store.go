package store

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/Harisharivananthan/AI-Learning-Platform/pkg/models"
)

type MetricStore struct {
	db     Querier
	logger *logrus.Logger
}

func (s *MetricStore) Save(ctx context.Context, sample models.MetricSample) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO learning_metrics (users_active, course_count, avg_completion, progress_events, api_calls_today, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		sample.ActiveUsers, sample.CourseCount, sample.AvgCompletion,
		sample.ProgressEvents, sample.APICallsToday, sample.Timestamp)
	if err != nil {
		return fmt.Errorf("failed to save metric sample: %w", err)
	}
	return nil
}

// History returns samples in ascending time order, optionally bounded by a
// [from, to) window. A zero time disables that bound.
func (s *MetricStore) History(ctx context.Context, from, to time.Time, limit int) ([]models.MetricSample, error) {
	query := `SELECT users_active, course_count, avg_completion, progress_events, api_calls_today, created_at
		FROM learning_metrics`
	args := []interface{}{}
	if !from.IsZero() && !to.IsZero() {
		query += ` WHERE created_at >= $1 AND created_at < $2`
		args = append(args, from, to)
	}
	query += fmt.Sprintf(` ORDER BY created_at ASC LIMIT $%d`, len(args)+1)
	args = append(args, limit)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query metric history: %w", err)
	}
	defer rows.Close()

	var samples []models.MetricSample
	for rows.Next() {
		var m models.MetricSample
		if err := rows.Scan(&m.ActiveUsers, &m.CourseCount, &m.AvgCompletion, &m.ProgressEvents, &m.APICallsToday, &m.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan metric sample: %w", err)
		}
		samples = append(samples, m)
	}
	return samples, rows.Err()
}
