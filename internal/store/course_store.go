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

type CourseStore struct {
	db     Querier
	logger *logrus.Logger
}

func (s *CourseStore) Create(ctx context.Context, req models.CourseCreateRequest) (*models.Course, error) {
	course := &models.Course{
		ID:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO courses (id, title, description, category, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		course.ID, course.Title, course.Description, course.Category,
		course.CreatedAt, course.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert course: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"course_id": course.ID, "title": course.Title,
	}).Info("Course created")
	return course, nil
}

// List returns the full catalog in insertion order. The order is stable and
// load-bearing: catalog-order fallbacks in the recommender depend on it.
func (s *CourseStore) List(ctx context.Context) ([]models.Course, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, title, description, category, created_at, updated_at
		 FROM courses ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	var catalog []models.Course
	for rows.Next() {
		var c models.Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.Category, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan course: %w", err)
		}
		catalog = append(catalog, c)
	}
	return catalog, rows.Err()
}

func (s *CourseStore) Get(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	var c models.Course
	err := s.db.QueryRow(ctx,
		`SELECT id, title, description, category, created_at, updated_at
		 FROM courses WHERE id = $1`, id).
		Scan(&c.ID, &c.Title, &c.Description, &c.Category, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load course %s: %w", id, err)
	}
	return &c, nil
}

func (s *CourseStore) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRow(ctx, `SELECT COUNT(*) FROM courses`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count courses: %w", err)
	}
	return count, nil
}
