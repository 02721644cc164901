package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Harisharivananthan/AI-Learning-Platform/internal/store"
	"github.com/Harisharivananthan/AI-Learning-Platform/internal/validation"
	"github.com/Harisharivananthan/AI-Learning-Platform/pkg/models"
)

// BatchResult reports the outcome of a catalog import: how many rows were
// written and the schema violations that rejected the rest.
type BatchResult struct {
	Created    []models.Course `json:"created"`
	Violations []string        `json:"violations,omitempty"`
}

type CourseService struct {
	courses   *store.CourseStore
	validator *validation.SchemaValidator
	logger    *logrus.Logger
}

func NewCourseService(courses *store.CourseStore, logger *logrus.Logger) (*CourseService, error) {
	validator, err := validation.NewSchemaValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to build schema validator: %w", err)
	}
	return &CourseService{courses: courses, validator: validator, logger: logger}, nil
}

func (s *CourseService) Create(ctx context.Context, req models.CourseCreateRequest) (*models.Course, error) {
	return s.courses.Create(ctx, req)
}

func (s *CourseService) List(ctx context.Context) ([]models.Course, error) {
	return s.courses.List(ctx)
}

func (s *CourseService) Get(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	return s.courses.Get(ctx, id)
}

// ImportBatch validates the raw payload against the catalog schema before any
// row is written. A payload with violations writes nothing.
func (s *CourseService) ImportBatch(ctx context.Context, payload []byte) (*BatchResult, error) {
	violations, err := s.validator.ValidateCourseBatch(payload)
	if err != nil {
		return nil, err
	}
	if len(violations) > 0 {
		s.logger.WithField("violations", len(violations)).Warn("Course batch rejected by schema")
		return &BatchResult{Violations: violations}, nil
	}

	var batch models.CourseBatchRequest
	if err := json.Unmarshal(payload, &batch); err != nil {
		return nil, fmt.Errorf("failed to decode course batch: %w", err)
	}

	result := &BatchResult{Created: make([]models.Course, 0, len(batch.Courses))}
	for _, req := range batch.Courses {
		candidate := models.Course{Title: req.Title, Description: req.Description, Category: req.Category}
		if err := candidate.Validate(); err != nil {
			return nil, fmt.Errorf("invalid course %q: %w", req.Title, err)
		}
		course, err := s.courses.Create(ctx, req)
		if err != nil {
			return nil, err
		}
		result.Created = append(result.Created, *course)
	}

	s.logger.WithField("count", len(result.Created)).Info("Course batch imported")
	return result, nil
}
