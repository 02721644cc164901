package models

import (
	"time"

	"github.com/google/uuid"
)

// Progress status labels used by the original platform clients.
const (
	StatusNotStarted = "not-started"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

type Progress struct {
	ID         uuid.UUID `json:"id" db:"id"`
	UserID     uuid.UUID `json:"user_id" db:"user_id"`
	CourseID   uuid.UUID `json:"course_id" db:"course_id"`
	Completion float64   `json:"completion_percentage" db:"completion_percentage"`
	Status     string    `json:"status" db:"status"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

type ProgressCreateRequest struct {
	UserID     uuid.UUID `json:"user_id" binding:"required"`
	CourseID   uuid.UUID `json:"course_id" binding:"required"`
	Completion float64   `json:"completion_percentage" binding:"min=0,max=100"`
	Status     string    `json:"status" binding:"omitempty,oneof=not-started in-progress completed"`
}

type ProgressUpdateRequest struct {
	Completion float64 `json:"completion_percentage" binding:"min=0,max=100"`
	Status     string  `json:"status" binding:"omitempty,oneof=not-started in-progress completed"`
}
