package models

import (
	"time"

	"github.com/google/uuid"
)

type Course struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Title       string    `json:"title" db:"title" validate:"required,min=1,max=255"`
	Description string    `json:"description" db:"description"`
	Category    string    `json:"category" db:"category" validate:"required,min=1,max=100"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Document is the text used for vectorization: category first, then the
// free-text description, space-joined. It never changes the stored record.
func (c Course) Document() string {
	return c.Category + " " + c.Description
}

type CourseCreateRequest struct {
	Title       string `json:"title" binding:"required,min=1,max=255"`
	Description string `json:"description"`
	Category    string `json:"category" binding:"required,min=1,max=100"`
}

type CourseBatchRequest struct {
	Courses []CourseCreateRequest `json:"courses" binding:"required,min=1,max=100,dive"`
}
