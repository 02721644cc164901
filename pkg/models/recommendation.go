package models

import (
	"time"

	"github.com/google/uuid"
)

type RecommendedCourse struct {
	CourseID uuid.UUID `json:"course_id"`
	Title    string    `json:"title"`
	Category string    `json:"category"`
	Score    float64   `json:"score"`
	Position int       `json:"position"`
}

type RecommendationResponse struct {
	Strategy        string              `json:"strategy"`
	Recommendations []RecommendedCourse `json:"recommendations"`
	GeneratedAt     time.Time           `json:"generated_at"`
	CacheHit        bool                `json:"cache_hit"`
}
