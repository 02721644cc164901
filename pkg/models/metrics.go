package models

import "time"

// MetricSample is one snapshot of platform activity, persisted for history
// queries and pushed to websocket subscribers as it is taken.
type MetricSample struct {
	Timestamp      time.Time `json:"timestamp" db:"created_at"`
	ActiveUsers    int       `json:"users_active" db:"users_active"`
	CourseCount    int       `json:"course_count" db:"course_count"`
	AvgCompletion  float64   `json:"avg_completion" db:"avg_completion"`
	ProgressEvents int64     `json:"progress_events" db:"progress_events"`
	APICallsToday  int64     `json:"api_calls_today" db:"api_calls_today"`
}

type TopCourse struct {
	Title         string  `json:"title"`
	AvgCompletion float64 `json:"avg_completion"`
}

type ActiveUser struct {
	Username    string `json:"username"`
	CourseCount int    `json:"courses_count"`
}

type ProgressSummaryEntry struct {
	Course     string  `json:"course"`
	Completion float64 `json:"completion"`
	Status     string  `json:"status"`
}

type CareerRecommendation struct {
	CompletedCourses []string `json:"completed_courses"`
	CareerPaths      []string `json:"career_recommendations"`
}

type LearningInsight struct {
	UserID        string  `json:"user_id"`
	AvgCompletion float64 `json:"average_completion"`
	Message       string  `json:"adaptive_message"`
}
