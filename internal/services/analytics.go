package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Harisharivananthan/AI-Learning-Platform/internal/store"
	"github.com/Harisharivananthan/AI-Learning-Platform/pkg/models"
)

// careerThreshold is the completion percentage at which a course counts
// toward career path suggestions.
const careerThreshold = 80

type AnalyticsService struct {
	db     store.Querier
	store  *store.Store
	logger *logrus.Logger
}

func NewAnalyticsService(db store.Querier, st *store.Store, logger *logrus.Logger) *AnalyticsService {
	return &AnalyticsService{db: db, store: st, logger: logger}
}

// TopCourses ranks courses by average completion across all users.
func (s *AnalyticsService) TopCourses(ctx context.Context, limit int) ([]models.TopCourse, error) {
	rows, err := s.db.Query(ctx,
		`SELECT c.title, AVG(p.completion_percentage) AS avg_completion
		 FROM courses c
		 JOIN progress p ON c.id = p.course_id
		 GROUP BY c.id, c.title
		 ORDER BY AVG(p.completion_percentage) DESC, c.title ASC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query top courses: %w", err)
	}
	defer rows.Close()

	var top []models.TopCourse
	for rows.Next() {
		var t models.TopCourse
		if err := rows.Scan(&t.Title, &t.AvgCompletion); err != nil {
			return nil, fmt.Errorf("failed to scan top course: %w", err)
		}
		t.AvgCompletion = round2(t.AvgCompletion)
		top = append(top, t)
	}
	return top, rows.Err()
}

// ActiveUsers ranks users by how many courses they have touched.
func (s *AnalyticsService) ActiveUsers(ctx context.Context, limit int) ([]models.ActiveUser, error) {
	rows, err := s.db.Query(ctx,
		`SELECT u.username, COUNT(p.id) AS courses_count
		 FROM users u
		 JOIN progress p ON u.id = p.user_id
		 WHERE p.completion_percentage > 0
		 GROUP BY u.id, u.username
		 ORDER BY COUNT(p.id) DESC, u.username ASC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query active users: %w", err)
	}
	defer rows.Close()

	var active []models.ActiveUser
	for rows.Next() {
		var a models.ActiveUser
		if err := rows.Scan(&a.Username, &a.CourseCount); err != nil {
			return nil, fmt.Errorf("failed to scan active user: %w", err)
		}
		active = append(active, a)
	}
	return active, rows.Err()
}

// UserProgressSummary lists a user's per-course standing; the assistant also
// feeds this to the language model as structured input.
func (s *AnalyticsService) UserProgressSummary(ctx context.Context, userID uuid.UUID) ([]models.ProgressSummaryEntry, error) {
	rows, err := s.db.Query(ctx,
		`SELECT c.title, p.completion_percentage, p.status
		 FROM progress p
		 JOIN courses c ON c.id = p.course_id
		 WHERE p.user_id = $1
		 ORDER BY c.title`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query progress summary: %w", err)
	}
	defer rows.Close()

	var entries []models.ProgressSummaryEntry
	for rows.Next() {
		var e models.ProgressSummaryEntry
		if err := rows.Scan(&e.Course, &e.Completion, &e.Status); err != nil {
			return nil, fmt.Errorf("failed to scan progress summary: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// CareerRecommendation maps a user's substantially completed courses to
// career paths via their categories.
func (s *AnalyticsService) CareerRecommendation(ctx context.Context, userID uuid.UUID) (*models.CareerRecommendation, error) {
	progress, err := s.store.Progress.ByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(progress) == 0 {
		return nil, store.ErrNotFound
	}

	var completed []string
	categories := make(map[string]struct{})
	for _, p := range progress {
		if p.Completion < careerThreshold {
			continue
		}
		course, err := s.store.Courses.Get(ctx, p.CourseID)
		if err != nil {
			s.logger.WithError(err).WithField("course_id", p.CourseID).Warn("Skipping unknown course in career lookup")
			continue
		}
		completed = append(completed, course.Title)
		categories[strings.ToLower(course.Category)] = struct{}{}
	}

	return &models.CareerRecommendation{
		CompletedCourses: completed,
		CareerPaths:      careerPathsFor(categories),
	}, nil
}

// LearningInsights produces the adaptive feedback message from the user's
// average completion, in the same tiers the platform always used.
func (s *AnalyticsService) LearningInsights(ctx context.Context, userID uuid.UUID) (*models.LearningInsight, error) {
	progress, err := s.store.Progress.ByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(progress) == 0 {
		return nil, store.ErrNotFound
	}

	var total float64
	for _, p := range progress {
		total += p.Completion
	}
	avg := total / float64(len(progress))

	var message string
	switch {
	case avg >= 90:
		message = "Excellent progress! You're ready for advanced projects or internships."
	case avg >= 50:
		message = "Good job! Keep pushing toward 100% completion to unlock next recommendations."
	default:
		message = "Focus on completing more beginner-level courses to strengthen your foundation."
	}

	return &models.LearningInsight{
		UserID:        userID.String(),
		AvgCompletion: round2(avg),
		Message:       message,
	}, nil
}

func careerPathsFor(categories map[string]struct{}) []string {
	pathsByCategory := map[string][]string{
		"ai":               {"Machine Learning Engineer", "AI Research Assistant"},
		"machine learning": {"Machine Learning Engineer", "MLOps Engineer"},
		"data science":     {"Data Analyst", "Data Scientist"},
		"programming":      {"Backend Developer", "Software Engineer"},
		"nlp":              {"NLP Engineer", "Conversational AI Developer"},
	}

	seen := make(map[string]struct{})
	var paths []string
	for category := range categories {
		for _, path := range pathsByCategory[category] {
			if _, dup := seen[path]; dup {
				continue
			}
			seen[path] = struct{}{}
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)
	if len(paths) == 0 {
		paths = []string{"Complete more courses to unlock career suggestions"}
	}
	return paths
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
