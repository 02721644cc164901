package handlers

import (
	"github.com/sirupsen/logrus"

	"github.com/Harisharivananthan/AI-Learning-Platform/internal/metrics"
	"github.com/Harisharivananthan/AI-Learning-Platform/internal/services"
)

type Handlers struct {
	Health         *HealthHandler
	Auth           *AuthHandler
	Course         *CourseHandler
	Progress       *ProgressHandler
	Recommendation *RecommendationHandler
	Analytics      *AnalyticsHandler
	Chat           *ChatHandler
	Metrics        *MetricsHandler
}

func New(logger *logrus.Logger, svcs *services.Services, collector *metrics.Collector, hub *metrics.Hub) *Handlers {
	return &Handlers{
		Health:         NewHealthHandler(logger),
		Auth:           NewAuthHandler(svcs.Auth, logger),
		Course:         NewCourseHandler(svcs.Course, logger),
		Progress:       NewProgressHandler(svcs.Progress, logger),
		Recommendation: NewRecommendationHandler(svcs.Recommendation, logger),
		Analytics:      NewAnalyticsHandler(svcs.Analytics, svcs.Export, logger),
		Chat:           NewChatHandler(svcs.Assistant, logger),
		Metrics:        NewMetricsHandler(collector, hub, logger),
	}
}
