package services

import (
	"github.com/sirupsen/logrus"

	"github.com/Harisharivananthan/AI-Learning-Platform/internal/config"
	"github.com/Harisharivananthan/AI-Learning-Platform/internal/database"
	"github.com/Harisharivananthan/AI-Learning-Platform/internal/messaging"
	"github.com/Harisharivananthan/AI-Learning-Platform/internal/store"
)

type Services struct {
	Store          *store.Store
	MessageBus     *messaging.MessageBus
	Auth           *AuthService
	Course         *CourseService
	Progress       *ProgressService
	Recommendation *RecommendationService
	Analytics      *AnalyticsService
	Export         *ExportService
	Assistant      *AssistantService
}

func New(cfg *config.Config, logger *logrus.Logger, db *database.Database) (*Services, error) {
	st := store.New(db.PG, logger)

	messageBus, err := messaging.NewMessageBus(cfg, logger)
	if err != nil {
		return nil, err
	}

	courseService, err := NewCourseService(st.Courses, logger)
	if err != nil {
		return nil, err
	}

	analyticsService := NewAnalyticsService(db.PG, st, logger)

	// The assistant is optional: without an API key the rest of the
	// platform still runs, only the chat endpoints report unavailable.
	assistantService, err := NewAssistantService(&cfg.Assistant, analyticsService, st.Users, st.Chat, logger)
	if err != nil {
		logger.WithError(err).Warn("AI assistant disabled")
		assistantService = nil
	}

	return &Services{
		Store:          st,
		MessageBus:     messageBus,
		Auth:           NewAuthService(cfg, logger, st.Users, db.Redis),
		Course:         courseService,
		Progress:       NewProgressService(st.Progress, messageBus, logger),
		Recommendation: NewRecommendationService(st.Courses, st.Progress, db.Redis, &cfg.Recommendation, logger),
		Analytics:      analyticsService,
		Export:         NewExportService(st.Metrics, logger),
		Assistant:      assistantService,
	}, nil
}
