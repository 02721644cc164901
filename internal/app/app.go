package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/Harisharivananthan/AI-Learning-Platform/internal/config"
	"github.com/Harisharivananthan/AI-Learning-Platform/internal/database"
	"github.com/Harisharivananthan/AI-Learning-Platform/internal/handlers"
	"github.com/Harisharivananthan/AI-Learning-Platform/internal/metrics"
	"github.com/Harisharivananthan/AI-Learning-Platform/internal/middleware"
	"github.com/Harisharivananthan/AI-Learning-Platform/internal/services"
)

type App struct {
	config    *config.Config
	logger    *logrus.Logger
	db        *database.Database
	services  *services.Services
	handlers  *handlers.Handlers
	router    *gin.Engine
	collector *metrics.Collector
	hub       *metrics.Hub

	collectorCancel context.CancelFunc
}

func New(cfg *config.Config) (*App, error) {
	app := &App{
		config: cfg,
		logger: setupLogger(cfg),
	}

	db, err := database.New(cfg, app.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.Migrate(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	svcs, err := services.New(cfg, app.logger, db)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}
	app.services = svcs

	app.hub = metrics.NewHub(app.logger)
	app.collector = metrics.NewCollector(db.PG, svcs.Store.Metrics, svcs.MessageBus, app.hub, &cfg.Metrics, app.logger)

	app.handlers = handlers.New(app.logger, svcs, app.collector, app.hub)

	app.setupRouter()

	return app, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

// Start launches background workers. The HTTP listener is owned by main.
func (a *App) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	a.collectorCancel = cancel
	go a.collector.Run(ctx)
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("Shutting down application...")

	if a.collectorCancel != nil {
		a.collectorCancel()
	}
	a.hub.Close()

	if err := a.services.MessageBus.Close(); err != nil {
		a.logger.WithError(err).Error("Error closing message bus")
	}

	if err := a.db.Close(); err != nil {
		a.logger.WithError(err).Error("Error closing database connections")
		return err
	}

	return nil
}

func setupLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if cfg.Logging.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}

func (a *App) setupRouter() {
	if a.config.Server.Mode == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.Logger(a.logger))
	router.Use(middleware.Recovery(a.logger))
	router.Use(middleware.CORS(a.config))
	router.Use(middleware.Counted(a.collector.CountAPICall))

	// Public endpoints
	router.GET("/health", a.handlers.Health.Check)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.POST("/register", a.handlers.Auth.Register)
	router.POST("/login", a.handlers.Auth.Login)

	// Live metrics stream; the frontend dashboard connects before login.
	router.GET("/ws/metrics", a.handlers.Metrics.Stream)

	api := router.Group("/api/v1")
	{
		api.Use(middleware.Auth(a.services.Auth, a.logger))

		api.POST("/logout", a.handlers.Auth.Logout)

		courses := api.Group("/courses")
		{
			courses.POST("", a.handlers.Course.Create)
			courses.POST("/batch", a.handlers.Course.ImportBatch)
			courses.GET("", a.handlers.Course.List)
			courses.GET("/:courseId", a.handlers.Course.Get)
		}

		progress := api.Group("/progress")
		{
			progress.POST("", a.handlers.Progress.Record)
			progress.PUT("/:progressId", a.handlers.Progress.Update)
			progress.GET("/user/:userId", a.handlers.Progress.ByUser)
		}

		recommendations := api.Group("/recommendations")
		{
			recommendations.GET("", a.handlers.Recommendation.ByInterest)
			recommendations.GET("/personalized/:userId", a.handlers.Recommendation.Personalized)
			recommendations.GET("/category", a.handlers.Recommendation.ByCategory)
			recommendations.GET("/similar/:userId", a.handlers.Recommendation.Similar)
		}

		analytics := api.Group("/analytics")
		{
			analytics.GET("/top-courses", a.handlers.Analytics.TopCourses)
			analytics.GET("/active-users", a.handlers.Analytics.ActiveUsers)
			analytics.GET("/progress-summary/:userId", a.handlers.Analytics.ProgressSummary)
			analytics.GET("/career/:userId", a.handlers.Analytics.CareerRecommendation)
			analytics.GET("/insights/:userId", a.handlers.Analytics.LearningInsights)
			analytics.GET("/history", a.handlers.Analytics.MetricsHistory)
			analytics.GET("/export/:format", a.handlers.Analytics.ExportMetrics)
		}

		chat := api.Group("/chat")
		{
			chat.POST("", a.handlers.Chat.Chat)
			chat.GET("/history", a.handlers.Chat.History)
			chat.GET("/feedback", a.handlers.Chat.Feedback)
		}

		api.GET("/metrics/snapshot", a.handlers.Metrics.Snapshot)
	}

	a.router = router
}
