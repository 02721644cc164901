package metrics

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sirupsen/logrus"

	"github.com/Harisharivananthan/AI-Learning-Platform/internal/config"
	"github.com/Harisharivananthan/AI-Learning-Platform/internal/messaging"
	"github.com/Harisharivananthan/AI-Learning-Platform/internal/store"
	"github.com/Harisharivananthan/AI-Learning-Platform/pkg/models"
)

var (
	apiRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "learning_api_requests_total",
		Help: "Total HTTP requests served.",
	})
	progressEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "learning_progress_events_total",
		Help: "Progress events observed on the event bus.",
	})
	metricsSubscribers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "learning_metrics_subscribers",
		Help: "Connected websocket metrics subscribers.",
	})
)

// Collector periodically snapshots platform activity, persists each sample,
// and pushes it to websocket subscribers. Counters reset only on restart.
type Collector struct {
	db      store.Querier
	metrics *store.MetricStore
	bus     *messaging.MessageBus
	hub     *Hub
	config  *config.MetricsConfig
	logger  *logrus.Logger

	progressEvents atomic.Int64
	apiCalls       atomic.Int64
}

func NewCollector(db store.Querier, metrics *store.MetricStore, bus *messaging.MessageBus, hub *Hub, cfg *config.MetricsConfig, logger *logrus.Logger) *Collector {
	return &Collector{
		db:      db,
		metrics: metrics,
		bus:     bus,
		hub:     hub,
		config:  cfg,
		logger:  logger,
	}
}

// CountAPICall is called by the request logging middleware.
func (c *Collector) CountAPICall() {
	c.apiCalls.Add(1)
	apiRequestsTotal.Inc()
}

// Run samples on a fixed interval until ctx is cancelled. When the message
// bus is available it also consumes progress events to keep the event
// counter live across instances.
func (c *Collector) Run(ctx context.Context) {
	if c.bus != nil {
		go func() {
			err := c.bus.Consume(ctx, func(event messaging.ProgressEvent) {
				c.progressEvents.Add(1)
				progressEventsTotal.Inc()
			})
			if err != nil {
				c.logger.WithError(err).Error("Progress event consumer stopped")
			}
		}()
	}

	ticker := time.NewTicker(c.config.SampleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sample, err := c.Sample(ctx)
			if err != nil {
				if ctx.Err() == nil {
					c.logger.WithError(err).Warn("Failed to take metric sample")
				}
				continue
			}

			if err := c.metrics.Save(ctx, *sample); err != nil {
				c.logger.WithError(err).Warn("Failed to persist metric sample")
			}
			c.hub.Broadcast(*sample)
		}
	}
}

// Sample computes one activity snapshot from the database and the local
// counters.
func (c *Collector) Sample(ctx context.Context) (*models.MetricSample, error) {
	sample := &models.MetricSample{
		Timestamp:      time.Now(),
		ProgressEvents: c.progressEvents.Load(),
		APICallsToday:  c.apiCalls.Load(),
	}

	err := c.db.QueryRow(ctx,
		`SELECT COUNT(DISTINCT user_id) FROM progress WHERE completion_percentage > 0`).
		Scan(&sample.ActiveUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to count active users: %w", err)
	}

	if err := c.db.QueryRow(ctx, `SELECT COUNT(*) FROM courses`).Scan(&sample.CourseCount); err != nil {
		return nil, fmt.Errorf("failed to count courses: %w", err)
	}

	err = c.db.QueryRow(ctx,
		`SELECT COALESCE(AVG(completion_percentage), 0) FROM progress`).
		Scan(&sample.AvgCompletion)
	if err != nil {
		return nil, fmt.Errorf("failed to average completion: %w", err)
	}

	return sample, nil
}

// The websocket handler calls these around each connection's lifetime.
func SubscriberConnected()    { metricsSubscribers.Inc() }
func SubscriberDisconnected() { metricsSubscribers.Dec() }
