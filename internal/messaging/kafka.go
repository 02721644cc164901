package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"

	"github.com/Harisharivananthan/AI-Learning-Platform/internal/config"
)

const ConsumerGroup = "metrics-collectors"

// ProgressEvent is published on every progress write so downstream consumers
// (the metrics collector here, external analytics elsewhere) see completion
// changes without polling the database.
type ProgressEvent struct {
	UserID     uuid.UUID `json:"user_id"`
	CourseID   uuid.UUID `json:"course_id"`
	Completion float64   `json:"completion_percentage"`
	Status     string    `json:"status"`
	Timestamp  time.Time `json:"timestamp"`
}

type MessageBus struct {
	writer *kafka.Writer
	reader *kafka.Reader
	logger *logrus.Logger
}

func NewMessageBus(cfg *config.Config, logger *logrus.Logger) (*MessageBus, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Kafka.Brokers...),
		Topic:        cfg.Kafka.Topics.ProgressEvents,
		Balancer:     &kafka.Hash{}, // key by user for per-user ordering
		RequiredAcks: kafka.RequireOne,
		Async:        false,
		BatchTimeout: 10 * time.Millisecond,
		BatchSize:    100,
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Kafka.Brokers,
		Topic:          cfg.Kafka.Topics.ProgressEvents,
		GroupID:        ConsumerGroup,
		MinBytes:       10e3,
		MaxBytes:       10e6,
		CommitInterval: time.Second,
		StartOffset:    kafka.LastOffset,
	})

	return &MessageBus{writer: writer, reader: reader, logger: logger}, nil
}

func (mb *MessageBus) PublishProgress(ctx context.Context, event ProgressEvent) error {
	if mb == nil {
		return nil
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal progress event: %w", err)
	}

	err = mb.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.UserID.String()),
		Value: data,
	})
	if err != nil {
		return fmt.Errorf("failed to publish progress event: %w", err)
	}

	mb.logger.WithFields(logrus.Fields{
		"user_id": event.UserID, "course_id": event.CourseID,
	}).Debug("Progress event published")
	return nil
}

// Consume delivers progress events to handler until ctx is cancelled.
func (mb *MessageBus) Consume(ctx context.Context, handler func(ProgressEvent)) error {
	if mb == nil {
		return nil
	}

	for {
		msg, err := mb.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("failed to read progress event: %w", err)
		}

		var event ProgressEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			mb.logger.WithError(err).Warn("Skipping malformed progress event")
			continue
		}
		handler(event)
	}
}

func (mb *MessageBus) Close() error {
	if mb == nil {
		return nil
	}
	if err := mb.writer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka writer: %w", err)
	}
	if err := mb.reader.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka reader: %w", err)
	}
	return nil
}
