package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Harisharivananthan/AI-Learning-Platform/pkg/models"
)

type ChatStore struct {
	db     Querier
	logger *logrus.Logger
}

func (s *ChatStore) Append(ctx context.Context, userID uuid.UUID, role, content string) (*models.ChatMessage, error) {
	msg := &models.ChatMessage{
		ID:        uuid.New(),
		UserID:    userID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}

	_, err := s.db.Exec(ctx,
		`INSERT INTO chat_messages (id, user_id, role, content, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		msg.ID, msg.UserID, msg.Role, msg.Content, msg.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert chat message: %w", err)
	}
	return msg, nil
}

func (s *ChatStore) History(ctx context.Context, userID uuid.UUID) ([]models.ChatMessage, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, user_id, role, content, created_at
		 FROM chat_messages WHERE user_id = $1 ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chat history: %w", err)
	}
	defer rows.Close()

	var history []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		if err := rows.Scan(&m.ID, &m.UserID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan chat message: %w", err)
		}
		history = append(history, m)
	}
	return history, rows.Err()
}
