package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Harisharivananthan/AI-Learning-Platform/internal/config"
	"github.com/Harisharivananthan/AI-Learning-Platform/internal/store"
	"github.com/Harisharivananthan/AI-Learning-Platform/pkg/models"
)

// AssistantService talks to an OpenAI-compatible chat completion API for the
// prose parts of the platform: mentor chat and narrative progress feedback.
// The structured progress summary it sends is computed locally; the model
// only writes prose.
type AssistantService struct {
	analytics *AnalyticsService
	users     *store.UserStore
	chat      *store.ChatStore
	logger    *logrus.Logger

	baseURL     string
	apiKey      string
	model       string
	temperature float64
	client      *http.Client
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewAssistantService(cfg *config.AssistantConfig, analytics *AnalyticsService, users *store.UserStore, chat *store.ChatStore, logger *logrus.Logger) (*AssistantService, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}

	return &AssistantService{
		analytics:   analytics,
		users:       users,
		chat:        chat,
		logger:      logger,
		baseURL:     cfg.BaseURL,
		apiKey:      key,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		client:      &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// Chat persists the user message, asks the model for a reply, and persists
// that too so clients can render the full conversation.
func (s *AssistantService) Chat(ctx context.Context, userID uuid.UUID, message string) (string, error) {
	if _, err := s.chat.Append(ctx, userID, "user", message); err != nil {
		return "", err
	}

	reply, err := s.complete(ctx, []chatMessage{
		{Role: "system", Content: "You are an intelligent AI learning assistant."},
		{Role: "user", Content: message},
	})
	if err != nil {
		return "", err
	}

	if _, err := s.chat.Append(ctx, userID, "assistant", reply); err != nil {
		return "", err
	}
	return reply, nil
}

func (s *AssistantService) History(ctx context.Context, userID uuid.UUID) ([]models.ChatMessage, error) {
	return s.chat.History(ctx, userID)
}

// ProgressFeedback formats the user's progress summary and asks the model
// for personalized next-step advice. The model addresses the user by
// username, not the email the auth token carries.
func (s *AssistantService) ProgressFeedback(ctx context.Context, userID uuid.UUID) (string, error) {
	user, err := s.users.ByID(ctx, userID)
	if err != nil {
		return "", err
	}

	entries, err := s.analytics.UserProgressSummary(ctx, userID)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", store.ErrNotFound
	}

	prompt := fmt.Sprintf(
		"The user %s has the following learning progress:\n%s\nSuggest 2-3 personalized AI or ML courses to continue learning effectively.",
		user.Username, FormatProgressSummary(entries))

	return s.complete(ctx, []chatMessage{
		{Role: "system", Content: "You are an expert AI mentor."},
		{Role: "user", Content: prompt},
	})
}

// FormatProgressSummary renders a structured summary as plain text, one
// course per line. This is the only formatting the core contributes to the
// prose path.
func FormatProgressSummary(entries []models.ProgressSummaryEntry) string {
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "- %s: %.0f%% (%s)\n", e.Course, e.Completion, e.Status)
	}
	return b.String()
}

func (s *AssistantService) complete(ctx context.Context, messages []chatMessage) (string, error) {
	body, err := json.Marshal(chatCompletionRequest{
		Model:       s.model,
		Messages:    messages,
		Temperature: s.temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("completion request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read completion response: %w", err)
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(data, &completion); err != nil {
		return "", fmt.Errorf("failed to decode completion response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		if completion.Error != nil {
			return "", fmt.Errorf("completion API error: %s", completion.Error.Message)
		}
		return "", fmt.Errorf("completion API returned status %d", resp.StatusCode)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("completion API returned no choices")
	}

	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}
