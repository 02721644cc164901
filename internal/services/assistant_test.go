package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harisharivananthan/AI-Learning-Platform/internal/config"
	"github.com/Harisharivananthan/AI-Learning-Platform/internal/store"
	"github.com/Harisharivananthan/AI-Learning-Platform/pkg/models"
)

func newAssistantFixture(t *testing.T, baseURL string) (*AssistantService, pgxmock.PgxPoolIface) {
	t.Helper()

	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockDB.Close)

	t.Setenv("TEST_ASSISTANT_KEY", "sk-test")

	st := store.New(mockDB, testLogger())
	analytics := NewAnalyticsService(mockDB, st, testLogger())

	svc, err := NewAssistantService(&config.AssistantConfig{
		BaseURL:     baseURL,
		APIKeyEnv:   "TEST_ASSISTANT_KEY",
		Model:       "gpt-4o-mini",
		Timeout:     5 * time.Second,
		Temperature: 0.7,
	}, analytics, st.Users, st.Chat, testLogger())
	require.NoError(t, err)

	return svc, mockDB
}

func completionServer(t *testing.T, reply string) *httptest.Server {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var req chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "gpt-4o-mini", req.Model)
		require.NotEmpty(t, req.Messages)

		json.NewEncoder(w).Encode(chatCompletionResponse{
			Choices: []struct {
				Message chatMessage `json:"message"`
			}{
				{Message: chatMessage{Role: "assistant", Content: reply}},
			},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func TestAssistantService_Chat(t *testing.T) {
	server := completionServer(t, "Try the Deep Learning course next.")
	svc, mockDB := newAssistantFixture(t, server.URL)

	userID := uuid.New()
	mockDB.ExpectExec("INSERT INTO chat_messages").
		WithArgs(pgxmock.AnyArg(), userID, "user", "What should I learn next?", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockDB.ExpectExec("INSERT INTO chat_messages").
		WithArgs(pgxmock.AnyArg(), userID, "assistant", "Try the Deep Learning course next.", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	reply, err := svc.Chat(context.Background(), userID, "What should I learn next?")
	require.NoError(t, err)

	assert.Equal(t, "Try the Deep Learning course next.", reply)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestAssistantService_MissingAPIKey(t *testing.T) {
	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockDB.Close)

	st := store.New(mockDB, testLogger())
	_, err = NewAssistantService(&config.AssistantConfig{
		APIKeyEnv: "DOES_NOT_EXIST_KEY",
	}, nil, st.Users, st.Chat, testLogger())
	assert.Error(t, err)
}

func TestAssistantService_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]string{"message": "rate limited"},
		})
	}))
	t.Cleanup(server.Close)

	svc, mockDB := newAssistantFixture(t, server.URL)

	userID := uuid.New()
	mockDB.ExpectExec("INSERT INTO chat_messages").
		WithArgs(pgxmock.AnyArg(), userID, "user", "hello", pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	_, err := svc.Chat(context.Background(), userID, "hello")
	assert.ErrorContains(t, err, "rate limited")
}

func TestAssistantService_ProgressFeedbackUsesUsername(t *testing.T) {
	var prompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req.Messages)
		prompt = req.Messages[len(req.Messages)-1].Content

		json.NewEncoder(w).Encode(chatCompletionResponse{
			Choices: []struct {
				Message chatMessage `json:"message"`
			}{
				{Message: chatMessage{Role: "assistant", Content: "Keep going!"}},
			},
		})
	}))
	t.Cleanup(server.Close)

	svc, mockDB := newAssistantFixture(t, server.URL)

	userID := uuid.New()
	mockDB.ExpectQuery("SELECT id, username, email").
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "email", "password_hash", "created_at"}).
			AddRow(userID, "alice", "alice@example.com", "hash", time.Now()))
	mockDB.ExpectQuery("SELECT c.title, p.completion_percentage").
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"title", "completion_percentage", "status"}).
			AddRow("Intro to ML", 80.0, "in-progress"))

	feedback, err := svc.ProgressFeedback(context.Background(), userID)
	require.NoError(t, err)

	assert.Equal(t, "Keep going!", feedback)
	assert.Contains(t, prompt, "The user alice has")
	assert.NotContains(t, prompt, "alice@example.com")
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestFormatProgressSummary(t *testing.T) {
	entries := []models.ProgressSummaryEntry{
		{Course: "Intro to ML", Completion: 80, Status: "in-progress"},
		{Course: "Deep Learning", Completion: 100, Status: "completed"},
	}

	got := FormatProgressSummary(entries)
	assert.Equal(t, "- Intro to ML: 80% (in-progress)\n- Deep Learning: 100% (completed)\n", got)
}
