package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Harisharivananthan/AI-Learning-Platform/internal/middleware"
	"github.com/Harisharivananthan/AI-Learning-Platform/internal/services"
	"github.com/Harisharivananthan/AI-Learning-Platform/internal/store"
	"github.com/Harisharivananthan/AI-Learning-Platform/pkg/models"
)

type ChatHandler struct {
	assistant *services.AssistantService
	logger    *logrus.Logger
}

func NewChatHandler(assistant *services.AssistantService, logger *logrus.Logger) *ChatHandler {
	return &ChatHandler{assistant: assistant, logger: logger}
}

func (h *ChatHandler) unavailable(c *gin.Context) bool {
	if h.assistant == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": gin.H{
				"code":    "ASSISTANT_UNAVAILABLE",
				"message": "AI assistant is not configured",
			},
		})
		return true
	}
	return false
}

func (h *ChatHandler) Chat(c *gin.Context) {
	if h.unavailable(c) {
		return
	}

	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_REQUEST_BODY",
				"message": err.Error(),
			},
		})
		return
	}

	userID, _ := middleware.GetUserFromContext(c)
	reply, err := h.assistant.Chat(c.Request.Context(), userID, req.Message)
	if err != nil {
		h.logger.WithError(err).Error("Chat completion failed")
		c.JSON(http.StatusBadGateway, gin.H{
			"error": gin.H{
				"code":    "ASSISTANT_FAILED",
				"message": "Failed to generate a reply",
			},
		})
		return
	}

	c.JSON(http.StatusOK, models.ChatResponse{Reply: reply})
}

func (h *ChatHandler) History(c *gin.Context) {
	if h.unavailable(c) {
		return
	}

	userID, _ := middleware.GetUserFromContext(c)
	history, err := h.assistant.History(c.Request.Context(), userID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load chat history")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "CHAT_HISTORY_FAILED",
				"message": "Failed to load chat history",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": history})
}

// Feedback asks the model for prose advice grounded in the user's own
// progress summary.
func (h *ChatHandler) Feedback(c *gin.Context) {
	if h.unavailable(c) {
		return
	}

	userID, _ := middleware.GetUserFromContext(c)
	feedback, err := h.assistant.ProgressFeedback(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": gin.H{
					"code":    "NO_PROGRESS",
					"message": "No progress records for this user yet",
				},
			})
			return
		}
		h.logger.WithError(err).Error("Progress feedback failed")
		c.JSON(http.StatusBadGateway, gin.H{
			"error": gin.H{
				"code":    "ASSISTANT_FAILED",
				"message": "Failed to generate progress feedback",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"feedback": feedback})
}
