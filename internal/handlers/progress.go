package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Harisharivananthan/AI-Learning-Platform/internal/services"
	"github.com/Harisharivananthan/AI-Learning-Platform/internal/store"
	"github.com/Harisharivananthan/AI-Learning-Platform/pkg/models"
)

type ProgressHandler struct {
	progress *services.ProgressService
	logger   *logrus.Logger
}

func NewProgressHandler(progress *services.ProgressService, logger *logrus.Logger) *ProgressHandler {
	return &ProgressHandler{progress: progress, logger: logger}
}

func (h *ProgressHandler) Record(c *gin.Context) {
	var req models.ProgressCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_REQUEST_BODY",
				"message": err.Error(),
			},
		})
		return
	}

	p, err := h.progress.Record(c.Request.Context(), req)
	if err != nil {
		h.logger.WithError(err).Error("Failed to record progress")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "PROGRESS_RECORD_FAILED",
				"message": "Failed to record progress",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, p)
}

func (h *ProgressHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("progressId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_PROGRESS_ID",
				"message": "Invalid progress ID format",
			},
		})
		return
	}

	var req models.ProgressUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_REQUEST_BODY",
				"message": err.Error(),
			},
		})
		return
	}

	p, err := h.progress.Update(c.Request.Context(), id, req)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error": gin.H{
					"code":    "PROGRESS_NOT_FOUND",
					"message": "Progress record not found",
				},
			})
			return
		}
		h.logger.WithError(err).Error("Failed to update progress")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "PROGRESS_UPDATE_FAILED",
				"message": "Failed to update progress",
			},
		})
		return
	}

	c.JSON(http.StatusOK, p)
}

func (h *ProgressHandler) ByUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_USER_ID",
				"message": "Invalid user ID format",
			},
		})
		return
	}

	records, err := h.progress.ByUser(c.Request.Context(), userID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load progress")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "PROGRESS_LOAD_FAILED",
				"message": "Failed to load progress",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"progress": records, "total": len(records)})
}
