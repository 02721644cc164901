package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Harisharivananthan/AI-Learning-Platform/internal/recommend"
	"github.com/Harisharivananthan/AI-Learning-Platform/internal/services"
)

type RecommendationHandler struct {
	recommendations *services.RecommendationService
	logger          *logrus.Logger
}

func NewRecommendationHandler(recommendations *services.RecommendationService, logger *logrus.Logger) *RecommendationHandler {
	return &RecommendationHandler{recommendations: recommendations, logger: logger}
}

// topNParam parses the optional top_n query parameter. Zero means "use the
// configured default"; anything present but non-positive or non-numeric is
// rejected.
func topNParam(c *gin.Context) (int, bool) {
	raw := c.Query("top_n")
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_TOP_N",
				"message": "top_n must be a positive integer",
			},
		})
		return 0, false
	}
	return n, true
}

func (h *RecommendationHandler) ByInterest(c *gin.Context) {
	interest := c.Query("interest")
	if interest == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "MISSING_INTEREST",
				"message": "interest query parameter is required",
			},
		})
		return
	}

	topN, ok := topNParam(c)
	if !ok {
		return
	}

	resp, err := h.recommendations.ByInterest(c.Request.Context(), interest, topN)
	if err != nil {
		h.fail(c, err, "interest")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecommendationHandler) Personalized(c *gin.Context) {
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

	topN, ok := topNParam(c)
	if !ok {
		return
	}

	resp, err := h.recommendations.Personalized(c.Request.Context(), userID, topN)
	if err != nil {
		h.fail(c, err, "personalized")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecommendationHandler) ByCategory(c *gin.Context) {
	category := c.Query("category")
	if category == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "MISSING_CATEGORY",
				"message": "category query parameter is required",
			},
		})
		return
	}

	topN, ok := topNParam(c)
	if !ok {
		return
	}

	courses, err := h.recommendations.ByCategory(c.Request.Context(), category, topN)
	if err != nil {
		h.fail(c, err, "category")
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": courses, "total": len(courses)})
}

func (h *RecommendationHandler) Similar(c *gin.Context) {
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

	topN, ok := topNParam(c)
	if !ok {
		return
	}

	resp, err := h.recommendations.Neighbors(c.Request.Context(), userID, topN)
	if err != nil {
		h.fail(c, err, "similar")
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *RecommendationHandler) fail(c *gin.Context, err error, strategy string) {
	if errors.Is(err, recommend.ErrInvalidTopN) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_TOP_N",
				"message": "top_n must be a positive integer",
			},
		})
		return
	}

	h.logger.WithError(err).WithField("strategy", strategy).Error("Failed to generate recommendations")
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": gin.H{
			"code":    "RECOMMENDATION_GENERATION_FAILED",
			"message": "Failed to generate recommendations",
		},
	})
}
