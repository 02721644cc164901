package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Harisharivananthan/AI-Learning-Platform/internal/services"
	"github.com/Harisharivananthan/AI-Learning-Platform/internal/store"
)

type AnalyticsHandler struct {
	analytics *services.AnalyticsService
	export    *services.ExportService
	logger    *logrus.Logger
}

func NewAnalyticsHandler(analytics *services.AnalyticsService, export *services.ExportService, logger *logrus.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, export: export, logger: logger}
}

func (h *AnalyticsHandler) TopCourses(c *gin.Context) {
	limit := intQuery(c, "limit", 5)
	courses, err := h.analytics.TopCourses(c.Request.Context(), limit)
	if err != nil {
		h.fail(c, err, "top courses")
		return
	}
	c.JSON(http.StatusOK, gin.H{"top_courses": courses})
}

func (h *AnalyticsHandler) ActiveUsers(c *gin.Context) {
	limit := intQuery(c, "limit", 5)
	users, err := h.analytics.ActiveUsers(c.Request.Context(), limit)
	if err != nil {
		h.fail(c, err, "active users")
		return
	}
	c.JSON(http.StatusOK, gin.H{"active_users": users})
}

func (h *AnalyticsHandler) ProgressSummary(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	entries, err := h.analytics.UserProgressSummary(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err, "progress summary")
		return
	}
	if len(entries) == 0 {
		c.JSON(http.StatusNotFound, gin.H{
			"error": gin.H{
				"code":    "NO_PROGRESS",
				"message": "No progress records for this user",
			},
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"summary": entries})
}

func (h *AnalyticsHandler) CareerRecommendation(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	career, err := h.analytics.CareerRecommendation(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err, "career recommendation")
		return
	}
	c.JSON(http.StatusOK, career)
}

func (h *AnalyticsHandler) LearningInsights(c *gin.Context) {
	userID, ok := userIDParam(c)
	if !ok {
		return
	}

	insight, err := h.analytics.LearningInsights(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err, "learning insights")
		return
	}
	c.JSON(http.StatusOK, insight)
}

// MetricsHistory returns collected samples as JSON, optionally bounded by a
// from/to window.
func (h *AnalyticsHandler) MetricsHistory(c *gin.Context) {
	from, to, ok := timeWindow(c)
	if !ok {
		return
	}
	limit := intQuery(c, "limit", 1000)

	samples, err := h.export.History(c.Request.Context(), from, to, limit)
	if err != nil {
		h.fail(c, err, "metrics history")
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": samples, "count": len(samples)})
}

// ExportMetrics streams metric history in the requested format. Supported
// formats are csv, excel and pdf.
func (h *AnalyticsHandler) ExportMetrics(c *gin.Context) {
	from, to, ok := timeWindow(c)
	if !ok {
		return
	}
	limit := intQuery(c, "limit", 1000)

	var (
		data        []byte
		err         error
		contentType string
		filename    string
	)

	switch format := c.Param("format"); format {
	case "csv":
		data, err = h.export.CSV(c.Request.Context(), from, to, limit)
		contentType = "text/csv"
		filename = "learning-metrics.csv"
	case "excel":
		data, err = h.export.Excel(c.Request.Context(), from, to, limit)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
		filename = "learning-metrics.xlsx"
	case "pdf":
		data, err = h.export.PDF(c.Request.Context(), from, to, limit)
		contentType = "application/pdf"
		filename = "learning-metrics.pdf"
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "UNSUPPORTED_FORMAT",
				"message": fmt.Sprintf("unsupported export format %q", format),
			},
		})
		return
	}

	if err != nil {
		h.fail(c, err, "export")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}

// fail maps service errors to responses. A user without progress records is
// an expected case, not a server fault.
func (h *AnalyticsHandler) fail(c *gin.Context, err error, what string) {
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": gin.H{
				"code":    "NO_PROGRESS",
				"message": "No progress records for this user",
			},
		})
		return
	}

	h.logger.WithError(err).WithField("report", what).Error("Analytics query failed")
	c.JSON(http.StatusInternalServerError, gin.H{
		"error": gin.H{
			"code":    "ANALYTICS_FAILED",
			"message": "Failed to compute analytics",
		},
	})
}

func userIDParam(c *gin.Context) (uuid.UUID, bool) {
	userID, err := uuid.Parse(c.Param("userId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_USER_ID",
				"message": "Invalid user ID format",
			},
		})
		return uuid.Nil, false
	}
	return userID, true
}

func intQuery(c *gin.Context, name string, fallback int) int {
	if raw := c.Query(name); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

// timeWindow parses optional RFC 3339 from/to bounds. Both or neither must
// be present.
func timeWindow(c *gin.Context) (time.Time, time.Time, bool) {
	fromRaw, toRaw := c.Query("from"), c.Query("to")
	if fromRaw == "" && toRaw == "" {
		return time.Time{}, time.Time{}, true
	}

	from, errFrom := time.Parse(time.RFC3339, fromRaw)
	to, errTo := time.Parse(time.RFC3339, toRaw)
	if errFrom != nil || errTo != nil || !to.After(from) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_TIME_WINDOW",
				"message": "from and to must both be RFC 3339 timestamps with from < to",
			},
		})
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}
