package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Harisharivananthan/AI-Learning-Platform/internal/services"
	"github.com/Harisharivananthan/AI-Learning-Platform/internal/store"
	"github.com/Harisharivananthan/AI-Learning-Platform/pkg/models"
)

type CourseHandler struct {
	courses *services.CourseService
	logger  *logrus.Logger
}

func NewCourseHandler(courses *services.CourseService, logger *logrus.Logger) *CourseHandler {
	return &CourseHandler{courses: courses, logger: logger}
}

func (h *CourseHandler) Create(c *gin.Context) {
	var req models.CourseCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_REQUEST_BODY",
				"message": err.Error(),
			},
		})
		return
	}

	course, err := h.courses.Create(c.Request.Context(), req)
	if err != nil {
		h.logger.WithError(err).Error("Failed to create course")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "COURSE_CREATE_FAILED",
				"message": "Failed to create course",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, course)
}

func (h *CourseHandler) List(c *gin.Context) {
	catalog, err := h.courses.List(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list courses")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "COURSE_LIST_FAILED",
				"message": "Failed to list courses",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"courses": catalog, "total": len(catalog)})
}

func (h *CourseHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("courseId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_COURSE_ID",
				"message": "Invalid course ID format",
			},
		})
		return
	}

	course, err := h.courses.Get(c.Request.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": gin.H{
				"code":    "COURSE_NOT_FOUND",
				"message": "Course not found",
			},
		})
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to load course")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "COURSE_LOAD_FAILED",
				"message": "Failed to load course",
			},
		})
		return
	}

	c.JSON(http.StatusOK, course)
}

// ImportBatch accepts a JSON payload of up to 100 courses. The payload is
// schema-validated as a whole before any row is written.
func (h *CourseHandler) ImportBatch(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_REQUEST_BODY",
				"message": "Failed to read request body",
			},
		})
		return
	}

	result, err := h.courses.ImportBatch(c.Request.Context(), payload)
	if err != nil {
		h.logger.WithError(err).Error("Failed to import course batch")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "COURSE_IMPORT_FAILED",
				"message": "Failed to import course batch",
			},
		})
		return
	}

	if len(result.Violations) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "SCHEMA_VALIDATION_FAILED",
				"message": "Course batch failed schema validation",
				"details": result.Violations,
			},
		})
		return
	}

	c.JSON(http.StatusCreated, result)
}
