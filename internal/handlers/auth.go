package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Harisharivananthan/AI-Learning-Platform/internal/middleware"
	"github.com/Harisharivananthan/AI-Learning-Platform/internal/services"
	"github.com/Harisharivananthan/AI-Learning-Platform/pkg/models"
)

type AuthHandler struct {
	auth   *services.AuthService
	logger *logrus.Logger
}

func NewAuthHandler(auth *services.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_REQUEST_BODY",
				"message": err.Error(),
			},
		})
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			c.JSON(http.StatusConflict, gin.H{
				"error": gin.H{
					"code":    "EMAIL_TAKEN",
					"message": "An account with this email already exists",
				},
			})
			return
		}
		h.logger.WithError(err).Error("Failed to register user")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "REGISTRATION_FAILED",
				"message": "Failed to register user",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, user)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": gin.H{
				"code":    "INVALID_REQUEST_BODY",
				"message": err.Error(),
			},
		})
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{
					"code":    "INVALID_CREDENTIALS",
					"message": "Invalid email or password",
				},
			})
			return
		}
		h.logger.WithError(err).Error("Failed to log user in")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": gin.H{
				"code":    "LOGIN_FAILED",
				"message": "Failed to log in",
			},
		})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	userID, _ := middleware.GetUserFromContext(c)
	if err := h.auth.RevokeToken(userID); err != nil {
		h.logger.WithError(err).Warn("Failed to revoke session")
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
