package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harisharivananthan/AI-Learning-Platform/internal/config"
	"github.com/Harisharivananthan/AI-Learning-Platform/internal/middleware"
	"github.com/Harisharivananthan/AI-Learning-Platform/internal/services"
	"github.com/Harisharivananthan/AI-Learning-Platform/internal/store"
)

func newAuthFixture(t *testing.T) (*services.AuthService, pgxmock.PgxPoolIface) {
	t.Helper()

	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockDB.Close)

	cfg := &config.Config{Auth: config.AuthConfig{JWTSecret: "test-secret", TokenTTL: time.Hour}}
	st := store.New(mockDB, testLogger())
	return services.NewAuthService(cfg, testLogger(), st.Users, nil), mockDB
}

func TestAuthHandler_Register(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success", func(t *testing.T) {
		auth, mockDB := newAuthFixture(t)
		handler := NewAuthHandler(auth, testLogger())

		router := gin.New()
		router.POST("/register", handler.Register)

		mockDB.ExpectQuery("SELECT id, username, email").
			WithArgs("alice@example.com").
			WillReturnError(pgx.ErrNoRows)
		mockDB.ExpectExec("INSERT INTO users").
			WithArgs(pgxmock.AnyArg(), "alice", "alice@example.com", pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		body, _ := json.Marshal(map[string]string{
			"username": "alice",
			"email":    "alice@example.com",
			"password": "s3cret!",
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.NotContains(t, w.Body.String(), "password_hash", "hash never leaves the server")
	})

	t.Run("invalid body", func(t *testing.T) {
		auth, _ := newAuthFixture(t)
		handler := NewAuthHandler(auth, testLogger())

		router := gin.New()
		router.POST("/register", handler.Register)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewBufferString(`{"email":"not-an-email"}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	auth, _ := newAuthFixture(t)

	router := gin.New()
	router.GET("/protected", middleware.Auth(auth, testLogger()), func(c *gin.Context) {
		userID, email := middleware.GetUserFromContext(c)
		c.JSON(http.StatusOK, gin.H{"user_id": userID, "email": email})
	})

	t.Run("valid token passes", func(t *testing.T) {
		userID := uuid.New()
		token, _, err := auth.GenerateToken(userID, "alice@example.com")
		require.NoError(t, err)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), userID.String())
	})

	t.Run("missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "MISSING_AUTHORIZATION", errorCode(t, w.Body.Bytes()))
	})

	t.Run("malformed header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Token abc")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "INVALID_AUTHORIZATION_FORMAT", errorCode(t, w.Body.Bytes()))
	})

	t.Run("garbage token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer not.a.jwt")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "INVALID_TOKEN", errorCode(t, w.Body.Bytes()))
	})
}
