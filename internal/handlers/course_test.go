package handlers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harisharivananthan/AI-Learning-Platform/internal/services"
	"github.com/Harisharivananthan/AI-Learning-Platform/internal/store"
)

func newCourseRouter(t *testing.T) (*gin.Engine, pgxmock.PgxPoolIface) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockDB.Close)

	st := store.New(mockDB, testLogger())
	svc, err := services.NewCourseService(st.Courses, testLogger())
	require.NoError(t, err)
	handler := NewCourseHandler(svc, testLogger())

	router := gin.New()
	router.POST("/courses", handler.Create)
	router.POST("/courses/batch", handler.ImportBatch)
	return router, mockDB
}

func TestCourseHandler_Create(t *testing.T) {
	router, mockDB := newCourseRouter(t)

	mockDB.ExpectExec("INSERT INTO courses").
		WithArgs(pgxmock.AnyArg(), "Intro to ML", "models", "AI", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/courses",
		bytes.NewBufferString(`{"title":"Intro to ML","category":"AI","description":"models"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestCourseHandler_ImportBatch(t *testing.T) {
	t.Run("valid batch inserts every course", func(t *testing.T) {
		router, mockDB := newCourseRouter(t)

		mockDB.ExpectExec("INSERT INTO courses").
			WithArgs(pgxmock.AnyArg(), "Intro to ML", "", "AI", pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mockDB.ExpectExec("INSERT INTO courses").
			WithArgs(pgxmock.AnyArg(), "Deep Learning", "", "AI", pgxmock.AnyArg(), pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/courses/batch", bytes.NewBufferString(`{
			"courses": [
				{"title": "Intro to ML", "category": "AI"},
				{"title": "Deep Learning", "category": "AI"}
			]
		}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.NoError(t, mockDB.ExpectationsWereMet())
	})

	t.Run("schema violation writes nothing", func(t *testing.T) {
		router, mockDB := newCourseRouter(t)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/courses/batch", bytes.NewBufferString(`{
			"courses": [{"category": "AI"}]
		}`))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "SCHEMA_VALIDATION_FAILED", errorCode(t, w.Body.Bytes()))
		assert.NoError(t, mockDB.ExpectationsWereMet(), "no insert may run")
	})
}
