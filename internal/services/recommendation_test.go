package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harisharivananthan/AI-Learning-Platform/internal/config"
	"github.com/Harisharivananthan/AI-Learning-Platform/internal/recommend"
	"github.com/Harisharivananthan/AI-Learning-Platform/internal/store"
)

var courseColumns = []string{"id", "title", "description", "category", "created_at", "updated_at"}
var progressColumns = []string{"id", "user_id", "course_id", "completion_percentage", "status", "updated_at"}

func newRecommendationFixture(t *testing.T) (*RecommendationService, pgxmock.PgxPoolIface) {
	t.Helper()

	mockDB, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockDB.Close)

	st := store.New(mockDB, testLogger())
	cfg := &config.RecommendationConfig{TopN: 3, CacheTTL: time.Minute}
	// nil Redis: every call computes fresh results.
	return NewRecommendationService(st.Courses, st.Progress, nil, cfg, testLogger()), mockDB
}

func catalogRows(ids []uuid.UUID) *pgxmock.Rows {
	now := time.Now()
	rows := pgxmock.NewRows(courseColumns)
	titles := []string{"Intro to ML", "Deep Learning", "Web Development"}
	descriptions := []string{
		"supervised learning classification models",
		"neural networks backpropagation",
		"javascript html frontend",
	}
	categories := []string{"AI", "AI", "Web"}
	for i, id := range ids {
		rows.AddRow(id, titles[i], descriptions[i], categories[i], now, now)
	}
	return rows
}

func TestRecommendationService_ByInterest(t *testing.T) {
	svc, mockDB := newRecommendationFixture(t)

	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	mockDB.ExpectQuery("SELECT id, title, description, category").
		WillReturnRows(catalogRows(ids))

	resp, err := svc.ByInterest(context.Background(), "neural networks", 2)
	require.NoError(t, err)

	assert.Equal(t, "interest", resp.Strategy)
	assert.False(t, resp.CacheHit)
	require.Len(t, resp.Recommendations, 2)
	assert.Equal(t, ids[1], resp.Recommendations[0].CourseID, "deep learning course matches the query best")
	assert.Equal(t, 1, resp.Recommendations[0].Position)
	assert.Equal(t, 2, resp.Recommendations[1].Position)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestRecommendationService_Personalized_NewUser(t *testing.T) {
	svc, mockDB := newRecommendationFixture(t)

	userID := uuid.New()
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	mockDB.ExpectQuery("SELECT id, title, description, category").
		WillReturnRows(catalogRows(ids))
	mockDB.ExpectQuery("SELECT id, user_id, course_id").
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows(progressColumns))

	resp, err := svc.Personalized(context.Background(), userID, 0)
	require.NoError(t, err)

	// No progress records: catalog-order fallback, configured default size.
	require.Len(t, resp.Recommendations, 3)
	for i, rec := range resp.Recommendations {
		assert.Equal(t, ids[i], rec.CourseID)
		assert.Zero(t, rec.Score)
	}
}

func TestRecommendationService_Personalized_ExcludesCompleted(t *testing.T) {
	svc, mockDB := newRecommendationFixture(t)

	userID := uuid.New()
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	now := time.Now()

	mockDB.ExpectQuery("SELECT id, title, description, category").
		WillReturnRows(catalogRows(ids))
	mockDB.ExpectQuery("SELECT id, user_id, course_id").
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows(progressColumns).
			AddRow(uuid.New(), userID, ids[0], 100.0, "completed", now))

	resp, err := svc.Personalized(context.Background(), userID, 3)
	require.NoError(t, err)

	for _, rec := range resp.Recommendations {
		assert.NotEqual(t, ids[0], rec.CourseID)
	}
	assert.Len(t, resp.Recommendations, 2)
}

func TestRecommendationService_Neighbors(t *testing.T) {
	svc, mockDB := newRecommendationFixture(t)

	userID := uuid.New()
	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	now := time.Now()

	mockDB.ExpectQuery("SELECT id, title, description, category").
		WillReturnRows(catalogRows(ids))
	mockDB.ExpectQuery("SELECT id, user_id, course_id").
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows(progressColumns).
			AddRow(uuid.New(), userID, ids[0], 80.0, "in-progress", now))

	resp, err := svc.Neighbors(context.Background(), userID, 2)
	require.NoError(t, err)

	assert.Equal(t, "neighbors", resp.Strategy)
	for _, rec := range resp.Recommendations {
		assert.NotEqual(t, ids[0], rec.CourseID, "seed course must not be recommended")
	}
}

func TestRecommendationService_ByCategory(t *testing.T) {
	svc, mockDB := newRecommendationFixture(t)

	ids := []uuid.UUID{uuid.New(), uuid.New(), uuid.New()}
	mockDB.ExpectQuery("SELECT id, title, description, category").
		WillReturnRows(catalogRows(ids))

	courses, err := svc.ByCategory(context.Background(), "ai", 5)
	require.NoError(t, err)

	require.Len(t, courses, 2)
	assert.Equal(t, ids[0], courses[0].ID)
	assert.Equal(t, ids[1], courses[1].ID)
}

func TestRecommendationService_TopNResolution(t *testing.T) {
	svc, mockDB := newRecommendationFixture(t)

	// An unset request falls back to the configured size, then to the
	// package default when that is unset too.
	empty := &config.RecommendationConfig{TopN: 0}
	st := store.New(mockDB, testLogger())
	unconfigured := NewRecommendationService(st.Courses, st.Progress, nil, empty, testLogger())
	assert.Equal(t, recommend.DefaultTopN, unconfigured.topN(0))
	assert.Equal(t, 7, unconfigured.topN(7))
	assert.Equal(t, 3, svc.topN(0))
}
