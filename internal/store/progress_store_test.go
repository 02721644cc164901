package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harisharivananthan/AI-Learning-Platform/pkg/models"
)

func TestProgressStore_Upsert(t *testing.T) {
	st, mockDB := newTestStore(t)

	userID, courseID := uuid.New(), uuid.New()

	t.Run("status derived from completion", func(t *testing.T) {
		mockDB.ExpectExec("INSERT INTO progress").
			WithArgs(pgxmock.AnyArg(), userID, courseID, 40.0, models.StatusInProgress, pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		p, err := st.Progress.Upsert(context.Background(), models.ProgressCreateRequest{
			UserID:     userID,
			CourseID:   courseID,
			Completion: 40,
		})
		require.NoError(t, err)
		assert.Equal(t, models.StatusInProgress, p.Status)
	})

	t.Run("completed at one hundred", func(t *testing.T) {
		mockDB.ExpectExec("INSERT INTO progress").
			WithArgs(pgxmock.AnyArg(), userID, courseID, 100.0, models.StatusCompleted, pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		p, err := st.Progress.Upsert(context.Background(), models.ProgressCreateRequest{
			UserID:     userID,
			CourseID:   courseID,
			Completion: 100,
		})
		require.NoError(t, err)
		assert.Equal(t, models.StatusCompleted, p.Status)
	})

	t.Run("not started at zero", func(t *testing.T) {
		mockDB.ExpectExec("INSERT INTO progress").
			WithArgs(pgxmock.AnyArg(), userID, courseID, 0.0, models.StatusNotStarted, pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		p, err := st.Progress.Upsert(context.Background(), models.ProgressCreateRequest{
			UserID:   userID,
			CourseID: courseID,
		})
		require.NoError(t, err)
		assert.Equal(t, models.StatusNotStarted, p.Status)
	})

	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestProgressStore_Update_NotFound(t *testing.T) {
	st, mockDB := newTestStore(t)

	id := uuid.New()
	mockDB.ExpectQuery("UPDATE progress").
		WithArgs(id, 55.0, models.StatusInProgress).
		WillReturnError(pgx.ErrNoRows)

	_, err := st.Progress.Update(context.Background(), id, models.ProgressUpdateRequest{Completion: 55})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestProgressStore_ByUser(t *testing.T) {
	st, mockDB := newTestStore(t)

	userID := uuid.New()
	now := time.Now()
	rows := pgxmock.NewRows([]string{"id", "user_id", "course_id", "completion_percentage", "status", "updated_at"}).
		AddRow(uuid.New(), userID, uuid.New(), 80.0, models.StatusInProgress, now).
		AddRow(uuid.New(), userID, uuid.New(), 100.0, models.StatusCompleted, now)

	mockDB.ExpectQuery("SELECT id, user_id, course_id").
		WithArgs(userID).
		WillReturnRows(rows)

	records, err := st.Progress.ByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 80.0, records[0].Completion)
	assert.NoError(t, mockDB.ExpectationsWereMet())
}

func TestProgressStore_ByUser_Empty(t *testing.T) {
	st, mockDB := newTestStore(t)

	userID := uuid.New()
	mockDB.ExpectQuery("SELECT id, user_id, course_id").
		WithArgs(userID).
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "course_id", "completion_percentage", "status", "updated_at"}))

	records, err := st.Progress.ByUser(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, records)
}
