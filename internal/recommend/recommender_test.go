package recommend

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Harisharivananthan/AI-Learning-Platform/pkg/models"
)

// courseID returns a fixed UUID whose string order follows n, so ID
// tie-breaks in tests are predictable.
func courseID(n int) uuid.UUID {
	return uuid.MustParse(fmt.Sprintf("00000000-0000-0000-0000-%012d", n))
}

func testCatalog() []models.Course {
	return []models.Course{
		{ID: courseID(1), Title: "Intro to Machine Learning", Category: "AI", Description: "supervised learning models and classification"},
		{ID: courseID(2), Title: "Deep Learning", Category: "AI", Description: "neural networks backpropagation and gradient descent"},
		{ID: courseID(3), Title: "Web Development", Category: "Web", Description: "javascript html css frontend frameworks"},
		{ID: courseID(4), Title: "Data Engineering", Category: "Data", Description: "pipelines warehouses batch and stream processing"},
	}
}

func TestRecommenderByInterest(t *testing.T) {
	r := NewRecommender(nil)
	catalog := testCatalog()

	t.Run("exact description ranks its course first", func(t *testing.T) {
		query := catalog[2].Document()
		results, err := r.ByInterest(catalog, query, 3)
		require.NoError(t, err)
		require.Len(t, results, 3)

		assert.Equal(t, catalog[2].ID, results[0].Course.ID)
		assert.InDelta(t, 1.0, results[0].Score, 1e-9)
		for i := 1; i < len(results); i++ {
			assert.GreaterOrEqual(t, results[i-1].Score, results[i].Score)
		}
	})

	t.Run("related interest prefers the related courses", func(t *testing.T) {
		results, err := r.ByInterest(catalog, "neural networks and classification", 2)
		require.NoError(t, err)
		require.Len(t, results, 2)

		ids := []uuid.UUID{results[0].Course.ID, results[1].Course.ID}
		assert.Contains(t, ids, courseID(1))
		assert.Contains(t, ids, courseID(2))
	})

	t.Run("idempotent", func(t *testing.T) {
		first, err := r.ByInterest(catalog, "stream processing", 4)
		require.NoError(t, err)
		for i := 0; i < 5; i++ {
			again, err := r.ByInterest(catalog, "stream processing", 4)
			require.NoError(t, err)
			assert.Equal(t, first, again)
		}
	})

	t.Run("empty catalog", func(t *testing.T) {
		results, err := r.ByInterest(nil, "anything", 3)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("invalid topN", func(t *testing.T) {
		_, err := r.ByInterest(catalog, "anything", 0)
		assert.ErrorIs(t, err, ErrInvalidTopN)

		_, err = r.ByInterest(catalog, "anything", -2)
		assert.ErrorIs(t, err, ErrInvalidTopN)
	})

	t.Run("nil course id rejected", func(t *testing.T) {
		broken := []models.Course{{Title: "No ID"}}
		_, err := r.ByInterest(broken, "anything", 3)
		assert.ErrorIs(t, err, ErrNilCourseID)
	})
}

func TestRecommenderPersonalized(t *testing.T) {
	r := NewRecommender(nil)
	catalog := testCatalog()

	t.Run("new user gets catalog order", func(t *testing.T) {
		results, err := r.Personalized(catalog, nil, 3)
		require.NoError(t, err)
		require.Len(t, results, 3)

		assert.Equal(t, courseID(1), results[0].Course.ID)
		assert.Equal(t, courseID(2), results[1].Course.ID)
		assert.Equal(t, courseID(3), results[2].Course.ID)
		for _, sc := range results {
			assert.Zero(t, sc.Score)
		}
	})

	t.Run("completed courses never recommended", func(t *testing.T) {
		userID := uuid.New()
		progress := []models.Progress{
			{UserID: userID, CourseID: courseID(1), Completion: 100},
			{UserID: userID, CourseID: courseID(2), Completion: 30},
		}

		results, err := r.Personalized(catalog, progress, 4)
		require.NoError(t, err)
		require.NotEmpty(t, results)

		for _, sc := range results {
			assert.NotEqual(t, courseID(1), sc.Course.ID)
		}
		assert.Len(t, results, 3)
	})

	t.Run("everything completed falls back to full catalog", func(t *testing.T) {
		userID := uuid.New()
		var progress []models.Progress
		for _, c := range catalog {
			progress = append(progress, models.Progress{UserID: userID, CourseID: c.ID, Completion: 100})
		}

		results, err := r.Personalized(catalog, progress, 3)
		require.NoError(t, err)
		assert.Len(t, results, 3)
	})

	t.Run("empty catalog", func(t *testing.T) {
		results, err := r.Personalized(nil, nil, 3)
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("invalid topN", func(t *testing.T) {
		_, err := r.Personalized(catalog, nil, 0)
		assert.ErrorIs(t, err, ErrInvalidTopN)
	})
}

func TestRecommenderByCategory(t *testing.T) {
	r := NewRecommender(nil)
	catalog := testCatalog()

	t.Run("case insensitive substring matches in catalog order", func(t *testing.T) {
		matches, err := r.ByCategory(catalog, "ai", 3)
		require.NoError(t, err)
		require.Len(t, matches, 2)

		assert.Equal(t, courseID(1), matches[0].ID)
		assert.Equal(t, courseID(2), matches[1].ID)
	})

	t.Run("truncates to topN", func(t *testing.T) {
		matches, err := r.ByCategory(catalog, "ai", 1)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, courseID(1), matches[0].ID)
	})

	t.Run("no matches", func(t *testing.T) {
		matches, err := r.ByCategory(catalog, "blockchain", 3)
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("invalid topN", func(t *testing.T) {
		_, err := r.ByCategory(catalog, "ai", -1)
		assert.ErrorIs(t, err, ErrInvalidTopN)
	})
}

func TestRecommenderNeighbors(t *testing.T) {
	r := NewRecommender(nil)
	catalog := testCatalog()

	t.Run("seeds are never recommended", func(t *testing.T) {
		userID := uuid.New()
		progress := []models.Progress{
			{UserID: userID, CourseID: courseID(1), Completion: 75},
			{UserID: userID, CourseID: courseID(3), Completion: 20}, // below seed threshold
		}

		results, err := r.Neighbors(catalog, progress, 3)
		require.NoError(t, err)
		require.NotEmpty(t, results)
		assert.LessOrEqual(t, len(results), 3)

		for _, sc := range results {
			assert.NotEqual(t, courseID(1), sc.Course.ID, "seed must not appear in its own neighbors")
		}
	})

	t.Run("similar seed pulls in its nearest course", func(t *testing.T) {
		userID := uuid.New()
		progress := []models.Progress{
			{UserID: userID, CourseID: courseID(2), Completion: 90},
		}

		results, err := r.Neighbors(catalog, progress, 1)
		require.NoError(t, err)
		require.Len(t, results, 1)
		// Both AI courses share vocabulary; the other one is the nearest
		// non-seed neighbor.
		assert.Equal(t, courseID(1), results[0].Course.ID)
	})

	t.Run("no seeds falls back to catalog order", func(t *testing.T) {
		userID := uuid.New()
		progress := []models.Progress{
			{UserID: userID, CourseID: courseID(1), Completion: 10},
		}

		results, err := r.Neighbors(catalog, progress, 2)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, courseID(1), results[0].Course.ID)
		assert.Equal(t, courseID(2), results[1].Course.ID)
	})

	t.Run("multiple seeds merge without duplicates", func(t *testing.T) {
		userID := uuid.New()
		progress := []models.Progress{
			{UserID: userID, CourseID: courseID(1), Completion: 100},
			{UserID: userID, CourseID: courseID(2), Completion: 60},
		}

		results, err := r.Neighbors(catalog, progress, 4)
		require.NoError(t, err)

		seen := make(map[uuid.UUID]bool)
		for _, sc := range results {
			assert.False(t, seen[sc.Course.ID], "duplicate recommendation")
			seen[sc.Course.ID] = true
			assert.NotEqual(t, courseID(1), sc.Course.ID)
			assert.NotEqual(t, courseID(2), sc.Course.ID)
		}
		assert.Len(t, results, 2)
	})

	t.Run("progress outside catalog snapshot ignored", func(t *testing.T) {
		userID := uuid.New()
		progress := []models.Progress{
			{UserID: userID, CourseID: uuid.New(), Completion: 100},
		}

		results, err := r.Neighbors(catalog, progress, 2)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, courseID(1), results[0].Course.ID)
	})

	t.Run("invalid topN", func(t *testing.T) {
		_, err := r.Neighbors(catalog, nil, 0)
		assert.ErrorIs(t, err, ErrInvalidTopN)
	})
}
