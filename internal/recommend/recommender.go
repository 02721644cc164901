package recommend

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Harisharivananthan/AI-Learning-Platform/pkg/models"
)

const (
	// DefaultTopN bounds a recommendation list when the caller does not ask
	// for a specific size.
	DefaultTopN = 3

	// CompletionThreshold marks a course as finished for candidate filtering.
	CompletionThreshold = 100

	// SeedThreshold marks a course as "sufficiently started" to seed
	// neighbor expansion.
	SeedThreshold = 50
)

var (
	// ErrInvalidTopN rejects a non-positive result bound at the boundary
	// instead of returning a silent empty list.
	ErrInvalidTopN = errors.New("recommend: top-n must be positive")

	// ErrNilCourseID flags a catalog entry without an identifier, a contract
	// violation by the caller.
	ErrNilCourseID = errors.New("recommend: catalog entry has nil course id")
)

// ScoredCourse is a catalog entry with its similarity to the active query.
type ScoredCourse struct {
	Course models.Course
	Score  float64
}

// Recommender turns a course catalog and a user's progress snapshot into
// ranked, deduplicated, size-bounded course lists. It holds no state between
// calls: every invocation vectorizes the exact documents it is asked about,
// so concurrent use needs no locking.
type Recommender struct {
	logger *logrus.Logger
}

func NewRecommender(logger *logrus.Logger) *Recommender {
	return &Recommender{logger: logger}
}

// ByInterest ranks the catalog against a free-text interest query. The query
// is appended as the last document before fitting so it shares the corpus
// vocabulary, then its row is scored against all course rows.
//
// An empty catalog returns an empty result, not an error.
func (r *Recommender) ByInterest(catalog []models.Course, interest string, topN int) ([]ScoredCourse, error) {
	if err := validate(catalog, topN); err != nil {
		return nil, err
	}
	if len(catalog) == 0 {
		return nil, nil
	}

	docs := documents(catalog)
	docs = append(docs, interest)
	space := Vectorize(docs)

	query := space.Rows[len(catalog)]
	corpus := &VectorSpace{Vocabulary: space.Vocabulary, Terms: space.Terms, Rows: space.Rows[:len(catalog)]}

	results := r.rankCourses(query, corpus, catalog, topN)

	r.debug("interest search", logrus.Fields{
		"catalog": len(catalog), "results": len(results),
	})
	return results, nil
}

// Personalized ranks the courses a user has not yet completed against the
// user's profile vector, the column-wise mean of the eligible subset's rows.
//
// A user with no progress records gets the first topN catalog entries in
// catalog order. A user who completed everything falls back to ranking the
// full catalog rather than returning nothing.
func (r *Recommender) Personalized(catalog []models.Course, progress []models.Progress, topN int) ([]ScoredCourse, error) {
	if err := validate(catalog, topN); err != nil {
		return nil, err
	}
	if len(catalog) == 0 {
		return nil, nil
	}
	if len(progress) == 0 {
		return catalogDefault(catalog, topN), nil
	}

	eligible := Eligible(catalog, progress, CompletionThreshold)
	if len(eligible) == 0 {
		eligible = catalog
	}

	space := Vectorize(documents(eligible))
	all := make([]int, space.Len())
	for i := range all {
		all[i] = i
	}
	profile := space.MeanVector(all)

	results := r.rankCourses(profile, space, eligible, topN)

	r.debug("personalized", logrus.Fields{
		"catalog": len(catalog), "eligible": len(eligible), "results": len(results),
	})
	return results, nil
}

// ByCategory returns up to topN courses whose category contains the query,
// case-insensitively, in catalog order. No scoring happens on this path, so
// the ordering is exactly the caller's catalog order.
func (r *Recommender) ByCategory(catalog []models.Course, category string, topN int) ([]models.Course, error) {
	if err := validate(catalog, topN); err != nil {
		return nil, err
	}

	needle := strings.ToLower(category)
	var matches []models.Course
	for _, c := range catalog {
		if !strings.Contains(strings.ToLower(c.Category), needle) {
			continue
		}
		matches = append(matches, c)
		if len(matches) == topN {
			break
		}
	}
	return matches, nil
}

// Neighbors expands from seed courses, those with completion at or above
// SeedThreshold, to their nearest neighbors in a vector space over the whole
// catalog. Neighbor lists are merged in seed order, first seen wins, seed
// courses themselves are never recommended, and the union is truncated to
// topN.
//
// A user with no seeds gets the first topN catalog entries in catalog order.
func (r *Recommender) Neighbors(catalog []models.Course, progress []models.Progress, topN int) ([]ScoredCourse, error) {
	if err := validate(catalog, topN); err != nil {
		return nil, err
	}
	if len(catalog) == 0 {
		return nil, nil
	}

	rowByID := make(map[uuid.UUID]int, len(catalog))
	for i, c := range catalog {
		rowByID[c.ID] = i
	}

	seedSet := make(map[uuid.UUID]struct{})
	var seedRows []int
	for _, p := range progress {
		if p.Completion < SeedThreshold {
			continue
		}
		row, ok := rowByID[p.CourseID]
		if !ok {
			continue // progress for a course outside this snapshot
		}
		if _, dup := seedSet[p.CourseID]; dup {
			continue
		}
		seedSet[p.CourseID] = struct{}{}
		seedRows = append(seedRows, row)
	}

	if len(seedRows) == 0 {
		return catalogDefault(catalog, topN), nil
	}
	sort.Ints(seedRows)

	space := Vectorize(documents(catalog))
	queries := make([][]float64, len(seedRows))
	for i, row := range seedRows {
		queries[i] = space.Rows[row]
	}

	// Over-fetch per seed so removing the seeds themselves cannot leave the
	// union short of topN.
	perSeed := topN + len(seedRows)
	neighborLists := RankAll(queries, space, perSeed)

	seen := make(map[uuid.UUID]struct{})
	var results []ScoredCourse
	for _, neighbors := range neighborLists {
		ranked := make([]ScoredCourse, len(neighbors))
		for i, n := range neighbors {
			ranked[i] = ScoredCourse{Course: catalog[n.Index], Score: n.Score}
		}
		sortScored(ranked)
		for _, sc := range ranked {
			if _, isSeed := seedSet[sc.Course.ID]; isSeed {
				continue
			}
			if _, dup := seen[sc.Course.ID]; dup {
				continue
			}
			seen[sc.Course.ID] = struct{}{}
			results = append(results, sc)
		}
	}

	if len(results) > topN {
		results = results[:topN]
	}
	r.debug("neighbor expansion", logrus.Fields{
		"catalog": len(catalog), "seeds": len(seedRows), "results": len(results),
	})
	return results, nil
}

// rankCourses ranks every corpus row, resolves ties by ascending course ID,
// and truncates to topN. Ranking the full corpus before truncation keeps the
// ID tie-break correct at the cut boundary.
func (r *Recommender) rankCourses(query []float64, space *VectorSpace, courses []models.Course, topN int) []ScoredCourse {
	ranked := Rank(query, space, space.Len())
	results := make([]ScoredCourse, len(ranked))
	for i, s := range ranked {
		results[i] = ScoredCourse{Course: courses[s.Index], Score: s.Score}
	}
	sortScored(results)
	if len(results) > topN {
		results = results[:topN]
	}
	return results
}

// sortScored orders by descending score with ascending course ID as the
// deterministic tie-break.
func sortScored(scored []ScoredCourse) {
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return scored[i].Course.ID.String() < scored[j].Course.ID.String()
	})
}

// catalogDefault is the new-user fallback: the first topN entries in the
// caller's catalog order, unscored.
func catalogDefault(catalog []models.Course, topN int) []ScoredCourse {
	if topN > len(catalog) {
		topN = len(catalog)
	}
	results := make([]ScoredCourse, topN)
	for i := 0; i < topN; i++ {
		results[i] = ScoredCourse{Course: catalog[i]}
	}
	return results
}

func validate(catalog []models.Course, topN int) error {
	if topN <= 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidTopN, topN)
	}
	for _, c := range catalog {
		if c.ID == uuid.Nil {
			return fmt.Errorf("%w: %q", ErrNilCourseID, c.Title)
		}
	}
	return nil
}

func documents(catalog []models.Course) []string {
	docs := make([]string, len(catalog))
	for i, c := range catalog {
		docs[i] = c.Document()
	}
	return docs
}

func (r *Recommender) debug(msg string, fields logrus.Fields) {
	if r.logger != nil {
		r.logger.WithFields(fields).Debug(msg)
	}
}
