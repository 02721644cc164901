package services

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/Harisharivananthan/AI-Learning-Platform/internal/config"
	"github.com/Harisharivananthan/AI-Learning-Platform/internal/recommend"
	"github.com/Harisharivananthan/AI-Learning-Platform/internal/store"
	"github.com/Harisharivananthan/AI-Learning-Platform/pkg/models"
)

// RecommendationService loads catalog and progress snapshots, hands them to
// the pure recommendation core, and caches ranked results. Cache keys embed
// a content hash of the catalog, so any change to a course's title,
// description or category makes previous entries unreachable; no explicit
// invalidation is needed.
type RecommendationService struct {
	courses     *store.CourseStore
	progress    *store.ProgressStore
	recommender *recommend.Recommender
	redisClient *redis.Client
	config      *config.RecommendationConfig
	logger      *logrus.Logger
}

func NewRecommendationService(
	courses *store.CourseStore,
	progress *store.ProgressStore,
	redisClient *redis.Client,
	cfg *config.RecommendationConfig,
	logger *logrus.Logger,
) *RecommendationService {
	return &RecommendationService{
		courses:     courses,
		progress:    progress,
		recommender: recommend.NewRecommender(logger),
		redisClient: redisClient,
		config:      cfg,
		logger:      logger,
	}
}

func (s *RecommendationService) topN(requested int) int {
	if requested > 0 {
		return requested
	}
	if s.config.TopN > 0 {
		return s.config.TopN
	}
	return recommend.DefaultTopN
}

func (s *RecommendationService) ByInterest(ctx context.Context, interest string, topN int) (*models.RecommendationResponse, error) {
	topN = s.topN(topN)
	catalog, err := s.courses.List(ctx)
	if err != nil {
		return nil, err
	}

	cacheKey := s.cacheKey("interest", interest, uuid.Nil, topN, catalog)
	if resp := s.cached(ctx, cacheKey); resp != nil {
		return resp, nil
	}

	scored, err := s.recommender.ByInterest(catalog, interest, topN)
	if err != nil {
		return nil, err
	}

	resp := response("interest", scored)
	s.cache(ctx, cacheKey, resp)
	return resp, nil
}

func (s *RecommendationService) Personalized(ctx context.Context, userID uuid.UUID, topN int) (*models.RecommendationResponse, error) {
	topN = s.topN(topN)
	catalog, err := s.courses.List(ctx)
	if err != nil {
		return nil, err
	}
	progress, err := s.progress.ByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	cacheKey := s.cacheKey("personalized", progressFingerprint(progress), userID, topN, catalog)
	if resp := s.cached(ctx, cacheKey); resp != nil {
		return resp, nil
	}

	scored, err := s.recommender.Personalized(catalog, progress, topN)
	if err != nil {
		return nil, err
	}

	resp := response("personalized", scored)
	s.cache(ctx, cacheKey, resp)
	return resp, nil
}

func (s *RecommendationService) ByCategory(ctx context.Context, category string, topN int) ([]models.Course, error) {
	topN = s.topN(topN)
	catalog, err := s.courses.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.recommender.ByCategory(catalog, category, topN)
}

func (s *RecommendationService) Neighbors(ctx context.Context, userID uuid.UUID, topN int) (*models.RecommendationResponse, error) {
	topN = s.topN(topN)
	catalog, err := s.courses.List(ctx)
	if err != nil {
		return nil, err
	}
	progress, err := s.progress.ByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	cacheKey := s.cacheKey("neighbors", progressFingerprint(progress), userID, topN, catalog)
	if resp := s.cached(ctx, cacheKey); resp != nil {
		return resp, nil
	}

	scored, err := s.recommender.Neighbors(catalog, progress, topN)
	if err != nil {
		return nil, err
	}

	resp := response("neighbors", scored)
	s.cache(ctx, cacheKey, resp)
	return resp, nil
}

func response(strategy string, scored []recommend.ScoredCourse) *models.RecommendationResponse {
	recs := make([]models.RecommendedCourse, len(scored))
	for i, sc := range scored {
		recs[i] = models.RecommendedCourse{
			CourseID: sc.Course.ID,
			Title:    sc.Course.Title,
			Category: sc.Course.Category,
			Score:    sc.Score,
			Position: i + 1,
		}
	}
	return &models.RecommendationResponse{
		Strategy:        strategy,
		Recommendations: recs,
		GeneratedAt:     time.Now(),
	}
}

// cacheKey folds the catalog content into the key so a changed course text
// changes the key rather than serving stale rankings.
func (s *RecommendationService) cacheKey(strategy, query string, userID uuid.UUID, topN int, catalog []models.Course) string {
	hasher := sha256.New()
	for _, c := range catalog {
		fmt.Fprintf(hasher, "%s|%s|%s|%s\n", c.ID, c.Title, c.Description, c.Category)
	}
	fmt.Fprintf(hasher, "%s|%s|%s|%d", strategy, query, userID, topN)
	return fmt.Sprintf("rec:%s:%x", strategy, hasher.Sum(nil)[:16])
}

// progressFingerprint keys cached personalized results to the exact progress
// snapshot they were computed from.
func progressFingerprint(progress []models.Progress) string {
	hasher := sha256.New()
	for _, p := range progress {
		fmt.Fprintf(hasher, "%s|%.2f\n", p.CourseID, p.Completion)
	}
	return fmt.Sprintf("%x", hasher.Sum(nil)[:8])
}

func (s *RecommendationService) cached(ctx context.Context, key string) *models.RecommendationResponse {
	if s.redisClient == nil {
		return nil
	}
	data, err := s.redisClient.Get(ctx, key).Result()
	if err != nil {
		return nil
	}
	var resp models.RecommendationResponse
	if err := json.Unmarshal([]byte(data), &resp); err != nil {
		s.logger.WithError(err).Warn("Failed to decode cached recommendations")
		return nil
	}
	resp.CacheHit = true
	return &resp
}

func (s *RecommendationService) cache(ctx context.Context, key string, resp *models.RecommendationResponse) {
	if s.redisClient == nil {
		return
	}
	data, err := json.Marshal(resp)
	if err != nil {
		return
	}
	if err := s.redisClient.Set(ctx, key, data, s.config.CacheTTL).Err(); err != nil {
		s.logger.WithError(err).Warn("Failed to cache recommendations")
	}
}
