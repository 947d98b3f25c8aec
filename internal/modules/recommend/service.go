// README: Per-user front of the AI recommender. Results are cached in Redis and every
// uncached model call is charged against the caller's monthly quota.
package recommend

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"strollpath/internal/ai"
	"strollpath/internal/modules/route"
)

const (
	DefaultCacheTTL = 10 * time.Minute
	keyPrefix       = "strollpath:recommend:"
)

// Quota charges one AI request to a user. Refund returns a charge whose call failed.
type Quota interface {
	Consume(ctx context.Context, uid string) error
	Refund(ctx context.Context, uid string) error
}

type Service struct {
	rec   ai.Recommender
	cache *redis.Client
	quota Quota
	ttl   time.Duration
	log   *zap.Logger
}

// NewService wraps rec. cache and quota are optional.
func NewService(rec ai.Recommender, cache *redis.Client, quota Quota, ttl time.Duration, log *zap.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{rec: rec, cache: cache, quota: quota, ttl: ttl, log: log}
}

// Recommend returns route IDs for query among candidates.
// A cached answer for the same query and candidate set is not charged.
func (s *Service) Recommend(ctx context.Context, userID, query string, candidates []route.Summary) ([]string, error) {
	key, err := cacheKey(query, candidates)
	if err != nil {
		return nil, err
	}
	if ids, ok := s.lookup(ctx, key); ok {
		return ids, nil
	}

	if err := s.charge(ctx, userID); err != nil {
		return nil, err
	}
	ids, err := s.rec.RecommendRoutes(ctx, query, candidates)
	if err != nil {
		s.refund(ctx, userID)
		return nil, err
	}
	s.store(ctx, key, ids)
	return ids, nil
}

// Describe drafts a route description. Each successful call is charged.
func (s *Service) Describe(ctx context.Context, userID string, req ai.DescriptionRequest) (string, error) {
	if err := s.charge(ctx, userID); err != nil {
		return "", err
	}
	desc, err := s.rec.GenerateDescription(ctx, req)
	if err != nil {
		s.refund(ctx, userID)
		return "", err
	}
	return desc, nil
}

func (s *Service) charge(ctx context.Context, userID string) error {
	if s.quota == nil {
		return nil
	}
	if err := s.quota.Consume(ctx, userID); err != nil {
		s.log.Info("ai request refused", zap.String("user_id", userID), zap.Error(err))
		return err
	}
	return nil
}

// refund outlives ctx; the call may have failed on its deadline.
func (s *Service) refund(ctx context.Context, userID string) {
	if s.quota == nil {
		return
	}
	if err := s.quota.Refund(context.WithoutCancel(ctx), userID); err != nil {
		s.log.Warn("ai quota refund failed", zap.String("user_id", userID), zap.Error(err))
	}
}

func (s *Service) lookup(ctx context.Context, key string) ([]string, bool) {
	if s.cache == nil {
		return nil, false
	}
	val, err := s.cache.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		s.log.Warn("recommendation cache get failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	var ids []string
	if err := json.Unmarshal(val, &ids); err != nil {
		s.log.Warn("recommendation cache entry corrupt", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	s.log.Debug("recommendation cache hit", zap.String("key", key))
	return ids, true
}

func (s *Service) store(ctx context.Context, key string, ids []string) {
	if s.cache == nil {
		return
	}
	if ids == nil {
		ids = []string{}
	}
	val, err := json.Marshal(ids)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, val, s.ttl).Err(); err != nil {
		s.log.Warn("recommendation cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// cacheKey identifies a query over a specific candidate set. Queries differing only in case
// or surrounding space share an entry.
func cacheKey(query string, candidates []route.Summary) (string, error) {
	body, err := json.Marshal(struct {
		Query      string          `json:"q"`
		Candidates []route.Summary `json:"c"`
	}{strings.ToLower(strings.TrimSpace(query)), candidates})
	if err != nil {
		return "", fmt.Errorf("build cache key: %w", err)
	}
	sum := sha256.Sum256(body)
	return keyPrefix + hex.EncodeToString(sum[:]), nil
}
