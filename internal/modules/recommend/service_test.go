package recommend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"strollpath/internal/ai"
	"strollpath/internal/modules/aiquota"
	"strollpath/internal/modules/route"
)

type countingRecommender struct {
	ids   []string
	err   error
	calls int
}

func (c *countingRecommender) RecommendRoutes(context.Context, string, []route.Summary) ([]string, error) {
	c.calls++
	return c.ids, c.err
}

func (c *countingRecommender) GenerateDescription(_ context.Context, req ai.DescriptionRequest) (string, error) {
	c.calls++
	return "about " + req.Name, c.err
}

type fakeQuota struct {
	left     int
	charged  []string
	refunded []string
}

func (q *fakeQuota) Consume(_ context.Context, uid string) error {
	if q.left <= 0 {
		return aiquota.ErrQuotaExceeded
	}
	q.left--
	q.charged = append(q.charged, uid)
	return nil
}

func (q *fakeQuota) Refund(_ context.Context, uid string) error {
	q.left++
	q.refunded = append(q.refunded, uid)
	return nil
}

var candidates = []route.Summary{
	{ID: "pond", Name: "Pond", DistanceMiles: 1.6, Tags: []string{"nature"}},
	{ID: "rail", Name: "Rail", DistanceMiles: 5, Tags: []string{"paved"}},
}

func newTestService(t *testing.T, rec ai.Recommender, quota Quota) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewService(rec, client, quota, time.Minute, zaptest.NewLogger(t)), mr
}

func TestRecommend_CachesAnswers(t *testing.T) {
	rec := &countingRecommender{ids: []string{"pond"}}
	quota := &fakeQuota{left: 10}
	svc, _ := newTestService(t, rec, quota)
	ctx := context.Background()

	ids, err := svc.Recommend(ctx, "u1", "near water", candidates)
	require.NoError(t, err)
	assert.Equal(t, []string{"pond"}, ids)

	ids, err = svc.Recommend(ctx, "u2", "  Near Water ", candidates)
	require.NoError(t, err)
	assert.Equal(t, []string{"pond"}, ids)

	assert.Equal(t, 1, rec.calls)
	assert.Equal(t, []string{"u1"}, quota.charged)
}

func TestRecommend_DifferentCandidatesMiss(t *testing.T) {
	rec := &countingRecommender{ids: []string{}}
	svc, _ := newTestService(t, rec, nil)
	ctx := context.Background()

	_, err := svc.Recommend(ctx, "u1", "q", candidates)
	require.NoError(t, err)
	ids, err := svc.Recommend(ctx, "u1", "q", candidates[:1])
	require.NoError(t, err)

	assert.Equal(t, []string{}, ids)
	assert.Equal(t, 2, rec.calls)
}

func TestRecommend_EntriesExpire(t *testing.T) {
	rec := &countingRecommender{ids: []string{"rail"}}
	svc, mr := newTestService(t, rec, nil)
	ctx := context.Background()

	_, err := svc.Recommend(ctx, "u1", "q", candidates)
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)
	_, err = svc.Recommend(ctx, "u1", "q", candidates)
	require.NoError(t, err)

	assert.Equal(t, 2, rec.calls)
}

func TestRecommend_QuotaExceeded(t *testing.T) {
	rec := &countingRecommender{ids: []string{"pond"}}
	svc, _ := newTestService(t, rec, &fakeQuota{left: 0})

	_, err := svc.Recommend(context.Background(), "u1", "q", candidates)
	assert.ErrorIs(t, err, aiquota.ErrQuotaExceeded)
	assert.Zero(t, rec.calls)
}

func TestRecommend_FailuresAreNotCached(t *testing.T) {
	rec := &countingRecommender{err: ai.ErrUnavailable}
	svc, mr := newTestService(t, rec, nil)

	_, err := svc.Recommend(context.Background(), "u1", "q", candidates)
	assert.ErrorIs(t, err, ai.ErrUnavailable)
	assert.Empty(t, mr.Keys())
}

func TestRecommend_CacheDownFallsThrough(t *testing.T) {
	rec := &countingRecommender{ids: []string{"pond"}}
	svc, mr := newTestService(t, rec, nil)
	mr.Close()

	ids, err := svc.Recommend(context.Background(), "u1", "q", candidates)
	require.NoError(t, err)
	assert.Equal(t, []string{"pond"}, ids)
}

func TestRecommend_WithoutCache(t *testing.T) {
	rec := &countingRecommender{ids: []string{"pond"}}
	svc := NewService(rec, nil, nil, 0, nil)

	_, err := svc.Recommend(context.Background(), "u1", "q", candidates)
	require.NoError(t, err)
	_, err = svc.Recommend(context.Background(), "u1", "q", candidates)
	require.NoError(t, err)
	assert.Equal(t, 2, rec.calls)
}

func TestDescribe_ChargesEveryCall(t *testing.T) {
	rec := &countingRecommender{}
	quota := &fakeQuota{left: 1}
	svc, _ := newTestService(t, rec, quota)
	ctx := context.Background()

	out, err := svc.Describe(ctx, "u1", ai.DescriptionRequest{Name: "Pond"})
	require.NoError(t, err)
	assert.Equal(t, "about Pond", out)

	_, err = svc.Describe(ctx, "u1", ai.DescriptionRequest{Name: "Pond"})
	assert.True(t, errors.Is(err, aiquota.ErrQuotaExceeded))
}

func TestFailedCallsAreRefunded(t *testing.T) {
	rec := &countingRecommender{err: ai.ErrUnavailable}
	quota := &fakeQuota{left: 1}
	svc, _ := newTestService(t, rec, quota)
	ctx := context.Background()

	_, err := svc.Recommend(ctx, "u1", "q", candidates)
	assert.ErrorIs(t, err, ai.ErrUnavailable)
	_, err = svc.Describe(ctx, "u1", ai.DescriptionRequest{Name: "Pond"})
	assert.ErrorIs(t, err, ai.ErrUnavailable)

	assert.Equal(t, 2, rec.calls)
	assert.Equal(t, []string{"u1", "u1"}, quota.charged)
	assert.Equal(t, []string{"u1", "u1"}, quota.refunded)
	assert.Equal(t, 1, quota.left)
}
