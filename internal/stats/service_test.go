package stats_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freelancepay/freelancepay/internal/stats"
	"github.com/freelancepay/freelancepay/internal/store"
	"github.com/freelancepay/freelancepay/pkg/models"
)

// ─── fakes ───────────────────────────────────────────────────────────────────

type fakeStore struct {
	fins  []store.JobFinancial
	calls int
}

func (s *fakeStore) ListJobFinancials(_ context.Context) ([]store.JobFinancial, error) {
	s.calls++
	return s.fins, nil
}

func (s *fakeStore) Ping(_ context.Context) error                     { return nil }
func (s *fakeStore) CreateJob(_ context.Context, _ *models.Job) error { return nil }
func (s *fakeStore) GetJob(_ context.Context, _ uuid.UUID) (*models.Job, error) {
	return nil, store.ErrNotFound
}
func (s *fakeStore) ListJobsByAddress(_ context.Context, _, _ string) ([]*models.Job, error) {
	return nil, nil
}
func (s *fakeStore) LinkChain(_ context.Context, _ uuid.UUID, _ int64, _ string) error { return nil }
func (s *fakeStore) SubmitWork(_ context.Context, _ uuid.UUID, _, _ string) (*models.Job, error) {
	return nil, store.ErrNotFound
}
func (s *fakeStore) ApplyVerification(_ context.Context, _ uuid.UUID, _ int, _ bool, _ string) error {
	return nil
}
func (s *fakeStore) ForceNeedsReview(_ context.Context, _ uuid.UUID, _ int, _ string) error {
	return nil
}
func (s *fakeStore) TransitionStatus(_ context.Context, _ uuid.UUID, _ string, _ ...string) error {
	return nil
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	return nil
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Ping(_ context.Context) error { return nil }
func (c *memCache) SetVerificationStatus(_ context.Context, _ uuid.UUID, _ string, _ time.Duration) error {
	return nil
}
func (c *memCache) GetVerificationStatus(_ context.Context, _ uuid.UUID) (string, bool, error) {
	return "", false, nil
}
func (c *memCache) IncrWithExpiry(_ context.Context, _ string, _ time.Duration) (int64, error) {
	return 0, nil
}

// ─── tests ───────────────────────────────────────────────────────────────────

func TestSummary_EmptyJobSet(t *testing.T) {
	svc := stats.NewService(&fakeStore{}, newMemCache())

	got, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, got.TotalJobs)
	assert.Equal(t, "0.00", got.TotalVolume)
	assert.Equal(t, 0, got.Completed)
	assert.Equal(t, 0, got.Active)
	assert.Equal(t, "0.00", got.PlatformRevenue)
}

func TestSummary_SingleCompletedJob(t *testing.T) {
	st := &fakeStore{fins: []store.JobFinancial{
		{Amount: 100, Status: models.StatusCompleted},
	}}
	svc := stats.NewService(st, newMemCache())

	got, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, got.TotalJobs)
	assert.Equal(t, "100.00", got.TotalVolume)
	assert.Equal(t, 1, got.Completed)
	assert.Equal(t, "2.00", got.PlatformRevenue)
}

func TestSummary_MixedStatuses(t *testing.T) {
	st := &fakeStore{fins: []store.JobFinancial{
		{Amount: 100, Status: models.StatusCompleted},
		{Amount: 250.50, Status: models.StatusActive},
		{Amount: 50, Status: models.StatusSubmitted},
		{Amount: 200, Status: models.StatusCompleted},
	}}
	svc := stats.NewService(st, newMemCache())

	got, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, got.TotalJobs)
	// volume counts non-completed jobs too
	assert.Equal(t, "600.50", got.TotalVolume)
	assert.Equal(t, 2, got.Completed)
	assert.Equal(t, 1, got.Active)
	// 2% of completed volume only
	assert.Equal(t, "6.00", got.PlatformRevenue)
}

func TestSummary_CachedOnSecondCall(t *testing.T) {
	st := &fakeStore{fins: []store.JobFinancial{
		{Amount: 100, Status: models.StatusCompleted},
	}}
	svc := stats.NewService(st, newMemCache())
	ctx := context.Background()

	first, err := svc.Summary(ctx)
	require.NoError(t, err)
	second, err := svc.Summary(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, st.calls, "second call served from cache")
}
