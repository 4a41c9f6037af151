package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/makkenzo/image-moderation-api/internal/domain/token"
)

type mockStatsRepo struct {
	counts   []token.UsageCount
	countErr error

	gotFrom        time.Time
	gotTo          time.Time
	upsertedBucket time.Time
	upserted       []token.UsageCount
	upsertErr      error
}

func (m *mockStatsRepo) CountUsageBetween(ctx context.Context, from, to time.Time) ([]token.UsageCount, error) {
	m.gotFrom = from
	m.gotTo = to
	return m.counts, m.countErr
}

func (m *mockStatsRepo) UpsertUsageStats(ctx context.Context, bucketStart time.Time, counts []token.UsageCount) error {
	m.upsertedBucket = bucketStart
	m.upserted = counts
	return m.upsertErr
}

func TestUsageStatsHandler_ProcessTask(t *testing.T) {
	repo := &mockStatsRepo{
		counts: []token.UsageCount{
			{Token: "tok-a", Endpoint: "/moderate", Count: 3},
			{Token: "tok-b", Endpoint: "/moderate", Count: 2},
		},
	}
	handler := NewUsageStatsHandler(repo, zap.NewNop())
	handler.now = func() time.Time {
		return time.Date(2026, 8, 30, 14, 25, 0, 0, time.UTC)
	}

	task, err := NewUsageStatsTask()
	require.NoError(t, err)

	require.NoError(t, handler.ProcessTask(context.Background(), task))

	wantStart := time.Date(2026, 8, 30, 13, 0, 0, 0, time.UTC)
	assert.Equal(t, wantStart, repo.gotFrom)
	assert.Equal(t, wantStart.Add(time.Hour), repo.gotTo)
	assert.Equal(t, wantStart, repo.upsertedBucket)
	assert.Equal(t, repo.counts, repo.upserted)
}

func TestUsageStatsHandler_ProcessTask_CountFailure(t *testing.T) {
	repo := &mockStatsRepo{countErr: errors.New("db gone")}
	handler := NewUsageStatsHandler(repo, zap.NewNop())

	task, err := NewUsageStatsTask()
	require.NoError(t, err)

	err = handler.ProcessTask(context.Background(), task)
	require.Error(t, err)
	assert.Empty(t, repo.upserted)
}
