package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"github.com/makkenzo/image-moderation-api/internal/domain/token"
	"github.com/makkenzo/image-moderation-api/internal/metrics"
)

// UsageStatsRepository is the slice of the store the aggregation task
// needs. Reads usage records, writes only to the stats table.
type UsageStatsRepository interface {
	CountUsageBetween(ctx context.Context, from, to time.Time) ([]token.UsageCount, error)
	UpsertUsageStats(ctx context.Context, bucketStart time.Time, counts []token.UsageCount) error
}

type UsageStatsHandler struct {
	repo   UsageStatsRepository
	logger *zap.Logger
	now    func() time.Time
}

func NewUsageStatsHandler(repo UsageStatsRepository, logger *zap.Logger) *UsageStatsHandler {
	return &UsageStatsHandler{
		repo:   repo,
		logger: logger.Named("UsageStatsHandler"),
		now:    time.Now,
	}
}

// ProcessTask aggregates the previous full hour of usage records into
// the stats table and refreshes the per-endpoint gauges.
func (h *UsageStatsHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	bucketStart := h.now().UTC().Truncate(time.Hour).Add(-time.Hour)
	bucketEnd := bucketStart.Add(time.Hour)

	counts, err := h.repo.CountUsageBetween(ctx, bucketStart, bucketEnd)
	if err != nil {
		return fmt.Errorf("counting usage for bucket %s: %w", bucketStart.Format(time.RFC3339), err)
	}

	if err := h.repo.UpsertUsageStats(ctx, bucketStart, counts); err != nil {
		return fmt.Errorf("storing usage stats for bucket %s: %w", bucketStart.Format(time.RFC3339), err)
	}

	perEndpoint := make(map[string]int64)
	for _, c := range counts {
		perEndpoint[c.Endpoint] += c.Count
	}
	for endpoint, count := range perEndpoint {
		metrics.SetHourlyUsage(endpoint, count)
	}

	h.logger.Info("Usage stats aggregated",
		zap.Time("bucket_start", bucketStart),
		zap.Int("groups", len(counts)),
	)
	return nil
}
