package moderation

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/makkenzo/image-moderation-api/internal/config"
	domain "github.com/makkenzo/image-moderation-api/internal/domain/moderation"
)

var categoryNames = []string{"violence", "nudity", "hate_symbols"}

// MockEngine is a stand-in for a real image-analysis backend. It draws
// an independent uniform confidence per category and reports every
// category above the confidence floor. MinProcessingTime simulates
// analysis latency; zero disables the delay.
type MockEngine struct {
	threshold     float64
	minProcessing time.Duration
	randFloat     func() float64
	logger        *zap.Logger
}

var _ domain.Engine = (*MockEngine)(nil)

func NewMockEngine(cfg *config.ModerationConfig, logger *zap.Logger) *MockEngine {
	return &MockEngine{
		threshold:     cfg.Threshold,
		minProcessing: cfg.MinProcessingTime,
		randFloat:     rand.Float64,
		logger:        logger.Named("MockEngine"),
	}
}

func (e *MockEngine) Analyze(ctx context.Context, image []byte) (*domain.Result, error) {
	start := time.Now()

	if e.minProcessing > 0 {
		select {
		case <-time.After(e.minProcessing):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	var categories []domain.Category
	for _, name := range categoryNames {
		confidence := e.randFloat()
		if confidence <= domain.ConfidenceFloor {
			continue
		}
		categories = append(categories, domain.Category{
			Name:       name,
			Confidence: confidence,
			Severity:   domain.SeverityForConfidence(confidence),
		})
	}

	result := domain.BuildResult(categories, e.threshold, time.Since(start))

	e.logger.Debug("Mock analysis finished",
		zap.Int("image_bytes", len(image)),
		zap.Bool("safe", result.Safe),
		zap.Int("categories", len(result.Categories)),
	)

	return result, nil
}
