package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/makkenzo/image-moderation-api/internal/config"
	"github.com/makkenzo/image-moderation-api/internal/domain/moderation"
	"github.com/makkenzo/image-moderation-api/internal/ierr"
)

type ModerationService struct {
	engine       moderation.Engine
	maxImageSize int64
	allowedTypes []string
	logger       *zap.Logger
}

func NewModerationService(engine moderation.Engine, cfg *config.ModerationConfig, logger *zap.Logger) *ModerationService {
	return &ModerationService{
		engine:       engine,
		maxImageSize: cfg.MaxImageSize,
		allowedTypes: cfg.AllowedTypes,
		logger:       logger.Named("ModerationService"),
	}
}

// ValidateUpload gates an upload before any analysis runs. Size is
// checked before content type; an oversized file of a disallowed type
// reports the size error.
func (s *ModerationService) ValidateUpload(size int64, contentType string) error {
	if size > s.maxImageSize {
		return fmt.Errorf("%w: File too large. Maximum size is %.1f MB",
			ierr.ErrPayloadTooLarge, float64(s.maxImageSize)/(1024*1024))
	}

	for _, allowed := range s.allowedTypes {
		if contentType == allowed {
			return nil
		}
	}
	return fmt.Errorf("%w: Unsupported file type. Allowed types: %s",
		ierr.ErrUnsupportedMedia, strings.Join(s.allowedTypes, ", "))
}

// Analyze hands validated image bytes to the engine. Engine failures
// surface as internal errors; detail stays in the logs.
func (s *ModerationService) Analyze(ctx context.Context, image []byte) (*moderation.Result, error) {
	result, err := s.engine.Analyze(ctx, image)
	if err != nil {
		s.logger.Error("Analysis engine failed", zap.Error(err))
		return nil, fmt.Errorf("%w: image analysis failed", ierr.ErrInternalServer)
	}
	return result, nil
}
