package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/makkenzo/image-moderation-api/internal/config"
	"github.com/makkenzo/image-moderation-api/internal/domain/moderation"
	"github.com/makkenzo/image-moderation-api/internal/ierr"
)

type stubEngine struct {
	result *moderation.Result
	err    error
}

func (e *stubEngine) Analyze(ctx context.Context, image []byte) (*moderation.Result, error) {
	return e.result, e.err
}

func newTestModerationService(engine moderation.Engine) *ModerationService {
	cfg := &config.ModerationConfig{
		MaxImageSize: 10 * 1024 * 1024,
		AllowedTypes: []string{"image/jpeg", "image/png", "image/gif", "image/webp"},
		Threshold:    0.7,
	}
	return NewModerationService(engine, cfg, zap.NewNop())
}

func TestModerationService_ValidateUpload(t *testing.T) {
	svc := newTestModerationService(&stubEngine{})

	tests := []struct {
		name        string
		size        int64
		contentType string
		wantErr     error
	}{
		{name: "small png passes", size: 1024, contentType: "image/png", wantErr: nil},
		{name: "exactly at limit passes", size: 10 * 1024 * 1024, contentType: "image/jpeg", wantErr: nil},
		{name: "oversized png", size: 15 * 1024 * 1024, contentType: "image/png", wantErr: ierr.ErrPayloadTooLarge},
		{name: "disallowed type", size: 1024, contentType: "text/plain", wantErr: ierr.ErrUnsupportedMedia},
		// An oversized file of a disallowed type must report the size error.
		{name: "size checked before type", size: 15 * 1024 * 1024, contentType: "text/plain", wantErr: ierr.ErrPayloadTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ValidateUpload(tt.size, tt.contentType)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestModerationService_ValidateUpload_Messages(t *testing.T) {
	svc := newTestModerationService(&stubEngine{})

	err := svc.ValidateUpload(15*1024*1024, "image/png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "10.0 MB")

	err = svc.ValidateUpload(1024, "text/plain")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "image/jpeg, image/png, image/gif, image/webp")
}

func TestModerationService_Analyze(t *testing.T) {
	want := moderation.BuildResult([]moderation.Category{
		{Name: "violence", Confidence: 0.9, Severity: moderation.SeverityHigh},
	}, 0.7, 10*time.Millisecond)

	svc := newTestModerationService(&stubEngine{result: want})

	got, err := svc.Analyze(context.Background(), []byte("img"))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestModerationService_Analyze_EngineFailure(t *testing.T) {
	svc := newTestModerationService(&stubEngine{err: errors.New("model exploded")})

	_, err := svc.Analyze(context.Background(), []byte("img"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ierr.ErrInternalServer)
	// Internal detail must not surface to callers.
	assert.NotContains(t, err.Error(), "model exploded")
}
