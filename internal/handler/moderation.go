package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/makkenzo/image-moderation-api/internal/handler/dto"
	"github.com/makkenzo/image-moderation-api/internal/ierr"
	"github.com/makkenzo/image-moderation-api/internal/metrics"
	"github.com/makkenzo/image-moderation-api/internal/service"
)

const uploadFormField = "file"

type ModerationHandler struct {
	service *service.ModerationService
	logger  *zap.Logger
}

func NewModerationHandler(service *service.ModerationService, logger *zap.Logger) *ModerationHandler {
	return &ModerationHandler{
		service: service,
		logger:  logger.Named("ModerationHandler"),
	}
}

// Moderate accepts a multipart upload, validates it (size before
// type) and returns the engine's verdict.
func (h *ModerationHandler) Moderate(c *gin.Context) {
	file, err := c.FormFile(uploadFormField)
	if err != nil {
		h.logger.Warn("Missing or unreadable upload file field", zap.Error(err))
		_ = c.Error(fmt.Errorf("%w: a single '%s' form field is required", ierr.ErrValidation, uploadFormField))
		return
	}

	contentType := file.Header.Get("Content-Type")
	if err := h.service.ValidateUpload(file.Size, contentType); err != nil {
		_ = c.Error(err)
		return
	}

	src, err := file.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded file", zap.Error(err))
		_ = c.Error(ierr.ErrInternalServer)
		return
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		h.logger.Error("Failed to read uploaded file", zap.Error(err))
		_ = c.Error(ierr.ErrInternalServer)
		return
	}

	result, err := h.service.Analyze(c.Request.Context(), content)
	if err != nil {
		_ = c.Error(err)
		return
	}

	metrics.ObserveModerationVerdict(result.Safe)

	h.logger.Info("Image moderated",
		zap.Int64("size_bytes", file.Size),
		zap.String("content_type", contentType),
		zap.Bool("safe", result.Safe),
	)
	c.JSON(http.StatusOK, dto.NewModerationResponse(result))
}
