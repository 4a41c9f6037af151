package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/makkenzo/image-moderation-api/internal/handler/dto"
	"github.com/makkenzo/image-moderation-api/internal/ierr"
	"github.com/makkenzo/image-moderation-api/internal/service"
)

type TokenHandler struct {
	service *service.TokenService
	logger  *zap.Logger
}

func NewTokenHandler(service *service.TokenService, logger *zap.Logger) *TokenHandler {
	return &TokenHandler{
		service: service,
		logger:  logger.Named("TokenHandler"),
	}
}

// Create issues a new token. The body is optional; an empty body means
// a standard (non-admin) token.
func (h *TokenHandler) Create(c *gin.Context) {
	var req dto.CreateTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("Failed to bind create token request", zap.Error(err))
		_ = c.Error(fmt.Errorf("%w: %v", ierr.ErrValidation, err))
		return
	}

	t, err := h.service.IssueToken(c.Request.Context(), req.IsAdmin)
	if err != nil {
		h.logger.Error("Service failed to issue token", zap.Error(err))
		_ = c.Error(err)
		return
	}

	h.logger.Info("Token created via handler", zap.String("id", t.ID.String()))
	c.JSON(http.StatusCreated, dto.NewTokenResponse(t))
}

func (h *TokenHandler) List(c *gin.Context) {
	tokens, err := h.service.ListTokens(c.Request.Context())
	if err != nil {
		h.logger.Error("Service failed to list tokens", zap.Error(err))
		_ = c.Error(err)
		return
	}

	responses := make([]dto.TokenResponse, len(tokens))
	for i, t := range tokens {
		responses[i] = dto.NewTokenResponse(t)
	}

	h.logger.Debug("Tokens listed successfully via handler", zap.Int("count", len(responses)))
	c.JSON(http.StatusOK, responses)
}

func (h *TokenHandler) Delete(c *gin.Context) {
	value := c.Param("value")

	removed, err := h.service.RevokeToken(c.Request.Context(), value)
	if err != nil {
		h.logger.Error("Service failed to revoke token", zap.Error(err))
		_ = c.Error(err)
		return
	}
	if !removed {
		_ = c.Error(fmt.Errorf("%w: Token not found", ierr.ErrNotFound))
		return
	}

	h.logger.Info("Token revoked successfully via handler")
	c.Status(http.StatusNoContent)
}

// Usage lists the append-only usage records for one token value.
func (h *TokenHandler) Usage(c *gin.Context) {
	value := c.Param("value")

	records, err := h.service.ListUsage(c.Request.Context(), value)
	if err != nil {
		h.logger.Error("Service failed to list usage", zap.Error(err))
		_ = c.Error(err)
		return
	}

	responses := make([]dto.UsageResponse, len(records))
	for i, r := range records {
		responses[i] = dto.NewUsageResponse(r)
	}
	c.JSON(http.StatusOK, responses)
}
