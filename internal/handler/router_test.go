package handler

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/makkenzo/image-moderation-api/internal/config"
	"github.com/makkenzo/image-moderation-api/internal/domain/moderation"
	"github.com/makkenzo/image-moderation-api/internal/domain/token"
	"github.com/makkenzo/image-moderation-api/internal/handler/middleware"
	"github.com/makkenzo/image-moderation-api/internal/service"
	"github.com/makkenzo/image-moderation-api/internal/storage/memstorage"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router *gin.Engine
	repo   token.Repository
	tokens *service.TokenService
}

// newTestEnv wires the handlers the way cmd/server does, backed by the
// in-memory store and the given analysis engine.
func newTestEnv(t *testing.T, engine moderation.Engine) *testEnv {
	t.Helper()

	logger := zap.NewNop()
	repo := memstorage.NewTokenRepositoryMem()
	tokens := service.NewTokenService(repo, logger)

	moderationCfg := &config.ModerationConfig{
		MaxImageSize: 10 * 1024 * 1024,
		AllowedTypes: []string{"image/jpeg", "image/png", "image/gif", "image/webp"},
		Threshold:    0.7,
	}
	moderationService := service.NewModerationService(engine, moderationCfg, logger)

	tokenHandler := NewTokenHandler(tokens, logger)
	moderationHandler := NewModerationHandler(moderationService, logger)

	bearerAuth := middleware.BearerAuth(tokens, logger)
	requireAdmin := middleware.RequireAdmin(logger)

	router := gin.New()
	router.Use(middleware.ErrorHandlerMiddleware(logger))

	authRoutes := router.Group("/auth")
	authRoutes.Use(bearerAuth, requireAdmin)
	{
		authRoutes.POST("/tokens", tokenHandler.Create)
		authRoutes.GET("/tokens", tokenHandler.List)
		authRoutes.DELETE("/tokens/:value", tokenHandler.Delete)
		authRoutes.GET("/usage/:value", tokenHandler.Usage)
	}

	router.POST("/moderate",
		bearerAuth,
		middleware.LogUsage(tokens, "/moderate", logger),
		moderationHandler.Moderate,
	)

	return &testEnv{router: router, repo: repo, tokens: tokens}
}

func (env *testEnv) issue(t *testing.T, isAdmin bool) *token.Token {
	t.Helper()
	issued, err := env.tokens.IssueToken(context.Background(), isAdmin)
	require.NoError(t, err)
	return issued
}

func (env *testEnv) do(t *testing.T, req *http.Request, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

// buildUpload assembles a single-file multipart body with an explicit
// per-part Content-Type.
func buildUpload(t *testing.T, contentType string, content []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="upload.bin"`)
	header.Set("Content-Type", contentType)

	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}
