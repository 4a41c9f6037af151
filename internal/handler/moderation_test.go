package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/makkenzo/image-moderation-api/internal/domain/moderation"
	"github.com/makkenzo/image-moderation-api/internal/handler/dto"
)

// fixedEngine returns a canned verdict, or fails when err is set.
type fixedEngine struct {
	result *moderation.Result
	err    error
}

func (e *fixedEngine) Analyze(ctx context.Context, image []byte) (*moderation.Result, error) {
	if e.err != nil {
		return nil, e.err
	}
	if e.result != nil {
		return e.result, nil
	}
	return moderation.BuildResult(nil, 0.7, time.Millisecond), nil
}

func TestModerationHandler_Moderate(t *testing.T) {
	flagged := moderation.BuildResult([]moderation.Category{
		{Name: "violence", Confidence: 0.92, Severity: moderation.SeverityHigh},
	}, 0.7, 42*time.Millisecond)
	env := newTestEnv(t, &fixedEngine{result: flagged})
	standard := env.issue(t, false)

	body, contentType := buildUpload(t, "image/jpeg", []byte("jpeg-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/moderate", body)
	req.Header.Set("Content-Type", contentType)
	w := env.do(t, req, standard.Value)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.ModerationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Safe)
	assert.Equal(t, moderation.MessageFlagged, resp.Message)
	require.Len(t, resp.Categories, 1)
	assert.Equal(t, "violence", resp.Categories[0].Name)
	assert.Equal(t, "high", resp.Categories[0].Severity)
	assert.InDelta(t, 0.042, resp.AnalysisTime, 0.001)
}

func TestModerationHandler_Moderate_OversizedFile(t *testing.T) {
	env := newTestEnv(t, &fixedEngine{})
	standard := env.issue(t, false)

	// 15 MiB with an allowed content type: the size check fires, not
	// the type check.
	body, contentType := buildUpload(t, "image/png", bytes.Repeat([]byte("a"), 15*1024*1024))
	req := httptest.NewRequest(http.MethodPost, "/moderate", body)
	req.Header.Set("Content-Type", contentType)
	w := env.do(t, req, standard.Value)

	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)

	var resp dto.APIErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Message, "10.0 MB")
}

func TestModerationHandler_Moderate_OversizedDisallowedType(t *testing.T) {
	env := newTestEnv(t, &fixedEngine{})
	standard := env.issue(t, false)

	body, contentType := buildUpload(t, "text/plain", bytes.Repeat([]byte("a"), 15*1024*1024))
	req := httptest.NewRequest(http.MethodPost, "/moderate", body)
	req.Header.Set("Content-Type", contentType)
	w := env.do(t, req, standard.Value)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestModerationHandler_Moderate_UnsupportedType(t *testing.T) {
	env := newTestEnv(t, &fixedEngine{})
	standard := env.issue(t, false)

	body, contentType := buildUpload(t, "text/plain", []byte("definitely not an image"))
	req := httptest.NewRequest(http.MethodPost, "/moderate", body)
	req.Header.Set("Content-Type", contentType)
	w := env.do(t, req, standard.Value)

	require.Equal(t, http.StatusUnsupportedMediaType, w.Code)

	var resp dto.APIErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Message, "image/png")
}

func TestModerationHandler_Moderate_MissingFileField(t *testing.T) {
	env := newTestEnv(t, &fixedEngine{})
	standard := env.issue(t, false)

	req := httptest.NewRequest(http.MethodPost, "/moderate", bytes.NewBufferString("not multipart"))
	req.Header.Set("Content-Type", "application/json")
	w := env.do(t, req, standard.Value)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestModerationHandler_Moderate_RequiresToken(t *testing.T) {
	env := newTestEnv(t, &fixedEngine{})

	body, contentType := buildUpload(t, "image/png", []byte("png-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/moderate", body)
	req.Header.Set("Content-Type", contentType)
	w := env.do(t, req, "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestModerationHandler_Moderate_EngineFailure(t *testing.T) {
	env := newTestEnv(t, &fixedEngine{err: errors.New("backend down")})
	standard := env.issue(t, false)

	body, contentType := buildUpload(t, "image/png", []byte("png-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/moderate", body)
	req.Header.Set("Content-Type", contentType)
	w := env.do(t, req, standard.Value)

	require.Equal(t, http.StatusInternalServerError, w.Code)

	var resp dto.APIErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	// Generic body; engine detail stays in the logs.
	assert.NotContains(t, resp.Message, "backend down")
}
