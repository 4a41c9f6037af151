package dto

import (
	"time"

	"github.com/makkenzo/image-moderation-api/internal/domain/token"
)

type CreateTokenRequest struct {
	IsAdmin bool `json:"isAdmin"`
}

type TokenResponse struct {
	Token     string    `json:"token"`
	IsAdmin   bool      `json:"isAdmin"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewTokenResponse(t *token.Token) TokenResponse {
	return TokenResponse{
		Token:     t.Value,
		IsAdmin:   t.IsAdmin,
		CreatedAt: t.CreatedAt,
	}
}

type UsageResponse struct {
	Token     string    `json:"token"`
	Endpoint  string    `json:"endpoint"`
	Timestamp time.Time `json:"timestamp"`
}

func NewUsageResponse(r *token.UsageRecord) UsageResponse {
	return UsageResponse{
		Token:     r.Token,
		Endpoint:  r.Endpoint,
		Timestamp: r.Timestamp,
	}
}
