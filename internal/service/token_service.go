package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/makkenzo/image-moderation-api/internal/domain/token"
	"github.com/makkenzo/image-moderation-api/internal/ierr"
	"github.com/makkenzo/image-moderation-api/internal/util"
)

// issueRetries bounds how often IssueToken redraws after a value
// collision before giving up with ErrConflict.
const issueRetries = 2

type TokenService struct {
	repo   token.Repository
	logger *zap.Logger
}

func NewTokenService(repo token.Repository, logger *zap.Logger) *TokenService {
	return &TokenService{
		repo:   repo,
		logger: logger.Named("TokenService"),
	}
}

// IssueToken generates a fresh opaque value server-side and stores it.
// A collision with an existing value is astronomically unlikely; the
// store's uniqueness constraint catches it and the draw is retried.
func (s *TokenService) IssueToken(ctx context.Context, isAdmin bool) (*token.Token, error) {
	for attempt := 0; attempt <= issueRetries; attempt++ {
		value, err := util.GenerateTokenValue(token.ValueEntropyBytes)
		if err != nil {
			s.logger.Error("Failed to generate token value", zap.Error(err))
			return nil, fmt.Errorf("%w: failed generating token value: %v", ierr.ErrInternalServer, err)
		}

		t := &token.Token{
			Value:     value,
			IsAdmin:   isAdmin,
			CreatedAt: time.Now().UTC(),
		}

		insertedID, err := s.repo.Create(ctx, t)
		if errors.Is(err, token.ErrTokenExists) {
			s.logger.Warn("Token value collision, retrying", zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			s.logger.Error("Failed to save new token", zap.Error(err))
			return nil, fmt.Errorf("repository error creating token: %w", err)
		}

		t.ID = insertedID
		s.logger.Info("Token issued successfully", zap.String("id", insertedID.String()), zap.Bool("is_admin", isAdmin))
		return t, nil
	}

	return nil, fmt.Errorf("%w: token value collision persisted across retries", ierr.ErrConflict)
}

func (s *TokenService) ListTokens(ctx context.Context) ([]*token.Token, error) {
	tokens, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list tokens from repository", zap.Error(err))
		return nil, fmt.Errorf("repository error listing tokens: %w", err)
	}
	s.logger.Debug("Tokens listed successfully", zap.Int("count", len(tokens)))
	return tokens, nil
}

// RevokeToken deletes by value. A missing token is reported as false,
// not an error.
func (s *TokenService) RevokeToken(ctx context.Context, value string) (bool, error) {
	removed, err := s.repo.DeleteByValue(ctx, value)
	if err != nil {
		s.logger.Error("Failed to revoke token via repository", zap.Error(err))
		return false, fmt.Errorf("repository error revoking token: %w", err)
	}
	return removed, nil
}

// ResolveToken is a pure lookup with no side effects. Passes through
// token.ErrTokenNotFound for an unknown value.
func (s *TokenService) ResolveToken(ctx context.Context, value string) (*token.Token, error) {
	t, err := s.repo.FindByValue(ctx, value)
	if err != nil {
		if errors.Is(err, token.ErrTokenNotFound) {
			return nil, err
		}
		s.logger.Error("Failed to resolve token via repository", zap.Error(err))
		return nil, fmt.Errorf("repository error resolving token: %w", err)
	}
	return t, nil
}

// LogUsage appends one usage record. Happens-after a successful
// authentication, never before.
func (s *TokenService) LogUsage(ctx context.Context, value, endpoint string) error {
	record := &token.UsageRecord{
		Token:     value,
		Endpoint:  endpoint,
		Timestamp: time.Now().UTC(),
	}
	if err := s.repo.AppendUsage(ctx, record); err != nil {
		s.logger.Error("Failed to append usage record", zap.String("endpoint", endpoint), zap.Error(err))
		return fmt.Errorf("repository error appending usage: %w", err)
	}
	return nil
}

func (s *TokenService) ListUsage(ctx context.Context, value string) ([]*token.UsageRecord, error) {
	records, err := s.repo.ListUsageByToken(ctx, value)
	if err != nil {
		s.logger.Error("Failed to list usage records", zap.Error(err))
		return nil, fmt.Errorf("repository error listing usage: %w", err)
	}
	return records, nil
}
