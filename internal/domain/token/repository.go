package token

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrTokenNotFound = errors.New("token not found")
	ErrTokenExists   = errors.New("token value already exists")
)

// Repository persists tokens and their usage records. Implementations
// must enforce uniqueness of Token.Value atomically (unique index, not
// check-then-insert) and reject duplicates with ErrTokenExists.
type Repository interface {
	Create(ctx context.Context, t *Token) (uuid.UUID, error)
	FindByValue(ctx context.Context, value string) (*Token, error)
	List(ctx context.Context) ([]*Token, error)
	DeleteByValue(ctx context.Context, value string) (bool, error)

	AppendUsage(ctx context.Context, record *UsageRecord) error
	ListUsageByToken(ctx context.Context, value string) ([]*UsageRecord, error)
}
