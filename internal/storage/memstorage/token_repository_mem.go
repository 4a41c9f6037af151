package memstorage

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/makkenzo/image-moderation-api/internal/domain/token"
)

// TokenRepositoryMem is an in-memory token.Repository used by unit
// tests and local development. Uniqueness of the token value is
// enforced under the same lock as the insert, mirroring the unique
// index the Postgres implementation relies on.
type TokenRepositoryMem struct {
	mu     sync.RWMutex
	tokens map[string]*token.Token
	order  []string
	usages []*token.UsageRecord
}

var _ token.Repository = (*TokenRepositoryMem)(nil)

func NewTokenRepositoryMem() *TokenRepositoryMem {
	return &TokenRepositoryMem{
		tokens: make(map[string]*token.Token),
	}
}

func (r *TokenRepositoryMem) Create(ctx context.Context, t *token.Token) (uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tokens[t.Value]; exists {
		return uuid.Nil, token.ErrTokenExists
	}

	stored := *t
	stored.ID = uuid.New()
	r.tokens[stored.Value] = &stored
	r.order = append(r.order, stored.Value)
	return stored.ID, nil
}

func (r *TokenRepositoryMem) FindByValue(ctx context.Context, value string) (*token.Token, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tokens[value]
	if !ok {
		return nil, token.ErrTokenNotFound
	}

	tokenCopy := *t
	return &tokenCopy, nil
}

func (r *TokenRepositoryMem) List(ctx context.Context) ([]*token.Token, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tokens := make([]*token.Token, 0, len(r.order))
	for _, value := range r.order {
		tokenCopy := *r.tokens[value]
		tokens = append(tokens, &tokenCopy)
	}
	return tokens, nil
}

func (r *TokenRepositoryMem) DeleteByValue(ctx context.Context, value string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tokens[value]; !ok {
		return false, nil
	}

	delete(r.tokens, value)
	for i, v := range r.order {
		if v == value {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func (r *TokenRepositoryMem) AppendUsage(ctx context.Context, record *token.UsageRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *record
	stored.ID = uuid.New()
	r.usages = append(r.usages, &stored)
	return nil
}

func (r *TokenRepositoryMem) ListUsageByToken(ctx context.Context, value string) ([]*token.UsageRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var records []*token.UsageRecord
	for _, rec := range r.usages {
		if rec.Token == value {
			recCopy := *rec
			records = append(records, &recCopy)
		}
	}
	return records, nil
}
