package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/makkenzo/image-moderation-api/internal/domain/token"
)

const uniqueViolationCode = "23505"

type TokenRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTokenRepository(db *pgxpool.Pool, logger *zap.Logger) *TokenRepository {
	return &TokenRepository{
		db:     db,
		logger: logger.Named("TokenRepository"),
	}
}

var _ token.Repository = (*TokenRepository)(nil)

func (r *TokenRepository) Create(ctx context.Context, t *token.Token) (uuid.UUID, error) {
	query := `
		INSERT INTO tokens (token, is_admin, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	var insertedID uuid.UUID
	err := r.db.QueryRow(ctx, query, t.Value, t.IsAdmin, t.CreatedAt).Scan(&insertedID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			r.logger.Warn("Token value collided with an existing row",
				zap.String("constraint", pgErr.ConstraintName),
			)
			return uuid.Nil, token.ErrTokenExists
		}
		r.logger.Error("Failed to create token in database", zap.Error(err))
		return uuid.Nil, fmt.Errorf("db error creating token: %w", err)
	}

	r.logger.Info("Token created successfully", zap.String("id", insertedID.String()))
	return insertedID, nil
}

func (r *TokenRepository) FindByValue(ctx context.Context, value string) (*token.Token, error) {
	query := `
		SELECT id, token, is_admin, created_at
		FROM tokens
		WHERE token = $1
	`
	row := r.db.QueryRow(ctx, query, value)

	var t token.Token
	err := row.Scan(&t.ID, &t.Value, &t.IsAdmin, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.Debug("Token not found by value")
			return nil, token.ErrTokenNotFound
		}
		r.logger.Error("Failed to find token by value", zap.Error(err))
		return nil, fmt.Errorf("db error finding token: %w", err)
	}

	return &t, nil
}

func (r *TokenRepository) List(ctx context.Context) ([]*token.Token, error) {
	query := `
		SELECT id, token, is_admin, created_at
		FROM tokens
		ORDER BY created_at
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list tokens", zap.Error(err))
		return nil, fmt.Errorf("db error listing tokens: %w", err)
	}
	defer rows.Close()

	var tokens []*token.Token
	for rows.Next() {
		var t token.Token
		if err := rows.Scan(&t.ID, &t.Value, &t.IsAdmin, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error scanning token row: %w", err)
		}
		tokens = append(tokens, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error iterating token rows: %w", err)
	}

	return tokens, nil
}

func (r *TokenRepository) DeleteByValue(ctx context.Context, value string) (bool, error) {
	query := `DELETE FROM tokens WHERE token = $1`
	cmdTag, err := r.db.Exec(ctx, query, value)
	if err != nil {
		r.logger.Error("Failed to delete token", zap.Error(err))
		return false, fmt.Errorf("db error deleting token: %w", err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

func (r *TokenRepository) AppendUsage(ctx context.Context, record *token.UsageRecord) error {
	query := `
		INSERT INTO token_usages (token, endpoint, timestamp)
		VALUES ($1, $2, $3)
	`
	if _, err := r.db.Exec(ctx, query, record.Token, record.Endpoint, record.Timestamp); err != nil {
		r.logger.Error("Failed to append usage record", zap.Error(err))
		return fmt.Errorf("db error appending usage record: %w", err)
	}
	return nil
}

func (r *TokenRepository) ListUsageByToken(ctx context.Context, value string) ([]*token.UsageRecord, error) {
	query := `
		SELECT id, token, endpoint, timestamp
		FROM token_usages
		WHERE token = $1
		ORDER BY timestamp
	`
	rows, err := r.db.Query(ctx, query, value)
	if err != nil {
		r.logger.Error("Failed to list usage records", zap.Error(err))
		return nil, fmt.Errorf("db error listing usage records: %w", err)
	}
	defer rows.Close()

	var records []*token.UsageRecord
	for rows.Next() {
		var rec token.UsageRecord
		if err := rows.Scan(&rec.ID, &rec.Token, &rec.Endpoint, &rec.Timestamp); err != nil {
			return nil, fmt.Errorf("db error scanning usage row: %w", err)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error iterating usage rows: %w", err)
	}

	return records, nil
}

// CountUsageBetween aggregates request counts per (token, endpoint)
// over [from, to). Read-only; usage rows are never modified.
func (r *TokenRepository) CountUsageBetween(ctx context.Context, from, to time.Time) ([]token.UsageCount, error) {
	query := `
		SELECT token, endpoint, COUNT(*)
		FROM token_usages
		WHERE timestamp >= $1 AND timestamp < $2
		GROUP BY token, endpoint
	`
	rows, err := r.db.Query(ctx, query, from, to)
	if err != nil {
		r.logger.Error("Failed to count usage records", zap.Error(err))
		return nil, fmt.Errorf("db error counting usage records: %w", err)
	}
	defer rows.Close()

	var counts []token.UsageCount
	for rows.Next() {
		var c token.UsageCount
		if err := rows.Scan(&c.Token, &c.Endpoint, &c.Count); err != nil {
			return nil, fmt.Errorf("db error scanning usage count row: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error iterating usage count rows: %w", err)
	}

	return counts, nil
}

// UpsertUsageStats stores one hourly aggregation bucket. Re-running
// the same bucket overwrites it, so the aggregation task is idempotent.
func (r *TokenRepository) UpsertUsageStats(ctx context.Context, bucketStart time.Time, counts []token.UsageCount) error {
	query := `
		INSERT INTO usage_stats (token, endpoint, bucket_start, request_count)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (token, endpoint, bucket_start)
		DO UPDATE SET request_count = EXCLUDED.request_count
	`
	for _, c := range counts {
		if _, err := r.db.Exec(ctx, query, c.Token, c.Endpoint, bucketStart, c.Count); err != nil {
			r.logger.Error("Failed to upsert usage stat", zap.String("endpoint", c.Endpoint), zap.Error(err))
			return fmt.Errorf("db error upserting usage stat: %w", err)
		}
	}
	return nil
}
