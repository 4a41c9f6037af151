package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/makkenzo/image-moderation-api/internal/service"
	"github.com/makkenzo/image-moderation-api/internal/storage/postgres"
)

// Mints a bootstrap admin token directly against the store. Needed
// once per deployment: every other token is issued over the API, which
// itself requires an admin token.
func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	logger, _ := zap.NewDevelopment()
	pool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v\n", err)
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(context.Background(), pool, logger); err != nil {
		log.Fatalf("Failed to ensure database schema: %v", err)
	}

	repo := postgres.NewTokenRepository(pool, logger)
	tokens := service.NewTokenService(repo, logger)

	created, err := tokens.IssueToken(context.Background(), true)
	if err != nil {
		log.Fatalf("Failed to issue admin token: %v", err)
	}

	fmt.Printf("Generated admin token (SAVE THIS securely!):\n%s\n\n", created.Value)
	fmt.Printf("Created at: %s\n", created.CreatedAt)
}
