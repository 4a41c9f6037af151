package token

import (
	"time"

	"github.com/google/uuid"
)

// Token is a bearer credential. The opaque Value is the external lookup
// key; IsAdmin and CreatedAt are immutable after creation.
type Token struct {
	ID        uuid.UUID `db:"id"`
	Value     string    `db:"token"`
	IsAdmin   bool      `db:"is_admin"`
	CreatedAt time.Time `db:"created_at"`
}

// UsageRecord is an append-only audit row: which token hit which
// endpoint and when.
type UsageRecord struct {
	ID        uuid.UUID `db:"id"`
	Token     string    `db:"token"`
	Endpoint  string    `db:"endpoint"`
	Timestamp time.Time `db:"timestamp"`
}

// UsageCount is an aggregated request count per (token, endpoint) for
// one stats bucket.
type UsageCount struct {
	Token    string
	Endpoint string
	Count    int64
}

// ValueEntropyBytes is the number of random bytes behind a generated
// token value (256 bits).
const ValueEntropyBytes = 32
