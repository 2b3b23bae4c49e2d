package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgGetSnapshot    = `SELECT value FROM quiz_snapshots WHERE key = $1`
	pgUpsertSnapshot = `INSERT INTO quiz_snapshots (key, value, updated_at) VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
	pgDeleteSnapshot = `DELETE FROM quiz_snapshots WHERE key = $1`
)

// pgQuerier is the subset of *pgxpool.Pool the store needs.
type pgQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Ping(ctx context.Context) error
}

// Postgres stores snapshots in the quiz_snapshots table (see db/migrations).
type Postgres struct {
	db pgQuerier
}

var _ Store = (*Postgres)(nil)

// NewPostgres wraps a pgx pool.
func NewPostgres(db pgQuerier) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Get(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}
	var value string
	if err := p.db.QueryRow(ctx, pgGetSnapshot, key).Scan(&value); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get snapshot: %w", err)
	}
	return value, true, nil
}

func (p *Postgres) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if _, err := p.db.Exec(ctx, pgUpsertSnapshot, key, value); err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if _, err := p.db.Exec(ctx, pgDeleteSnapshot, key); err != nil {
		return fmt.Errorf("delete snapshot: %w", err)
	}
	return nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	return p.db.Ping(ctx)
}
