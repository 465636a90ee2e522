// Package postgres keeps the daily import counter in a Postgres database,
// typically the Supabase instance shared with the public site.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
	CREATE TABLE IF NOT EXISTS import_quota (
		date          TEXT PRIMARY KEY,
		imports_count INTEGER NOT NULL DEFAULT 0,
		updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`

// querier is the subset of pgxpool.Pool the store needs.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type QuotaStore struct {
	db   querier
	pool *pgxpool.Pool
}

// NewQuotaStore connects to connString and creates the counter table if
// it is missing.
func NewQuotaStore(ctx context.Context, connString string) (*QuotaStore, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	config.MaxConns = 4
	config.MinConns = 1
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	store := &QuotaStore{db: pool, pool: pool}
	if err := store.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return store, nil
}

func (s *QuotaStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create import_quota table: %w", err)
	}
	return nil
}

// Increment adds one import to date in a single statement and returns the
// new total.
func (s *QuotaStore) Increment(ctx context.Context, date string) (int, error) {
	query := `
		INSERT INTO import_quota (date, imports_count, updated_at)
		VALUES ($1, 1, NOW())
		ON CONFLICT (date) DO UPDATE SET
			imports_count = import_quota.imports_count + 1,
			updated_at = NOW()
		RETURNING imports_count`

	var count int
	if err := s.db.QueryRow(ctx, query, date).Scan(&count); err != nil {
		return 0, fmt.Errorf("increment quota for %s: %w", date, err)
	}
	return count, nil
}

func (s *QuotaStore) Count(ctx context.Context, date string) (int, error) {
	var count int
	err := s.db.QueryRow(ctx, `SELECT imports_count FROM import_quota WHERE date = $1`, date).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read quota for %s: %w", date, err)
	}
	return count, nil
}

func (s *QuotaStore) Close() error {
	if s.pool != nil {
		s.pool.Close()
	}
	return nil
}
