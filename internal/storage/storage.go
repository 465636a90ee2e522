// Package storage selects where the daily import counter lives.
//
// The counter defaults to the service's own SQLite database. Deployments
// that run more than one instance point it at the shared Supabase Postgres
// database or at a DynamoDB table so every instance sees the same count.
package storage

import (
	"context"
	"fmt"
	"log"
	"strings"

	"gorm.io/gorm"

	dbquota "github.com/annuaire-qc/directory/internal/database/quota"
	"github.com/annuaire-qc/directory/internal/quota"
	"github.com/annuaire-qc/directory/internal/storage/dynamo"
	"github.com/annuaire-qc/directory/internal/storage/postgres"
)

type Backend string

const (
	BackendSQLite   Backend = "sqlite"
	BackendPostgres Backend = "postgres"
	BackendDynamoDB Backend = "dynamodb"
)

type Config struct {
	Backend     Backend
	PostgresURL string
	DynamoTable string
	AWSRegion   string
}

// QuotaStore is a quota.Store that may hold connections to release.
type QuotaStore interface {
	quota.Store
	Close() error
}

type gormStore struct {
	*dbquota.Repository
}

func (gormStore) Close() error { return nil }

// OpenQuotaStore builds the store named by cfg.Backend. db backs the sqlite
// backend and may be nil for the others.
func OpenQuotaStore(ctx context.Context, cfg Config, db *gorm.DB) (QuotaStore, error) {
	backend := Backend(strings.ToLower(strings.TrimSpace(string(cfg.Backend))))
	if backend == "" {
		backend = BackendSQLite
	}

	switch backend {
	case BackendSQLite:
		if db == nil {
			return nil, fmt.Errorf("sqlite quota backend requires a database")
		}
		return gormStore{dbquota.NewRepository(db)}, nil

	case BackendPostgres:
		if cfg.PostgresURL == "" {
			return nil, fmt.Errorf("postgres quota backend requires SUPABASE_DB_URL")
		}
		store, err := postgres.NewQuotaStore(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("postgres quota store: %w", err)
		}
		log.Printf("[QUOTA] Using Postgres quota store")
		return store, nil

	case BackendDynamoDB:
		if cfg.DynamoTable == "" {
			return nil, fmt.Errorf("dynamodb quota backend requires QUOTA_DYNAMODB_TABLE")
		}
		store, err := dynamo.NewQuotaStore(ctx, cfg.DynamoTable, cfg.AWSRegion)
		if err != nil {
			return nil, fmt.Errorf("dynamodb quota store: %w", err)
		}
		log.Printf("[QUOTA] Using DynamoDB quota store (table %s)", cfg.DynamoTable)
		return closeless{store}, nil

	default:
		return nil, fmt.Errorf("unknown quota backend %q", cfg.Backend)
	}
}

type closeless struct {
	*dynamo.QuotaStore
}

func (closeless) Close() error { return nil }
