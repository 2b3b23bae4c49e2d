package store

import (
	"context"
	"errors"
)

// Store is the durable string key/value facility session snapshots live in.
// Get reports found=false for an absent key; that is not an error.
type Store interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Backend names accepted by configuration.
const (
	BackendMemory   = "memory"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

var ErrEmptyKey = errors.New("store key is required")
