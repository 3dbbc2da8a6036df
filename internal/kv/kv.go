// Package kv provides single-key persistence slots. Each backend stores an
// opaque value under a string key and replaces it as a whole on every Put.
package kv

import (
	"context"
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("kv: key not found")

// Slot is a key-value store holding whole values. Put must replace the
// previous value atomically: a failed Put leaves the old value readable.
type Slot interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Open builds the slot for driver. dsn is a directory for "file", a
// database path for "sqlite" and a redis URL for "redis"; "memory" ignores it.
func Open(ctx context.Context, driver, dsn string) (Slot, error) {
	switch driver {
	case DriverMemory:
		return NewMemorySlot(), nil
	case DriverFile:
		s, err := NewFileSlot(dsn)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverSQLite:
		fileDSN, err := SQLiteFileDSN(dsn)
		if err != nil {
			return nil, fmt.Errorf("sqlite dsn: %w", err)
		}
		s, err := NewSQLiteSlot(fileDSN)
		if err != nil {
			return nil, err
		}
		if err := s.ApplyMigrations(ctx); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("sqlite migrate: %w", err)
		}
		return s, nil
	case DriverRedis:
		s, err := OpenRedisSlot(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("kv: unknown driver %q", driver)
	}
}
