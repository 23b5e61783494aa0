// Package store provides the named key-value slots every tracker component
// persists into. Values are whole JSON documents; writes replace the slot.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Get when a slot has never been written.
var ErrNotFound = errors.New("not found")

// Store is a durable string key-value store.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Options selects and configures a backend.
type Options struct {
	Backend string
	// DSN is a file path for sqlite, a redis:// URL or a postgres:// URL.
	DSN string
}

// Open connects to the configured backend. Backends with a change feed come
// back already wrapped with WithNotifier; the Notifier is nil otherwise.
func Open(ctx context.Context, opts Options) (Store, Notifier, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case BackendMemory:
		notifier := NewLocalNotifier()
		return WithNotifier(NewMemory(), notifier), notifier, nil
	case BackendSQLite, "":
		db, err := NewSQLite(ctx, opts.DSN)
		if err != nil {
			return nil, nil, err
		}
		return db, nil, nil
	case BackendRedis:
		rdb, err := NewRedis(ctx, opts.DSN)
		if err != nil {
			return nil, nil, err
		}
		notifier := rdb.Notifier()
		return WithNotifier(rdb, notifier), notifier, nil
	case BackendPostgres:
		pg, err := NewPostgres(ctx, opts.DSN)
		if err != nil {
			return nil, nil, err
		}
		return pg, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", opts.Backend)
	}
}
