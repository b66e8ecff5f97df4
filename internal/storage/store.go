package storage

import (
	"context"
	"fmt"

	"github.com/Tiliavir/trivial-attendance-tracker/internal/model"
)

// Store persists the intervals of each (user, date) key.
// Get returns an empty slice for unknown keys; Remove of an unknown key is a no-op.
type Store interface {
	Get(ctx context.Context, key model.Key) ([]model.WorkInterval, error)
	Set(ctx context.Context, key model.Key, value []model.WorkInterval) error
	Remove(ctx context.Context, key model.Key) error
	Close() error
}

// Supported storage drivers.
const (
	DriverFile     = "file"
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open creates the Store for driver. For the file driver dsn is the data
// directory; for SQL drivers it is the database DSN.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case DriverFile, "":
		return NewFileStore(dsn), nil
	case DriverMemory:
		return NewMemoryStore(), nil
	case DriverSQLite, DriverPostgres:
		s, err := OpenSQL(ctx, driver, dsn)
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q: use file, memory, sqlite or postgres", driver)
	}
}
