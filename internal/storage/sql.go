package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"

	// Registered database/sql drivers.
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/Tiliavir/trivial-attendance-tracker/internal/model"
)

// SQLStore keeps DayRecords as JSON documents in a single table. The same
// statements serve SQLite and PostgreSQL; only placeholders differ.
type SQLStore struct {
	db     *sql.DB
	driver string
}

const schema = `
CREATE TABLE IF NOT EXISTS attendance_records (
	user_name  TEXT NOT NULL,
	day        TEXT NOT NULL,
	intervals  TEXT NOT NULL,
	updated_at TEXT NOT NULL,
	PRIMARY KEY (user_name, day)
)`

// OpenSQL opens driver ("sqlite" or "postgres") at dsn and ensures the schema.
func OpenSQL(ctx context.Context, driver, dsn string) (*SQLStore, error) {
	if dsn == "" {
		return nil, errors.Errorf("storage driver %s requires a dsn", driver)
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s database", driver)
	}
	if driver == DriverSQLite {
		// SQLite allows a single writer; serialise through one connection.
		db.SetMaxOpenConns(1)
	} else {
		db.SetConnMaxIdleTime(5 * time.Minute)
		db.SetMaxOpenConns(10)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, errors.Wrapf(err, "failed to connect to %s database", driver)
	}

	s := &SQLStore{db: db, driver: driver}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "failed to create attendance_records table")
	}
	return s, nil
}

// placeholder returns the n-th bind parameter for the store's dialect.
func (s *SQLStore) placeholder(n int) string {
	if s.driver == DriverPostgres {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

func (s *SQLStore) Get(ctx context.Context, key model.Key) ([]model.WorkInterval, error) {
	q := fmt.Sprintf("SELECT intervals FROM attendance_records WHERE user_name = %s AND day = %s",
		s.placeholder(1), s.placeholder(2))

	var raw string
	err := s.db.QueryRowContext(ctx, q, key.User, key.Date).Scan(&raw)
	if err == sql.ErrNoRows {
		return []model.WorkInterval{}, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read record %s", key)
	}

	var intervals []model.WorkInterval
	if err := json.Unmarshal([]byte(raw), &intervals); err != nil {
		return nil, errors.Wrapf(err, "corrupt record %s", key)
	}
	if intervals == nil {
		intervals = []model.WorkInterval{}
	}
	return intervals, nil
}

func (s *SQLStore) Set(ctx context.Context, key model.Key, value []model.WorkInterval) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, "failed to marshal intervals")
	}
	q := fmt.Sprintf(`INSERT INTO attendance_records (user_name, day, intervals, updated_at)
		VALUES (%s, %s, %s, %s)
		ON CONFLICT (user_name, day) DO UPDATE SET intervals = excluded.intervals, updated_at = excluded.updated_at`,
		s.placeholder(1), s.placeholder(2), s.placeholder(3), s.placeholder(4))

	now := time.Now().UTC().Format(time.RFC3339)
	if _, err := s.db.ExecContext(ctx, q, key.User, key.Date, string(data), now); err != nil {
		return errors.Wrapf(err, "failed to write record %s", key)
	}
	return nil
}

func (s *SQLStore) Remove(ctx context.Context, key model.Key) error {
	q := fmt.Sprintf("DELETE FROM attendance_records WHERE user_name = %s AND day = %s",
		s.placeholder(1), s.placeholder(2))
	if _, err := s.db.ExecContext(ctx, q, key.User, key.Date); err != nil {
		return errors.Wrapf(err, "failed to delete record %s", key)
	}
	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
