package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ajiwo/dynstore/backends"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const (
	// DefaultTable is used when Config.Table is empty.
	DefaultTable = "dynstore_kv"

	// MemoryPath opens a private in-memory database.
	MemoryPath = ":memory:"
)

type Config struct {
	// Path is a database file path or MemoryPath.
	Path string

	// Table holds the key/value rows; it is created on open.
	Table string

	// BusyTimeout bounds how long a writer waits on a locked file database.
	BusyTimeout time.Duration
}

// Backend stores keys in a SQLite table. Expirations are kept as Unix
// nanoseconds, NULL meaning no expiration.
type Backend struct {
	db    *sql.DB
	table string // quoted identifier
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func dsn(config Config) string {
	if config.Path == MemoryPath {
		return config.Path
	}
	busy := config.BusyTimeout
	if busy <= 0 {
		busy = 5 * time.Second
	}
	return fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)", config.Path, busy.Milliseconds())
}

// New opens (and creates when needed) the database at config.Path.
func New(config Config) (*Backend, error) {
	if config.Path == "" {
		return nil, NewInvalidConfigError("path")
	}
	if config.Table == "" {
		config.Table = DefaultTable
	}

	db, err := sql.Open("sqlite", dsn(config))
	if err != nil {
		return nil, NewOpenFailedError(config.Path, err)
	}
	if config.Path == MemoryPath {
		// every pooled connection would otherwise see its own empty database
		db.SetMaxOpenConns(1)
	}

	b := &Backend{db: db, table: quoteIdent(config.Table)}
	if _, err := db.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			expires_at INTEGER
		)
	`, b.table)); err != nil {
		db.Close()
		return nil, NewTableCreationFailedError(err)
	}
	return b, nil
}

func expiresAt(expiration time.Duration, now time.Time) sql.NullInt64 {
	if expiration <= 0 {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: now.Add(expiration).UnixNano(), Valid: true}
}

func (s *Backend) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, fmt.Sprintf(`
		SELECT value FROM %s
		WHERE key = ? AND (expires_at IS NULL OR expires_at > ?)
	`, s.table), key, time.Now().UnixNano()).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", backends.MaybeConnError("sqlite:Get", NewGetFailedError(key, err), connErrorStrings)
	}
	return value, nil
}

func (s *Backend) Set(ctx context.Context, key, value string, expiration time.Duration) error {
	_, err := s.db.ExecContext(ctx, fmt.Sprintf(`
		INSERT INTO %s (key, value, expires_at) VALUES (?, ?, ?)
		ON CONFLICT (key) DO UPDATE SET
			value = excluded.value,
			expires_at = excluded.expires_at
	`, s.table), key, value, expiresAt(expiration, time.Now()))
	if err != nil {
		return backends.MaybeConnError("sqlite:Set", NewSetFailedError(key, err), connErrorStrings)
	}
	return nil
}

func (s *Backend) CheckAndSet(ctx context.Context, key, oldValue, newValue string, expiration time.Duration) (bool, error) {
	now := time.Now()
	exp := expiresAt(expiration, now)

	var (
		res sql.Result
		err error
	)
	if oldValue == "" {
		res, err = s.db.ExecContext(ctx, fmt.Sprintf(`
			INSERT INTO %[1]s (key, value, expires_at) VALUES (?, ?, ?)
			ON CONFLICT (key) DO UPDATE SET
				value = excluded.value,
				expires_at = excluded.expires_at
			WHERE %[1]s.expires_at IS NOT NULL AND %[1]s.expires_at <= ?
		`, s.table), key, newValue, exp, now.UnixNano())
	} else {
		res, err = s.db.ExecContext(ctx, fmt.Sprintf(`
			UPDATE %s SET value = ?, expires_at = ?
			WHERE key = ? AND value = ? AND (expires_at IS NULL OR expires_at > ?)
		`, s.table), newValue, exp, key, oldValue, now.UnixNano())
	}
	if err != nil {
		return false, backends.MaybeConnError("sqlite:CheckAndSet", NewCheckAndSetFailedError(key, err), connErrorStrings)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return false, NewCheckAndSetFailedError(key, err)
	}
	return n == 1, nil
}

func (s *Backend) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s WHERE key = ?`, s.table), key); err != nil {
		return backends.MaybeConnError("sqlite:Delete", NewDeleteFailedError(key, err), connErrorStrings)
	}
	return nil
}

func (s *Backend) Close() error {
	if err := s.db.Close(); err != nil {
		return NewCloseFailedError(err)
	}
	return nil
}
