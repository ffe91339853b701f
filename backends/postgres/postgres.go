package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ajiwo/dynstore/backends"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultTable is used when Config.Table is empty.
const DefaultTable = "dynstore_kv"

type Config struct {
	ConnString string
	MaxConns   int32
	MinConns   int32

	// Table holds the key/value rows. It is created on first use and quoted
	// as an identifier, so names derived from resolved storage names are safe.
	Table string

	// ConnErrorStrings overrides the connectivity classification patterns.
	ConnErrorStrings []string
}

type Backend struct {
	pool     *pgxpool.Pool
	table    string // sanitized identifier
	patterns []string
}

func New(config Config) (*Backend, error) {
	if config.ConnString == "" {
		return nil, NewInvalidConfigError("conn string")
	}
	if config.MaxConns == 0 {
		config.MaxConns = 10
	}
	if config.MinConns == 0 {
		config.MinConns = 2
	}
	if config.MinConns > config.MaxConns {
		return nil, NewInvalidPoolConfigError("min conns greater than max conns")
	}
	if config.Table == "" {
		config.Table = DefaultTable
	}
	patterns := config.ConnErrorStrings
	if patterns == nil {
		patterns = connErrorStrings
	}

	poolConfig, err := pgxpool.ParseConfig(config.ConnString)
	if err != nil {
		return nil, NewInvalidConnStringError(err)
	}
	poolConfig.MaxConns = config.MaxConns
	poolConfig.MinConns = config.MinConns

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, NewPoolCreationFailedError(err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, backends.MaybeConnError("postgres:Ping", NewPingFailedError(err), patterns)
	}

	b := &Backend{
		pool:     pool,
		table:    pgx.Identifier{config.Table}.Sanitize(),
		patterns: patterns,
	}
	if err := b.createTable(ctx); err != nil {
		pool.Close()
		return nil, NewTableCreationFailedError(err)
	}
	return b, nil
}

func (p *Backend) createTable(ctx context.Context) error {
	_, err := p.pool.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			expires_at TIMESTAMP WITH TIME ZONE
		)
	`, p.table))
	return err
}

// GetPool exposes the connection pool, mainly for tests.
func (p *Backend) GetPool() *pgxpool.Pool {
	return p.pool
}

// Table returns the quoted table name.
func (p *Backend) Table() string {
	return p.table
}

func expiresAt(expiration time.Duration, now time.Time) *time.Time {
	if expiration <= 0 {
		return nil
	}
	t := now.Add(expiration)
	return &t
}

func (p *Backend) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := p.pool.QueryRow(ctx, fmt.Sprintf(`
		SELECT value FROM %s
		WHERE key = $1 AND (expires_at IS NULL OR expires_at > $2)
	`, p.table), key, time.Now()).Scan(&value)

	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", backends.MaybeConnError("postgres:Get", NewGetFailedError(key, err), p.patterns)
	}
	return value, nil
}

func (p *Backend) Set(ctx context.Context, key, value string, expiration time.Duration) error {
	_, err := p.pool.Exec(ctx, fmt.Sprintf(`
		INSERT INTO %s (key, value, expires_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE SET
			value = EXCLUDED.value,
			expires_at = EXCLUDED.expires_at
	`, p.table), key, value, expiresAt(expiration, time.Now()))
	if err != nil {
		return backends.MaybeConnError("postgres:Set", NewSetFailedError(key, err), p.patterns)
	}
	return nil
}

// CheckAndSet relies on single-statement atomicity: the insert only replaces
// an expired row, the update only touches a live row holding oldValue.
func (p *Backend) CheckAndSet(ctx context.Context, key, oldValue, newValue string, expiration time.Duration) (bool, error) {
	now := time.Now()
	exp := expiresAt(expiration, now)

	var query string
	var args []any
	if oldValue == "" {
		query = fmt.Sprintf(`
			INSERT INTO %[1]s AS t (key, value, expires_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (key) DO UPDATE SET
				value = EXCLUDED.value,
				expires_at = EXCLUDED.expires_at
			WHERE t.expires_at IS NOT NULL AND t.expires_at <= $4
		`, p.table)
		args = []any{key, newValue, exp, now}
	} else {
		query = fmt.Sprintf(`
			UPDATE %s SET value = $3, expires_at = $4
			WHERE key = $1 AND value = $2 AND (expires_at IS NULL OR expires_at > $5)
		`, p.table)
		args = []any{key, oldValue, newValue, exp, now}
	}

	tag, err := p.pool.Exec(ctx, query, args...)
	if err != nil {
		return false, backends.MaybeConnError("postgres:CheckAndSet", NewCheckAndSetFailedError(key, err), p.patterns)
	}
	return tag.RowsAffected() == 1, nil
}

func (p *Backend) Delete(ctx context.Context, key string) error {
	_, err := p.pool.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE key = $1`, p.table), key)
	if err != nil {
		return backends.MaybeConnError("postgres:Delete", NewDeleteFailedError(key, err), p.patterns)
	}
	return nil
}

func (p *Backend) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}
