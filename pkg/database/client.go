// Package database opens the SQL result store. PostgreSQL goes through
// lib/pq; SQLite goes through the pure-Go modernc.org/sqlite driver so a
// local file works without cgo.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/Adithya-Monish-Kumar-K/termrank/pkg/config"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect captures the few SQL differences between the supported drivers.
type Dialect string

const (
	Postgres Dialect = config.DriverPostgres
	SQLite   Dialect = config.DriverSQLite
)

// Placeholder returns the n-th (1-based) bind parameter for the dialect.
func (d Dialect) Placeholder(n int) string {
	if d == Postgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}

type Client struct {
	DB      *sql.DB
	Dialect Dialect
}

// Open connects to the store selected by cfg.Store.Driver and verifies the
// connection.
func Open(cfg *config.Config) (*Client, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		return OpenPostgres(cfg.Postgres)
	case config.DriverSQLite:
		return OpenSQLite(cfg.Store.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
	}
}

func OpenPostgres(cfg config.PostgresConfig) (*Client, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := ping(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return &Client{DB: db, Dialect: Postgres}, nil
}

func OpenSQLite(path string) (*Client, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database %s: %w", path, err)
	}
	// sqlite serialises writers; a single connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if err := ping(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging sqlite: %w", err)
	}
	return &Client{DB: db, Dialect: SQLite}, nil
}

func ping(db *sql.DB) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return db.PingContext(ctx)
}

func (c *Client) Close() error {
	return c.DB.Close()
}

func (c *Client) InTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rolling back transaction after error %v: %w", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}
