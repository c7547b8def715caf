// Package testutil provides shared helpers for the registry's integration
// tests. Every helper keys off the TEST_DATABASE_URL environment variable
// and skips (or no-ops) when it is unset, so the unit-test suite never
// requires a running Postgres.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // registers "pgx" driver for database/sql
	"github.com/pressly/goose/v3"

	"github.com/pkordes/border-registry/backend/migrations"
)

// DSN returns the TEST_DATABASE_URL value, skipping the calling test when it
// is not set.
func DSN(t *testing.T) string {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping integration test")
	}
	return dsn
}

// NewPool opens a *pgxpool.Pool against the test database and closes it when
// the test and its subtests finish. Repo tests wrap each case in a rolled-back
// transaction taken from this pool.
func NewPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	pool, err := pgxpool.New(context.Background(), DSN(t))
	if err != nil {
		t.Fatalf("testutil.NewPool: open pool: %v", err)
	}
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		t.Fatalf("testutil.NewPool: ping: %v", err)
	}

	t.Cleanup(pool.Close)
	return pool
}

// NewSQLDB opens a *sql.DB against the test database via the pgx stdlib
// driver. goose drives migrations through database/sql, not through a pgx
// pool, so migration tests need this form of the connection.
func NewSQLDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", DSN(t))
	if err != nil {
		t.Fatalf("testutil.NewSQLDB: open: %v", err)
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		t.Fatalf("testutil.NewSQLDB: ping: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// MustOpenSQLDB opens a *sql.DB for the given DSN and panics on any error.
// For TestMain functions, where no *testing.T is available. The caller closes
// the returned handle.
func MustOpenSQLDB(dsn string) *sql.DB {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		panic("testutil.MustOpenSQLDB: open: " + err.Error())
	}
	if err := db.PingContext(context.Background()); err != nil {
		db.Close()
		panic("testutil.MustOpenSQLDB: ping: " + err.Error())
	}
	return db
}

// MigrateUp applies all pending registry migrations to db. TestMain functions
// call this before running package tests so individual tests never think
// about schema state.
func MigrateUp(ctx context.Context, db *sql.DB) error {
	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("testutil.MigrateUp: create provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("testutil.MigrateUp: up: %w", err)
	}
	return nil
}
