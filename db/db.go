// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	TypeSQLite   = "sqlite"
	TypePostgres = "postgres"
)

//go:embed migrations/*.sql
var migrations embed.FS

// sqlitePragmas are appended to SQLite DSNs that do not set their own
const sqlitePragmas = "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite"

// Open connects to the database and verifies the connection.
// SQLite is limited to one open connection so writers never race for the file lock.
func Open(ctx context.Context, dbType, dsn string) (*sql.DB, error) {
	var driverName string
	switch dbType {
	case TypePostgres:
		driverName = "postgres"
	case TypeSQLite:
		driverName = "sqlite"
		dsn = withSQLitePragmas(dsn)
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}

	conn, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbType == TypeSQLite {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	return conn, nil
}

func withSQLitePragmas(dsn string) string {
	if strings.Contains(dsn, "_pragma=") {
		return dsn
	}
	if strings.Contains(dsn, "?") {
		return dsn + "&" + sqlitePragmas
	}
	return dsn + "?" + sqlitePragmas
}

// NewMigrator builds a migrate instance over the embedded migrations.
// Call release when done; it frees the dedicated Postgres connection but leaves conn open.
func NewMigrator(ctx context.Context, conn *sql.DB, dbType string) (m *migrate.Migrate, release func() error, err error) {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load migrations: %w", err)
	}

	var driver database.Driver
	release = func() error { return nil }

	switch dbType {
	case TypePostgres:
		c, err := conn.Conn(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to acquire connection: %w", err)
		}
		driver, err = postgres.WithConnection(ctx, c, &postgres.Config{})
		if err != nil {
			c.Close()
			return nil, nil, fmt.Errorf("failed to create postgres migration driver: %w", err)
		}
		release = c.Close
	case TypeSQLite:
		driver, err = sqlite.WithInstance(conn, &sqlite.Config{})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create sqlite migration driver: %w", err)
		}
	default:
		return nil, nil, fmt.Errorf("unsupported database type %q", dbType)
	}

	m, err = migrate.NewWithInstance("iofs", src, dbType, driver)
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("failed to create migrator: %w", err)
	}

	return m, release, nil
}

// Migrate applies all pending migrations. Safe to call multiple times.
func Migrate(ctx context.Context, conn *sql.DB, dbType string) error {
	m, release, err := NewMigrator(ctx, conn, dbType)
	if err != nil {
		return err
	}
	defer release()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	return nil
}
