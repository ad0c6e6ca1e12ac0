// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db opens the database and applies schema migrations.

# Connecting

	conn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)

Supported types are "postgres" (lib/pq) and "sqlite" (modernc.org/sqlite).
SQLite DSNs get foreign_keys and busy_timeout pragmas unless the DSN already
sets pragmas, and the pool is limited to a single connection.

# Migrations

SQL migrations are embedded from migrations/ and applied with golang-migrate:

	if err := db.Migrate(ctx, conn, cfg.DatabaseType); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times. cmd/migrator uses NewMigrator for down, steps,
force and version.

# Tables

  - meeting: title, description, password hash, deadline
  - date_option: candidate timestamps, unique per meeting
  - participant: nickname and vote password hash, unique per meeting
  - selection: participant to date option links

# Relationships

	meeting 1──* date_option
	meeting 1──* participant
	participant *──* date_option (via selection)

All foreign keys use ON DELETE CASCADE. Timestamps are stored in UTC.
*/
package db
