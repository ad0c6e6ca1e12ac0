// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/danielhkuo/boardtime/db"
)

// ErrDuplicate is returned when an insert hits a unique constraint
var ErrDuplicate = errors.New("duplicate key")

// querier is satisfied by both *sql.DB and *sql.Tx
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type queries struct {
	q       querier
	dialect string
	inTx    bool
}

// Store runs queries directly against the pool.
type Store struct {
	queries
	conn *sql.DB
}

// Tx runs the same queries inside a transaction. Only valid within WithTx.
type Tx struct {
	queries
}

func New(conn *sql.DB, dbType string) *Store {
	return &Store{
		queries: queries{q: conn, dialect: dbType},
		conn:    conn,
	}
}

// WithTx runs fn in a transaction, committing if fn returns nil.
// fn must do all of its work through tx: SQLite has a single connection.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Tx) error) error {
	const op = "store.WithTx"

	sqlTx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", op, err)
	}
	defer sqlTx.Rollback()

	if err := fn(&Tx{queries{q: sqlTx, dialect: s.dialect, inTx: true}}); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", op, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

// lockClause takes a row lock on Postgres. SQLite transactions are already
// serialized by the single connection.
func (q queries) lockClause() string {
	if q.inTx && q.dialect == db.TypePostgres {
		return " FOR UPDATE"
	}
	return ""
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		code := sqliteErr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}
