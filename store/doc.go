// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store is the persistence layer over database/sql.

The same queries run on PostgreSQL (lib/pq) and SQLite (modernc.org/sqlite).
Store methods run on the pool, Tx methods inside a transaction:

	err := st.WithTx(ctx, func(tx *store.Tx) error {
		m, err := tx.GetMeeting(ctx, id)
		...
	})

Inside a transaction on PostgreSQL, meeting reads take a row lock. SQLite
serializes writers on its single connection.

Unique constraint violations surface as ErrDuplicate.
*/
package store
