// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/danielhkuo/boardtime/models"
)

func (q queries) InsertDateOptions(ctx context.Context, opts []models.DateOption) error {
	const op = "store.InsertDateOptions"

	for _, o := range opts {
		_, err := q.q.ExecContext(ctx, `
			INSERT INTO date_option (id, meeting_id, starts_at)
			VALUES ($1, $2, $3)
		`, o.ID, o.MeetingID, o.Date.UTC())
		if err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%s: %w", op, ErrDuplicate)
			}
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}

// ListDateOptions returns a meeting's options ordered by date, then id
func (q queries) ListDateOptions(ctx context.Context, meetingID string) ([]models.DateOption, error) {
	const op = "store.ListDateOptions"

	rows, err := q.q.QueryContext(ctx, `
		SELECT id, meeting_id, starts_at
		FROM date_option
		WHERE meeting_id = $1
		ORDER BY starts_at, id
	`, meetingID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	opts := []models.DateOption{}
	for rows.Next() {
		var o models.DateOption
		if err := rows.Scan(&o.ID, &o.MeetingID, &o.Date); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		o.Date = o.Date.UTC()
		opts = append(opts, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return opts, nil
}

// DeleteDateOptions removes options together with every selection that points at them
func (q queries) DeleteDateOptions(ctx context.Context, ids []string) error {
	const op = "store.DeleteDateOptions"

	for _, id := range ids {
		if _, err := q.q.ExecContext(ctx, `DELETE FROM selection WHERE date_option_id = $1`, id); err != nil {
			return fmt.Errorf("%s: selections: %w", op, err)
		}
		if _, err := q.q.ExecContext(ctx, `DELETE FROM date_option WHERE id = $1`, id); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}
	return nil
}

func (q queries) OptionBelongs(ctx context.Context, meetingID, optionID string) (bool, error) {
	const op = "store.OptionBelongs"

	var one int
	err := q.q.QueryRowContext(ctx, `
		SELECT 1 FROM date_option WHERE id = $1 AND meeting_id = $2
	`, optionID, meetingID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return true, nil
}
