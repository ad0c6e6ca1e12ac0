// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/danielhkuo/boardtime/models"
)

func (q queries) InsertMeeting(ctx context.Context, m models.Meeting) error {
	const op = "store.InsertMeeting"

	_, err := q.q.ExecContext(ctx, `
		INSERT INTO meeting (id, title, title_folded, description, password_hash, deadline, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, m.ID, m.Title, strings.ToLower(m.Title), m.Description, m.PasswordHash,
		m.Deadline.UTC(), m.CreatedAt.UTC(), m.UpdatedAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, ErrDuplicate)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetMeeting returns models.ErrMeetingNotFound for an unknown id.
// Inside a Postgres transaction the row stays locked until commit.
func (q queries) GetMeeting(ctx context.Context, id string) (models.Meeting, error) {
	const op = "store.GetMeeting"

	var m models.Meeting
	err := q.q.QueryRowContext(ctx, `
		SELECT id, title, description, password_hash, deadline, created_at, updated_at
		FROM meeting
		WHERE id = $1`+q.lockClause(), id).
		Scan(&m.ID, &m.Title, &m.Description, &m.PasswordHash, &m.Deadline, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Meeting{}, models.ErrMeetingNotFound
	}
	if err != nil {
		return models.Meeting{}, fmt.Errorf("%s: %w", op, err)
	}

	m.Deadline = m.Deadline.UTC()
	m.CreatedAt = m.CreatedAt.UTC()
	m.UpdatedAt = m.UpdatedAt.UTC()
	return m, nil
}

func (q queries) UpdateMeeting(ctx context.Context, m models.Meeting) error {
	const op = "store.UpdateMeeting"

	res, err := q.q.ExecContext(ctx, `
		UPDATE meeting
		SET title = $1, title_folded = $2, description = $3, deadline = $4, updated_at = $5
		WHERE id = $6
	`, m.Title, strings.ToLower(m.Title), m.Description, m.Deadline.UTC(), m.UpdatedAt.UTC(), m.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return models.ErrMeetingNotFound
	}
	return nil
}

// SearchMeetings matches a case-insensitive title substring or an exact id, newest first
func (q queries) SearchMeetings(ctx context.Context, query string, limit int) ([]models.Meeting, error) {
	const op = "store.SearchMeetings"

	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	rows, err := q.q.QueryContext(ctx, `
		SELECT id, title, description, deadline, created_at, updated_at
		FROM meeting
		WHERE title_folded LIKE $1 ESCAPE '\' OR id = $2
		ORDER BY created_at DESC, id
		LIMIT $3
	`, pattern, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	meetings := []models.Meeting{}
	for rows.Next() {
		var m models.Meeting
		if err := rows.Scan(&m.ID, &m.Title, &m.Description, &m.Deadline, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		m.Deadline = m.Deadline.UTC()
		m.CreatedAt = m.CreatedAt.UTC()
		m.UpdatedAt = m.UpdatedAt.UTC()
		meetings = append(meetings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return meetings, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
