// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/danielhkuo/boardtime/models"
)

// FindParticipant looks up a nickname within a meeting. found is false when none exists.
func (q queries) FindParticipant(ctx context.Context, meetingID, nickname string) (p models.Participant, found bool, err error) {
	const op = "store.FindParticipant"

	err = q.q.QueryRowContext(ctx, `
		SELECT id, meeting_id, nickname, password_hash, created_at, updated_at
		FROM participant
		WHERE meeting_id = $1 AND nickname = $2`+q.lockClause(), meetingID, nickname).
		Scan(&p.ID, &p.MeetingID, &p.Nickname, &p.PasswordHash, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Participant{}, false, nil
	}
	if err != nil {
		return models.Participant{}, false, fmt.Errorf("%s: %w", op, err)
	}

	p.CreatedAt = p.CreatedAt.UTC()
	p.UpdatedAt = p.UpdatedAt.UTC()
	return p, true, nil
}

// InsertParticipant returns ErrDuplicate when the nickname is already taken in the meeting
func (q queries) InsertParticipant(ctx context.Context, p models.Participant) error {
	const op = "store.InsertParticipant"

	_, err := q.q.ExecContext(ctx, `
		INSERT INTO participant (id, meeting_id, nickname, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, p.ID, p.MeetingID, p.Nickname, p.PasswordHash, p.CreatedAt.UTC(), p.UpdatedAt.UTC())
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, ErrDuplicate)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (q queries) TouchParticipant(ctx context.Context, participantID string, at time.Time) error {
	const op = "store.TouchParticipant"

	_, err := q.q.ExecContext(ctx, `
		UPDATE participant SET updated_at = $1 WHERE id = $2
	`, at.UTC(), participantID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListParticipants returns a meeting's participants in creation order
func (q queries) ListParticipants(ctx context.Context, meetingID string) ([]models.Participant, error) {
	const op = "store.ListParticipants"

	rows, err := q.q.QueryContext(ctx, `
		SELECT id, meeting_id, nickname, created_at, updated_at
		FROM participant
		WHERE meeting_id = $1
		ORDER BY created_at, id
	`, meetingID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	participants := []models.Participant{}
	for rows.Next() {
		var p models.Participant
		if err := rows.Scan(&p.ID, &p.MeetingID, &p.Nickname, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		p.CreatedAt = p.CreatedAt.UTC()
		p.UpdatedAt = p.UpdatedAt.UTC()
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return participants, nil
}

// ReplaceSelections swaps a participant's whole selection set. Run it inside WithTx.
func (q queries) ReplaceSelections(ctx context.Context, participantID string, optionIDs []string) error {
	const op = "store.ReplaceSelections"

	if _, err := q.q.ExecContext(ctx, `DELETE FROM selection WHERE participant_id = $1`, participantID); err != nil {
		return fmt.Errorf("%s: delete: %w", op, err)
	}

	for _, optionID := range optionIDs {
		_, err := q.q.ExecContext(ctx, `
			INSERT INTO selection (participant_id, date_option_id)
			VALUES ($1, $2)
		`, participantID, optionID)
		if err != nil {
			return fmt.Errorf("%s: insert: %w", op, err)
		}
	}
	return nil
}

// ParticipantSelections returns the option ids a participant currently holds, sorted
func (q queries) ParticipantSelections(ctx context.Context, participantID string) ([]string, error) {
	const op = "store.ParticipantSelections"

	rows, err := q.q.QueryContext(ctx, `
		SELECT date_option_id FROM selection WHERE participant_id = $1 ORDER BY date_option_id
	`, participantID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return ids, nil
}
