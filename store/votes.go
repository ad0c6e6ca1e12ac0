// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"fmt"

	"github.com/danielhkuo/boardtime/models"
)

// CountVotes returns option id -> number of participants selecting it.
// Options with no selections are present with 0.
func (q queries) CountVotes(ctx context.Context, meetingID string) (map[string]int, error) {
	const op = "store.CountVotes"

	rows, err := q.q.QueryContext(ctx, `
		SELECT o.id, COUNT(s.participant_id)
		FROM date_option o
		LEFT JOIN selection s ON s.date_option_id = o.id
		WHERE o.meeting_id = $1
		GROUP BY o.id
	`, meetingID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			optionID string
			count    int
		)
		if err := rows.Scan(&optionID, &count); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		counts[optionID] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return counts, nil
}

// ListVoters returns the participants selecting an option in creation order
func (q queries) ListVoters(ctx context.Context, optionID string) ([]models.Voter, error) {
	const op = "store.ListVoters"

	rows, err := q.q.QueryContext(ctx, `
		SELECT p.id, p.nickname
		FROM selection s
		JOIN participant p ON p.id = s.participant_id
		WHERE s.date_option_id = $1
		ORDER BY p.created_at, p.id
	`, optionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	voters := []models.Voter{}
	for rows.Next() {
		var v models.Voter
		if err := rows.Scan(&v.ParticipantID, &v.Nickname); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		voters = append(voters, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return voters, nil
}

// ListSelections returns option id -> participant ids for a whole meeting,
// participants in creation order
func (q queries) ListSelections(ctx context.Context, meetingID string) (map[string][]string, error) {
	const op = "store.ListSelections"

	rows, err := q.q.QueryContext(ctx, `
		SELECT s.date_option_id, p.id
		FROM selection s
		JOIN participant p ON p.id = s.participant_id
		WHERE p.meeting_id = $1
		ORDER BY p.created_at, p.id
	`, meetingID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	selections := make(map[string][]string)
	for rows.Next() {
		var optionID, participantID string
		if err := rows.Scan(&optionID, &participantID); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		selections[optionID] = append(selections[optionID], participantID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return selections, nil
}
