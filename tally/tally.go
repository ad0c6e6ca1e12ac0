// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"context"
	"sort"

	"github.com/danielhkuo/boardtime/models"
	"github.com/danielhkuo/boardtime/store"
)

// Engine answers read-only aggregation queries over committed votes
type Engine struct {
	store *store.Store
}

func New(st *store.Store) *Engine {
	return &Engine{store: st}
}

// CountsByOption maps every date option of the meeting to its vote count,
// including options nobody picked
func (e *Engine) CountsByOption(ctx context.Context, meetingID string) (map[string]int, error) {
	if _, err := e.store.GetMeeting(ctx, meetingID); err != nil {
		return nil, err
	}
	return e.store.CountVotes(ctx, meetingID)
}

// VotersForOption lists who picked an option, oldest participant first.
// No voters is an empty slice, not an error.
func (e *Engine) VotersForOption(ctx context.Context, meetingID, optionID string) ([]models.Voter, error) {
	if _, err := e.store.GetMeeting(ctx, meetingID); err != nil {
		return nil, err
	}

	ok, err := e.store.OptionBelongs(ctx, meetingID, optionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.ErrInvalidOption
	}

	return e.store.ListVoters(ctx, optionID)
}

// Results ranks the meeting's options by votes
func (e *Engine) Results(ctx context.Context, meetingID string) ([]models.RankedOption, error) {
	if _, err := e.store.GetMeeting(ctx, meetingID); err != nil {
		return nil, err
	}

	opts, err := e.store.ListDateOptions(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	counts, err := e.store.CountVotes(ctx, meetingID)
	if err != nil {
		return nil, err
	}

	return Rank(opts, counts), nil
}

// Rank orders options by votes, most first. Ties keep the input order,
// and tied options share a rank: 1, 1, 3.
func Rank(opts []models.DateOption, counts map[string]int) []models.RankedOption {
	ranked := make([]models.RankedOption, len(opts))
	for i, o := range opts {
		ranked[i] = models.RankedOption{OptionID: o.ID, Date: o.Date, Votes: counts[o.ID]}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Votes > ranked[j].Votes
	})

	for i := range ranked {
		if i > 0 && ranked[i].Votes == ranked[i-1].Votes {
			ranked[i].Rank = ranked[i-1].Rank
		} else {
			ranked[i].Rank = i + 1
		}
	}

	return ranked
}
