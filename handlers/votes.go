// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/boardtime/ledger"
	"github.com/danielhkuo/boardtime/middleware"
	"github.com/danielhkuo/boardtime/models"
	"github.com/danielhkuo/boardtime/tally"
)

type VoteHandler struct {
	ledger *ledger.Ledger
	tally  *tally.Engine
}

func NewVoteHandler(l *ledger.Ledger, t *tally.Engine) *VoteHandler {
	return &VoteHandler{ledger: l, tally: t}
}

// SubmitVote handles POST /api/meetings/{id}/votes
// 201 for a first vote, 200 when an existing selection was replaced
func (h *VoteHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	meetingID := r.PathValue("id")

	var req models.SubmitVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		badRequest(w, "Invalid JSON")
		return
	}

	rec, err := h.ledger.SubmitVote(r.Context(), meetingID, req.Nickname, req.Password, req.DateOptionIDs)
	if err != nil {
		writeError(w, r, err)
		return
	}

	status := http.StatusCreated
	message := "vote recorded"
	if rec.Replaced {
		status = http.StatusOK
		message = "vote updated"
	}

	slog.Info("vote submitted",
		"meeting_id", meetingID,
		"participant_id", rec.ParticipantID,
		"options", len(rec.DateOptionIDs),
		"replaced", rec.Replaced,
	)

	middleware.JSONResponse(w, status, models.SubmitVoteResponse{
		ParticipantID: rec.ParticipantID,
		DateOptionIDs: rec.DateOptionIDs,
		Message:       message,
	})
}

// GetCounts handles GET /api/meetings/{id}/votes
func (h *VoteHandler) GetCounts(w http.ResponseWriter, r *http.Request) {
	counts, err := h.tally.CountsByOption(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, counts)
}

// GetVoters handles GET /api/meetings/{id}/votes/{optionId}
func (h *VoteHandler) GetVoters(w http.ResponseWriter, r *http.Request) {
	voters, err := h.tally.VotersForOption(r.Context(), r.PathValue("id"), r.PathValue("optionId"))
	if errors.Is(err, models.ErrInvalidOption) {
		// An option outside the meeting is a missing resource here, not a bad body
		middleware.ErrorResponse(w, http.StatusNotFound, CodeInvalidOption, err.Error())
		return
	}
	if err != nil {
		writeError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, voters)
}
