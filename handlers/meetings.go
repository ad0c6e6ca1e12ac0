// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"time"

	"github.com/danielhkuo/boardtime/cliparse"
	"github.com/danielhkuo/boardtime/meetings"
	"github.com/danielhkuo/boardtime/middleware"
	"github.com/danielhkuo/boardtime/models"
)

type MeetingHandler struct {
	svc *meetings.Service
	cfg cliparse.Config
	loc *time.Location
}

func NewMeetingHandler(svc *meetings.Service, cfg cliparse.Config) *MeetingHandler {
	return &MeetingHandler{svc: svc, cfg: cfg, loc: cfg.Location()}
}

// CreateMeeting handles POST /api/meetings
func (h *MeetingHandler) CreateMeeting(w http.ResponseWriter, r *http.Request) {
	var req models.CreateMeetingRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		badRequest(w, "Invalid JSON")
		return
	}

	if req.Deadline == "" {
		badRequest(w, "deadline is required")
		return
	}
	deadline, err := ParseTimestamp(req.Deadline, h.loc)
	if err != nil {
		writeError(w, r, err)
		return
	}
	dates, err := parseTimestamps(req.DateOptions, h.loc)
	if err != nil {
		writeError(w, r, err)
		return
	}

	id, err := h.svc.Create(r.Context(), meetings.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Password:    req.Password,
		Deadline:    deadline,
		DateOptions: dates,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CreateMeetingResponse{MeetingID: id})
}

// GetMeeting handles GET /api/meetings/{id}
func (h *MeetingHandler) GetMeeting(w http.ResponseWriter, r *http.Request) {
	detail, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, toMeetingResponse(detail))
}

// UpdateMeeting handles PUT /api/meetings/{id}
func (h *MeetingHandler) UpdateMeeting(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateMeetingRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		badRequest(w, "Invalid JSON")
		return
	}

	in := meetings.UpdateInput{
		Title:       req.Title,
		Description: req.Description,
	}
	if req.Deadline != nil {
		deadline, err := ParseTimestamp(*req.Deadline, h.loc)
		if err != nil {
			writeError(w, r, err)
			return
		}
		in.Deadline = &deadline
	}
	// Absent means unchanged; an explicit [] is rejected by the service
	if req.DateOptions != nil {
		dates, err := parseTimestamps(req.DateOptions, h.loc)
		if err != nil {
			writeError(w, r, err)
			return
		}
		in.DateOptions = &dates
	}

	detail, err := h.svc.Update(r.Context(), r.PathValue("id"), req.Password, in)
	if err != nil {
		writeError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, toMeetingResponse(detail))
}

// Authenticate handles POST /api/meetings/{id}/auth
func (h *MeetingHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var req models.AuthRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		badRequest(w, "Invalid JSON")
		return
	}

	if err := h.svc.Authenticate(r.Context(), id, req.Password); err != nil {
		writeError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.AuthResponse{
		MeetingID: id,
		Message:   "authenticated",
	})
}

// SearchMeetings handles GET /api/meetings/search?title=
func (h *MeetingHandler) SearchMeetings(w http.ResponseWriter, r *http.Request) {
	results, err := h.svc.SearchByTitle(r.Context(), r.URL.Query().Get("title"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, results)
}

func toMeetingResponse(d models.MeetingDetail) models.MeetingResponse {
	opts := make([]models.DateOptionView, 0, len(d.DateOptions))
	for _, o := range d.DateOptions {
		votes := d.Selections[o.ID]
		if votes == nil {
			votes = []string{}
		}
		opts = append(opts, models.DateOptionView{ID: o.ID, Date: o.Date, Votes: votes})
	}

	participants := make([]models.ParticipantView, 0, len(d.Participants))
	for _, p := range d.Participants {
		participants = append(participants, models.ParticipantView{ID: p.ID, Nickname: p.Nickname})
	}

	return models.MeetingResponse{
		ID:           d.Meeting.ID,
		Title:        d.Meeting.Title,
		Description:  d.Meeting.Description,
		Deadline:     d.Meeting.Deadline,
		IsExpired:    d.IsExpired,
		DateOptions:  opts,
		Participants: participants,
		CreatedAt:    d.Meeting.CreatedAt,
	}
}
