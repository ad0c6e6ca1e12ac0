// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/boardtime/middleware"
	"github.com/danielhkuo/boardtime/tally"
)

type ResultsHandler struct {
	tally *tally.Engine
}

func NewResultsHandler(t *tally.Engine) *ResultsHandler {
	return &ResultsHandler{tally: t}
}

// GetResults handles GET /api/meetings/{id}/results
// Options ranked by votes, ties sharing a rank
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	ranked, err := h.tally.Results(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, ranked)
}
