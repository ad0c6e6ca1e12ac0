// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"time"

	"github.com/danielhkuo/boardtime/auth"
	"github.com/danielhkuo/boardtime/cliparse"
	"github.com/danielhkuo/boardtime/events"
	"github.com/danielhkuo/boardtime/handlers"
	"github.com/danielhkuo/boardtime/ledger"
	"github.com/danielhkuo/boardtime/meetings"
	"github.com/danielhkuo/boardtime/metrics"
	"github.com/danielhkuo/boardtime/middleware"
	"github.com/danielhkuo/boardtime/ratelimit"
	"github.com/danielhkuo/boardtime/store"
	"github.com/danielhkuo/boardtime/tally"
)

// Dependencies are the collaborators shared by all handlers.
// Publisher, Limiter and Now may be left nil.
type Dependencies struct {
	Store     *store.Store
	Publisher events.Publisher
	Limiter   *ratelimit.Limiter
	Now       func() time.Time
}

func NewRouter(deps Dependencies, cfg cliparse.Config) http.Handler {
	mux := http.NewServeMux()

	now := deps.Now
	if now == nil {
		now = time.Now
	}

	// Initialize services and handlers
	meetingSvc := meetings.New(deps.Store, deps.Publisher,
		meetings.WithClock(now), meetings.WithPasswordCost(cfg.PasswordCost))
	voteLedger := ledger.New(deps.Store, deps.Publisher,
		ledger.WithClock(now), ledger.WithPasswordCost(cfg.PasswordCost))
	tallyEngine := tally.New(deps.Store)

	meetingHandler := handlers.NewMeetingHandler(meetingSvc, cfg)
	voteHandler := handlers.NewVoteHandler(voteLedger, tallyEngine)
	resultsHandler := handlers.NewResultsHandler(tallyEngine)

	// Password-bearing endpoints are limited per client IP and meeting
	limited := func(scope string, h http.HandlerFunc) http.HandlerFunc {
		return deps.Limiter.Middleware(scope, func(r *http.Request) string {
			return auth.HashIP(middleware.GetClientIP(r), cfg.IPHashSalt) + ":" + r.PathValue("id")
		}, h)
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		if err := deps.Store.Ping(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", metrics.Handler())

	// Meetings
	mux.HandleFunc("POST /api/meetings", middleware.WithLogging(meetingHandler.CreateMeeting))
	mux.HandleFunc("GET /api/meetings/search", middleware.WithLogging(meetingHandler.SearchMeetings))
	mux.HandleFunc("GET /api/meetings/{id}", middleware.WithLogging(meetingHandler.GetMeeting))
	mux.HandleFunc("PUT /api/meetings/{id}", middleware.WithLogging(limited("update", meetingHandler.UpdateMeeting)))
	mux.HandleFunc("POST /api/meetings/{id}/auth", middleware.WithLogging(limited("auth", meetingHandler.Authenticate)))

	// Votes and results
	mux.HandleFunc("POST /api/meetings/{id}/votes", middleware.WithLogging(limited("votes", voteHandler.SubmitVote)))
	mux.HandleFunc("GET /api/meetings/{id}/votes", middleware.WithLogging(voteHandler.GetCounts))
	mux.HandleFunc("GET /api/meetings/{id}/votes/{optionId}", middleware.WithLogging(voteHandler.GetVoters))
	mux.HandleFunc("GET /api/meetings/{id}/results", middleware.WithLogging(resultsHandler.GetResults))

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("boardtime API v1"))
	})

	return middleware.RequestID(middleware.CORS(cfg.AllowedOrigins)(mux))
}
