// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the BoardTime API.

# Route Registration

NewRouter builds the services and handlers and returns the complete
handler chain (request id, CORS, mux):

	h := router.NewRouter(router.Dependencies{Store: st, Publisher: pub, Limiter: lim}, cfg)

# Endpoints

Operational:

	GET /health  - Database ping
	GET /metrics - Prometheus metrics

Meetings:

	POST /api/meetings             - Create meeting
	GET  /api/meetings/search      - Search by title or id
	GET  /api/meetings/{id}        - Meeting with dates, participants and votes
	PUT  /api/meetings/{id}        - Owner edit (rate limited)
	POST /api/meetings/{id}/auth   - Owner password check (rate limited)

Votes:

	POST /api/meetings/{id}/votes            - Submit or replace a vote (rate limited)
	GET  /api/meetings/{id}/votes            - Counts per date option
	GET  /api/meetings/{id}/votes/{optionId} - Voters for one date option
	GET  /api/meetings/{id}/results          - Ranked date options

Rate limited routes are keyed by hashed client IP and meeting id. With no
limiter configured they are not limited.
*/
package router
