// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the BoardTime API.

# Handler Types

Each handler is a thin struct over one domain service:

  - MeetingHandler: create, read, update, authenticate and search meetings
  - VoteHandler: vote submission, per-option counts and voter lists
  - ResultsHandler: ranked results

Handlers are created by the router:

	meetingHandler := handlers.NewMeetingHandler(meetingSvc, cfg)
	voteHandler := handlers.NewVoteHandler(voteLedger, tallyEngine)

# Meetings

	POST /api/meetings              → CreateMeeting (returns meetingId)
	GET  /api/meetings/search       → SearchMeetings (?title=)
	GET  /api/meetings/{id}         → GetMeeting
	PUT  /api/meetings/{id}         → UpdateMeeting (owner password in body)
	POST /api/meetings/{id}/auth    → Authenticate

Timestamps are RFC 3339. A datetime without an offset, as sent by an
HTML datetime-local input, is read in the configured TIMEZONE.

# Voting

	POST /api/meetings/{id}/votes            → SubmitVote (201 new, 200 replaced)
	GET  /api/meetings/{id}/votes            → GetCounts
	GET  /api/meetings/{id}/votes/{optionId} → GetVoters
	GET  /api/meetings/{id}/results          → GetResults

A nickname is claimed by the first vote that uses it. Later votes with the
same nickname must repeat its password and replace the whole selection.

# Errors

Errors are JSON bodies with a message and a machine-readable code:

	400 invalid_request, empty_date_options, invalid_option
	401 invalid_password
	403 password_mismatch
	404 not_found
	409 meeting_expired
	500 internal
*/
package handlers
