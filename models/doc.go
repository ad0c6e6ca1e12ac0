// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, domain types, and domain errors for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateMeetingRequest: title, description, password, deadline, dateOptions
  - UpdateMeetingRequest: password plus optional title, description, deadline, dateOptions
  - AuthRequest: password
  - SubmitVoteRequest: nickname, password, dateOptionIds

# Response Types

  - CreateMeetingResponse: meetingId
  - MeetingResponse: _id, title, description, deadline, isExpired, dateOptions, participants
  - MeetingSummary: _id, title (search results)
  - SubmitVoteResponse: participantId, dateOptionIds, message
  - ErrorResponse: error, code

# Domain Types

  - Meeting: title, description, deadline and password hash
  - DateOption: one candidate timestamp of a meeting
  - Participant: a nickname scoped to one meeting with its vote password hash
  - VoteRecord: a participant's current selection set
  - OptionCount, Voter, RankedOption: tally results

# Errors

Domain errors are sentinels grouped under two categories:

	ErrNotFound   ← ErrMeetingNotFound
	ErrValidation ← ErrEmptyDateOptions, ErrInvalidOption

ErrInvalidPassword, ErrPasswordMismatch and ErrMeetingExpired stand alone.
*/
package models
