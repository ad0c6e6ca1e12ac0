// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package ledger records votes.

A participant is identified by nickname within one meeting. The first vote
with a nickname creates the participant and stores a bcrypt hash of the
password given with it. Every later vote with that nickname must present
the same password and replaces the participant's whole selection.

Each submission runs in a single transaction, so a rejected vote changes
nothing. Submissions for the same meeting and nickname are serialized in
process; across processes a unique constraint on (meeting, nickname) and
one retry resolve racing first votes.

	l := ledger.New(st, pub, ledger.WithPasswordCost(cfg.PasswordCost))
	rec, err := l.SubmitVote(ctx, meetingID, "alice", "pw", []string{optionID})
*/
package ledger
